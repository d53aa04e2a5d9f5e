package handlers

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/hook"
)

// AuthCookie is the cookie the PocketBase JS SDK writes with exportToCookie.
const AuthCookie = "pb_auth"

// loadCookieAuth resolves the auth record from AuthCookie for browser requests
// that carry no Authorization header. It runs right after PocketBase's own
// header based token loading.
func loadCookieAuth() *hook.Handler[*core.RequestEvent] {
	return &hook.Handler[*core.RequestEvent]{
		Id:       "checklistCookieAuth",
		Priority: apis.DefaultLoadAuthTokenMiddlewarePriority + 1,
		Func: func(e *core.RequestEvent) error {
			if e.Auth != nil {
				return e.Next()
			}
			c, err := e.Request.Cookie(AuthCookie)
			if err != nil {
				return e.Next()
			}
			token := cookieToken(c.Value)
			if token == "" {
				return e.Next()
			}
			record, err := e.App.FindAuthRecordByToken(token, core.TokenTypeAuth)
			if err == nil && record != nil {
				e.Auth = record
			}
			return e.Next()
		},
	}
}

// cookieToken accepts either a bare token or the SDK's URL-encoded
// {"token": ..., "record": ...} payload.
func cookieToken(raw string) string {
	if v, err := url.QueryUnescape(raw); err == nil {
		raw = v
	}
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		return raw
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ""
	}
	return payload.Token
}
