package checklist

import (
	"github.com/pocketbase/pocketbase/core"

	"driver_checklist_app/internal/utils"
)

// ColRoles is the multi-select roles field added to the "users" collection.
const ColRoles = "roles"

// RolesOf reads the roles of an auth record. Superusers and a nil record have none.
func RolesOf(rec *core.Record) []Role {
	if rec == nil {
		return nil
	}
	raw := rec.GetStringSlice(ColRoles)
	out := make([]Role, 0, len(raw))
	for _, r := range raw {
		if r = utils.NormalizeKey(r); r != "" {
			out = append(out, Role(r))
		}
	}
	return out
}

// HasRole reports whether roles contains any of want.
func HasRole(roles []Role, want ...Role) bool {
	for _, r := range roles {
		for _, w := range want {
			if r == w {
				return true
			}
		}
	}
	return false
}
