package core

import (
	"strings"

	"driver_checklist_app/internal/checklist"
)

// PocketBase API Rules (Constants)
const (
	RuleAuthOnly   = "@request.auth.id != ''"
	RuleAdminOnly  = "@request.auth.id != '' && @request.auth.roles ?= 'ADMIN'"
	RuleOfficeOnly = "@request.auth.id != '' && (@request.auth.roles ?= 'ADMIN' || @request.auth.roles ?= 'DISPATCHER')"

	// Отправки чек-листов видят автор и диспетчеры
	RuleSubmissionView = "@request.auth.id != '' && (@request.auth.id = submitted_by || @request.auth.roles ?= 'ADMIN' || @request.auth.roles ?= 'DISPATCHER')"
)

// RuleAnyRole allows authenticated users holding at least one of roles.
func RuleAnyRole(roles ...checklist.Role) string {
	if len(roles) == 0 {
		return RuleAdminOnly
	}
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = "@request.auth.roles ?= '" + string(r) + "'"
	}
	return RuleAuthOnly + " && (" + strings.Join(parts, " || ") + ")"
}

// RuleChecklistWrite allows every role except the restricted one to change
// checklists.
func RuleChecklistWrite(restricted checklist.Role) string {
	var allowed []checklist.Role
	for _, r := range checklist.Roles {
		if r != restricted {
			allowed = append(allowed, r)
		}
	}
	return RuleAnyRole(allowed...)
}
