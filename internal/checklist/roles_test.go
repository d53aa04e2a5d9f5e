package checklist

import (
	"testing"

	"github.com/pocketbase/pocketbase/core"
	"github.com/stretchr/testify/assert"
)

func TestRolesOf(t *testing.T) {
	users := core.NewAuthCollection("users")
	users.Fields.Add(&core.SelectField{Name: ColRoles, MaxSelect: len(Roles), Values: []string{"DRIVER", "MECHANIC", "DISPATCHER", "ADMIN"}})

	rec := core.NewRecord(users)
	rec.Set(ColRoles, []string{"mechanic", " DRIVER "})

	roles := RolesOf(rec)
	assert.Equal(t, []Role{RoleMechanic, RoleDriver}, roles)
	assert.True(t, HasRole(roles, RoleAdmin, RoleMechanic))
	assert.False(t, HasRole(roles, RoleAdmin, RoleDispatcher))

	assert.Nil(t, RolesOf(nil))
	assert.False(t, HasRole(nil, RoleMechanic))
}
