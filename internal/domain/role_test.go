package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	for _, role := range []Role{
		RoleAdmin, RoleUser, RoleDeveloper, RoleDesigner, RoleHR,
		RoleMarketing, RoleFinance, RoleBlogWriter, RoleSEOManager,
		RoleProjectManager, RoleModerator, RoleEditor, RoleViewer,
	} {
		assert.True(t, role.IsValid(), "role %q", role)
	}

	assert.False(t, Role("").IsValid())
	assert.False(t, Role("warlock").IsValid())
	assert.False(t, Role("Admin").IsValid(), "roles are lowercase identifiers")
}

func TestProject_SharedWith(t *testing.T) {
	project := Project{OwnerID: "owner-1", Members: []string{"member-1", "member-2"}}

	assert.True(t, project.SharedWith("member-1"))
	assert.False(t, project.SharedWith("owner-1"), "ownership is not membership")
	assert.False(t, project.SharedWith("stranger"))
}
