package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Rank(t *testing.T) {
	assert.Equal(t, 1, RoleUser.Rank())
	assert.Equal(t, 2, RoleAgent.Rank())
	assert.Equal(t, 3, RoleAdmin.Rank())
	assert.Equal(t, 4, RoleMasterAdmin.Rank())
	assert.Equal(t, 0, Role("superuser").Rank())
}

func TestRole_Outranks(t *testing.T) {
	assert.True(t, RoleMasterAdmin.Outranks(RoleAdmin))
	assert.True(t, RoleAdmin.Outranks(RoleAgent))
	assert.True(t, RoleAgent.Outranks(RoleUser))

	// Not reflexive, not upward
	assert.False(t, RoleAgent.Outranks(RoleAgent))
	assert.False(t, RoleUser.Outranks(RoleAgent))
	assert.False(t, RoleAdmin.Outranks(RoleMasterAdmin))

	// Unknown roles rank zero and outrank nothing
	assert.False(t, Role("superuser").Outranks(RoleUser))
	assert.True(t, RoleUser.Outranks(Role("superuser")))
}

func TestRole_IsValid(t *testing.T) {
	for _, role := range []Role{RoleUser, RoleAgent, RoleAdmin, RoleMasterAdmin} {
		assert.True(t, role.IsValid(), "role %s should be valid", role)
	}
	assert.False(t, Role("").IsValid())
	assert.False(t, Role("superuser").IsValid())
}

func TestUser_Principal(t *testing.T) {
	user := &User{ID: 42, Username: "alice", Role: RoleAgent}
	p := user.Principal()
	assert.Equal(t, int64(42), p.UserID)
	assert.Equal(t, RoleAgent, p.Role)
}
