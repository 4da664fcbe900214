package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleStudent.Valid())
	assert.False(t, UserRole("").Valid())
	assert.False(t, UserRole("Admin").Valid())
}
