package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallerIsAdmin(t *testing.T) {
	assert.True(t, Caller{ID: "ops-1", Role: RoleAdmin}.IsAdmin())
	assert.False(t, Caller{ID: "farmer-1", Role: RoleFarmer}.IsAdmin())
	assert.False(t, Caller{ID: "x"}.IsAdmin())
}

func TestCallerOwns(t *testing.T) {
	c := Caller{ID: "user-9", Role: RoleFarmer, FarmerID: "farmer-9"}

	assert.True(t, c.Owns("user-9"), "primary identity matches")
	assert.True(t, c.Owns("farmer-9"), "alternate farmer identity matches")
	assert.False(t, c.Owns("farmer-2"))
	assert.False(t, c.Owns(""), "empty owner never matches")
}
