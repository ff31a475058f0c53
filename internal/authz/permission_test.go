package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePermission(t *testing.T) {
	cases := []struct {
		in   string
		want Permission
	}{
		{"accounts:create", Permission{Resource: "accounts", Action: "create", Scope: ScopeUnscoped}},
		{"accounts:create:own-dept", Permission{Resource: "accounts", Action: "create", Scope: ScopeOwnDepartment}},
		{"accounts:read_own", Permission{Resource: "accounts", Action: "read", Scope: ScopeOwnRecord}},
		{"accounts:update_own", Permission{Resource: "accounts", Action: "update", Scope: ScopeOwnRecord}},
		{"departments:get:id", Permission{Resource: "departments", Action: "get:id", Scope: ScopeUnscoped}},
		{"departments:patch:status", Permission{Resource: "departments", Action: "patch:status", Scope: ScopeUnscoped}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePermission(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.in, got.String(), "string form should round-trip")
		})
	}
}

func TestParsePermissionRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"accounts",
		"accounts:",
		":create",
		"accounts:update_own:own-dept",
		"accounts:_own",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePermission(in)
			assert.ErrorIs(t, err, ErrInvalidPermission)
		})
	}
}

func TestNewGrantSet(t *testing.T) {
	set, err := NewGrantSet([]string{"accounts:read_own", "departments:get"})
	require.NoError(t, err)
	assert.True(t, set.Has(Permission{Resource: "accounts", Action: "read", Scope: ScopeOwnRecord}))
	assert.True(t, set.Has(Permission{Resource: "departments", Action: "get"}))
	assert.False(t, set.Has(Permission{Resource: "accounts", Action: "read"}))

	_, err = NewGrantSet([]string{"accounts:read", "garbage"})
	assert.ErrorIs(t, err, ErrInvalidPermission)
}
