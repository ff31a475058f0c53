package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grants(t *testing.T, perms ...string) GrantSet {
	t.Helper()
	set, err := NewGrantSet(perms)
	require.NoError(t, err)
	return set
}

func reqs(perms ...string) []Permission {
	out := make([]Permission, len(perms))
	for i, s := range perms {
		out[i] = MustParsePermission(s)
	}
	return out
}

func TestMatchExactWinsOverScoped(t *testing.T) {
	granted := grants(t, "accounts:update", "accounts:update:own-dept", "accounts:update_own")
	m := match(reqs("accounts:update", "accounts:update_own", "accounts:update:own-dept"), granted)
	assert.Equal(t, matchExact, m.kind)
	assert.Equal(t, MustParsePermission("accounts:update"), m.required)
}

func TestMatchDepartmentCompatForMutations(t *testing.T) {
	granted := grants(t, "accounts:create:own-dept", "accounts:update:own-dept",
		"accounts:disable:own-dept", "accounts:delete:own-dept")

	for _, action := range []string{"create", "update", "disable", "delete"} {
		m := match(reqs("accounts:"+action), granted)
		assert.Equal(t, matchOwnDepartment, m.kind, action)
	}
}

func TestMatchSelfCompat(t *testing.T) {
	granted := grants(t, "accounts:read_own", "accounts:update_own")

	m := match(reqs("accounts:read"), granted)
	assert.Equal(t, matchOwnRecord, m.kind)

	m = match(reqs("accounts:update"), granted)
	assert.Equal(t, matchOwnRecord, m.kind)

	// Self scope never satisfies disable or delete.
	granted = grants(t, "accounts:disable_own", "accounts:delete_own")
	assert.Equal(t, matchNone, match(reqs("accounts:disable"), granted).kind)
	assert.Equal(t, matchNone, match(reqs("accounts:delete"), granted).kind)
}

func TestMatchDepartmentReadCompat(t *testing.T) {
	granted := grants(t, "accounts:read:own-dept")
	m := match(reqs("accounts:read"), granted)
	assert.Equal(t, matchOwnDepartment, m.kind)
}

func TestMatchSelfBeatsDepartmentForRead(t *testing.T) {
	// A role granted both compat paths resolves through the self rule first.
	granted := grants(t, "accounts:read_own", "accounts:read:own-dept")
	m := match(reqs("accounts:read"), granted)
	assert.Equal(t, matchOwnRecord, m.kind)
}

func TestMatchFirstRequiredPermissionWins(t *testing.T) {
	granted := grants(t, "accounts:read_own", "accounts:read:own-dept")
	// The required list is ordered; an exact grant for a later entry still
	// loses to a compat match on an earlier entry only when the earlier
	// entry resolves first.
	m := match(reqs("accounts:read_own", "accounts:read"), granted)
	assert.Equal(t, matchExact, m.kind)
	assert.Equal(t, MustParsePermission("accounts:read_own"), m.required)
}

func TestMatchNoCompatOutsideAccounts(t *testing.T) {
	granted := grants(t, "departments:update:own-dept")
	m := match(reqs("departments:update"), granted)
	assert.Equal(t, matchNone, m.kind)
}

func TestMatchEmptyGrantSet(t *testing.T) {
	m := match(reqs("accounts:read"), GrantSet{})
	assert.Equal(t, matchNone, m.kind)
}
