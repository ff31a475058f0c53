package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stafflane/stafflane/internal/shared"
)

func testCredential() *Credential {
	return &Credential{
		ID:           "acc-1",
		Username:     "jdoe",
		Email:        "jdoe@example.com",
		Status:       StatusActive,
		DepartmentID: "dept-eng",
		RoleID:       "role-manager",
		RoleName:     "MANAGER",
		UserTypeID:   "ut-staff",
		UserTypeName: "Staff",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	raw, err := m.Issue(testCredential())
	require.NoError(t, err)

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.Subject)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "role-manager", claims.RoleID)
	assert.Equal(t, "MANAGER", claims.RoleName)
	assert.Equal(t, "ut-staff", claims.UserTypeID)
	assert.Equal(t, "Staff", claims.UserTypeName)
}

func TestTokenWrongSecret(t *testing.T) {
	raw, err := NewTokenManager("secret-a", time.Hour).Issue(testCredential())
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	raw, err := m.Issue(testCredential())
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestTokenGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	for _, raw := range []string{"", "not.a.token", "a.b"} {
		_, err := m.Verify(raw)
		assert.ErrorIs(t, err, shared.ErrUnauthenticated, raw)
	}
}
