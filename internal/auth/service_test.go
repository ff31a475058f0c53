package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stafflane/stafflane/internal/shared"
)

type stubRepo struct {
	byLogin map[string]*Credential
	byID    map[string]*Credential
}

func (s *stubRepo) FindByLogin(_ context.Context, login string) (*Credential, error) {
	if c, ok := s.byLogin[login]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindByID(_ context.Context, id string) (*Credential, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func newTestService(t *testing.T, cred *Credential) (*Service, *stubRepo) {
	t.Helper()
	repo := &stubRepo{byLogin: map[string]*Credential{}, byID: map[string]*Credential{}}
	if cred != nil {
		repo.byLogin[cred.Username] = cred
		repo.byLogin[cred.Email] = cred
		repo.byID[cred.ID] = cred
	}
	return NewService(repo, NewTokenManager("test-secret", time.Hour)), repo
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	cred := testCredential()
	cred.PasswordHash = hashPassword(t, "s3cret")
	svc, _ := newTestService(t, cred)

	for _, login := range []string{"jdoe", "jdoe@example.com"} {
		result, err := svc.Login(context.Background(), login, "s3cret")
		require.NoError(t, err, login)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "acc-1", result.Credential.ID)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	cred := testCredential()
	cred.PasswordHash = hashPassword(t, "s3cret")
	svc, _ := newTestService(t, cred)

	_, unknownErr := svc.Login(context.Background(), "ghost", "s3cret")
	_, wrongPwErr := svc.Login(context.Background(), "jdoe", "wrong")

	assert.ErrorIs(t, unknownErr, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPwErr, shared.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	cred := testCredential()
	cred.PasswordHash = hashPassword(t, "s3cret")
	cred.Status = StatusDisabled
	svc, _ := newTestService(t, cred)

	_, err := svc.Login(context.Background(), "jdoe", "s3cret")
	assert.ErrorIs(t, err, shared.ErrAccountInactive)
}

func TestResolveLivePrincipal(t *testing.T) {
	cred := testCredential()
	cred.PasswordHash = hashPassword(t, "s3cret")
	cred.RoleName = "manager"
	cred.UserTypeName = "internal"
	svc, _ := newTestService(t, cred)

	result, err := svc.Login(context.Background(), "jdoe", "s3cret")
	require.NoError(t, err)

	principal, err := svc.Resolve(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", principal.ID)
	assert.Equal(t, "role-manager", principal.RoleID)
	assert.Equal(t, "MANAGER", principal.RoleName, "role name is normalized to upper case")
	assert.Equal(t, "INTERNAL", principal.UserTypeName, "user type name is normalized the same way")
	assert.Equal(t, "dept-eng", principal.DepartmentID)
}

func TestResolveDeletedAccount(t *testing.T) {
	cred := testCredential()
	cred.PasswordHash = hashPassword(t, "s3cret")
	svc, repo := newTestService(t, cred)

	result, err := svc.Login(context.Background(), "jdoe", "s3cret")
	require.NoError(t, err)

	// The token is still within its validity window, but the account is gone.
	delete(repo.byID, cred.ID)
	_, err = svc.Resolve(context.Background(), result.Token)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestResolveDisabledAfterIssue(t *testing.T) {
	cred := testCredential()
	cred.PasswordHash = hashPassword(t, "s3cret")
	svc, _ := newTestService(t, cred)

	result, err := svc.Login(context.Background(), "jdoe", "s3cret")
	require.NoError(t, err)

	cred.Status = StatusDisabled
	_, err = svc.Resolve(context.Background(), result.Token)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}
