package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/stafflane/stafflane/internal/shared"
)

// Service wraps authentication business rules: credential checks on login,
// token verification plus account re-validation on every request.
type Service struct {
	repo   Repository
	tokens *TokenManager
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// LoginResult is what a successful login returns.
type LoginResult struct {
	Token      string
	Credential *Credential
}

// Login validates credentials and issues a bearer token. Unknown logins and
// wrong passwords both come back as shared.ErrInvalidCredentials; only a
// disabled account is distinguishable, by shared.ErrAccountInactive.
func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (*LoginResult, error) {
	cred, err := s.repo.FindByLogin(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if cred.Status != StatusActive {
		return nil, shared.ErrAccountInactive
	}
	token, err := s.tokens.Issue(cred)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Credential: cred}, nil
}

// Resolve turns a raw bearer token into a live principal. The account is
// re-fetched so a deleted or disabled account stops authenticating
// immediately, regardless of token expiry. All failures collapse to
// shared.ErrUnauthenticated.
func (s *Service) Resolve(ctx context.Context, rawToken string) (*shared.Principal, error) {
	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	cred, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	if cred.Status != StatusActive {
		return nil, shared.ErrUnauthenticated
	}
	return &shared.Principal{
		ID:           cred.ID,
		RoleID:       cred.RoleID,
		RoleName:     strings.ToUpper(cred.RoleName),
		DepartmentID: cred.DepartmentID,
		UserTypeID:   cred.UserTypeID,
		UserTypeName: strings.ToUpper(cred.UserTypeName),
	}, nil
}
