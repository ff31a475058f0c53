package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stafflane/stafflane/internal/shared"
)

// Claims is the JWT payload. Role and user-type names are embedded for
// display purposes only; authorization always re-reads the role from the
// store, so a renamed or deleted role takes effect before token expiry.
type Claims struct {
	Username     string `json:"username"`
	RoleID       string `json:"role_id"`
	RoleName     string `json:"role_name,omitempty"`
	UserTypeID   string `json:"user_type_id,omitempty"`
	UserTypeName string `json:"user_type_name,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HMAC-signed bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager constructs a TokenManager. The secret must be non-empty;
// configuration loading enforces that before we get here.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the credential.
func (m *TokenManager) Issue(cred *Credential) (string, error) {
	now := m.now()
	claims := Claims{
		Username:     cred.Username,
		RoleID:       cred.RoleID,
		RoleName:     cred.RoleName,
		UserTypeID:   cred.UserTypeID,
		UserTypeName: cred.UserTypeName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cred.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer token. Every failure mode collapses
// to shared.ErrUnauthenticated; callers never learn whether the signature,
// the expiry or the format was wrong.
func (m *TokenManager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, shared.ErrUnauthenticated
	}
	if claims.Subject == "" {
		return nil, shared.ErrUnauthenticated
	}
	return claims, nil
}
