package auth

import "time"

// Account statuses as stored.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Credential is the slice of an account the auth module needs: login fields
// plus the role and user-type names joined in for token claims. Accounts
// without a department or user type carry empty strings.
type Credential struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Status       string
	DepartmentID string
	RoleID       string
	RoleName     string
	UserTypeID   string
	UserTypeName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
