package accounts

import "time"

// Account statuses as stored.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Account is a managed user account. Department and user type are optional;
// empty strings mean unassigned.
type Account struct {
	ID           string    `json:"id"`
	Fullname     string    `json:"fullname"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	DepartmentID string    `json:"department_id,omitempty"`
	UserTypeID   string    `json:"user_type_id,omitempty"`
	RoleID       string    `json:"role_id"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
