package departments

import "time"

// Department statuses as stored.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Department is an organizational unit accounts belong to.
type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
