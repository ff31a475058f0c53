package roles

import "time"

// Role is a named permission bundle. Permissions hold the raw grant strings
// as stored; parsing happens in the authorization layer.
type Role struct {
	ID          string
	Name        string
	Description string
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultGrants is the seed permission set per built-in role. SUPER_ADMIN
// carries the full set even though the engine bypasses matching for it, so
// the stored data stays meaningful if the bypass rule ever changes.
var DefaultGrants = map[string][]string{
	"SUPER_ADMIN": {
		"accounts:create", "accounts:read", "accounts:update",
		"accounts:disable", "accounts:delete",
		"departments:create", "departments:get", "departments:get:id",
		"departments:update", "departments:delete", "departments:patch:status",
	},
	"ADMIN": {
		"accounts:create", "accounts:read", "accounts:update",
		"accounts:disable", "accounts:delete",
		"departments:create", "departments:get", "departments:get:id",
		"departments:update", "departments:delete", "departments:patch:status",
	},
	"MANAGER": {
		"accounts:create:own-dept", "accounts:read:own-dept",
		"accounts:update:own-dept", "accounts:disable:own-dept",
		"accounts:delete:own-dept",
		"departments:get", "departments:get:id",
	},
	"HR": {
		"accounts:read", "accounts:update",
		"departments:get", "departments:get:id",
	},
	"EMPLOYEE": {
		"accounts:read_own",
		"departments:get", "departments:get:id",
	},
	"CLIENT": {
		"accounts:read_own",
		"departments:get", "departments:get:id",
	},
}
