package shared

// Principal is the authenticated actor for the current request. It is built
// once from a verified credential, never mutated afterwards and never
// persisted.
type Principal struct {
	ID           string
	RoleID       string
	RoleName     string // uppercase-normalized
	DepartmentID string // empty means no department
	UserTypeID   string
	UserTypeName string // uppercase-normalized
}

// HasDepartment reports whether the principal belongs to a department.
func (p Principal) HasDepartment() bool {
	return p.DepartmentID != ""
}
