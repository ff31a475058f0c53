package authz

// Role names with engine-level semantics. The super-admin bypass is gated on
// the role name, not on grant contents; manager department rules likewise.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleManager    = "MANAGER"
	RoleHR         = "HR"
	RoleEmployee   = "EMPLOYEE"
	RoleClient     = "CLIENT"
)

const accountsResource = "accounts"

type matchKind int

const (
	matchNone matchKind = iota
	// matchExact: the granted set contains the literal required permission.
	matchExact
	// matchOwnDepartment: a department-scoped grant applies; the scope
	// resolver must confirm the target (or narrow the query) at runtime.
	matchOwnDepartment
	// matchOwnRecord: a self-scoped grant applies; the scope resolver must
	// confirm the target is the principal's own record.
	matchOwnRecord
)

type matchResult struct {
	kind     matchKind
	required Permission
}

// deptScopedActions are the unscoped account actions a :own-dept grant can
// satisfy, subject to the runtime department check.
var deptScopedActions = map[string]struct{}{
	"create":  {},
	"update":  {},
	"disable": {},
	"delete":  {},
}

// selfScopedActions are the unscoped account actions an _own grant can
// satisfy, subject to the runtime ownership check.
var selfScopedActions = map[string]struct{}{
	"read":   {},
	"update": {},
}

// match evaluates the required permissions in order against the granted set.
// The first required permission for which any grant applies wins; callers
// list the strictest-applicable permission first. The function is pure:
// no I/O, deterministic given its inputs.
func match(required []Permission, granted GrantSet) matchResult {
	for _, req := range required {
		if granted.Has(req) {
			return matchResult{kind: matchExact, required: req}
		}
		if req.Scope != ScopeUnscoped || req.Resource != accountsResource {
			continue
		}
		if _, ok := deptScopedActions[req.Action]; ok && granted.Has(req.WithScope(ScopeOwnDepartment)) {
			return matchResult{kind: matchOwnDepartment, required: req}
		}
		if _, ok := selfScopedActions[req.Action]; ok && granted.Has(req.WithScope(ScopeOwnRecord)) {
			return matchResult{kind: matchOwnRecord, required: req}
		}
		if req.Action == "read" && granted.Has(req.WithScope(ScopeOwnDepartment)) {
			return matchResult{kind: matchOwnDepartment, required: req}
		}
	}
	return matchResult{kind: matchNone}
}
