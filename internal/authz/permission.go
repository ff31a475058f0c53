// Package authz implements the authorization engine: a role-based permission
// model extended with scope qualifiers (global, own-record, own-department)
// resolved per request against both static role grants and dynamic record
// ownership.
package authz

import (
	"errors"
	"fmt"
	"strings"
)

// Scope narrows a grant to a subset of resources.
type Scope int

const (
	// ScopeUnscoped grants full access to the resource/action pair.
	ScopeUnscoped Scope = iota
	// ScopeOwnDepartment restricts the grant to resources whose department
	// matches the principal's department.
	ScopeOwnDepartment
	// ScopeOwnRecord restricts the grant to the principal's own record.
	ScopeOwnRecord
)

func (s Scope) String() string {
	switch s {
	case ScopeOwnDepartment:
		return "own-department"
	case ScopeOwnRecord:
		return "own-record"
	default:
		return "unscoped"
	}
}

const (
	ownDeptSuffix   = ":own-dept"
	ownRecordSuffix = "_own"
)

// ErrInvalidPermission indicates a permission string that does not follow the
// resource:action[:own-dept] grammar.
var ErrInvalidPermission = errors.New("authz: invalid permission")

// Permission is one parsed grant or requirement. The scope qualifier is parsed
// exactly once, here; nothing downstream re-splits the string form.
type Permission struct {
	Resource string
	Action   string
	Scope    Scope
}

// ParsePermission parses the wire form of a permission. Accepted forms are
// "resource:action", "resource:action:own-dept" and "resource:action_own".
// Multi-segment actions such as "departments:get:id" stay part of the action.
func ParsePermission(s string) (Permission, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Permission{}, fmt.Errorf("%w: empty string", ErrInvalidPermission)
	}

	scope := ScopeUnscoped
	if strings.HasSuffix(raw, ownDeptSuffix) {
		scope = ScopeOwnDepartment
		raw = strings.TrimSuffix(raw, ownDeptSuffix)
	}

	resource, action, ok := strings.Cut(raw, ":")
	if !ok || resource == "" || action == "" {
		return Permission{}, fmt.Errorf("%w: %q", ErrInvalidPermission, s)
	}

	if strings.HasSuffix(action, ownRecordSuffix) {
		if scope != ScopeUnscoped {
			return Permission{}, fmt.Errorf("%w: %q carries two scope qualifiers", ErrInvalidPermission, s)
		}
		scope = ScopeOwnRecord
		action = strings.TrimSuffix(action, ownRecordSuffix)
		if action == "" {
			return Permission{}, fmt.Errorf("%w: %q", ErrInvalidPermission, s)
		}
	}

	return Permission{Resource: resource, Action: action, Scope: scope}, nil
}

// MustParsePermission is ParsePermission for compile-time constant
// permissions; it panics on malformed input.
func MustParsePermission(s string) Permission {
	p, err := ParsePermission(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String reconstructs the exact wire form of the permission.
func (p Permission) String() string {
	switch p.Scope {
	case ScopeOwnDepartment:
		return p.Resource + ":" + p.Action + ownDeptSuffix
	case ScopeOwnRecord:
		return p.Resource + ":" + p.Action + ownRecordSuffix
	default:
		return p.Resource + ":" + p.Action
	}
}

// WithScope returns a copy of the permission carrying the given scope.
func (p Permission) WithScope(scope Scope) Permission {
	p.Scope = scope
	return p
}

// GrantSet is an unordered set of parsed permissions.
type GrantSet map[Permission]struct{}

// NewGrantSet parses raw grant strings into a set. Malformed entries are
// reported rather than silently dropped: a role carrying garbage grants is a
// data problem, not something to paper over.
func NewGrantSet(raw []string) (GrantSet, error) {
	set := make(GrantSet, len(raw))
	for _, s := range raw {
		p, err := ParsePermission(s)
		if err != nil {
			return nil, err
		}
		set[p] = struct{}{}
	}
	return set, nil
}

// Has reports whether the set contains the exact permission.
func (g GrantSet) Has(p Permission) bool {
	_, ok := g[p]
	return ok
}

// Strings returns the wire forms of all grants, mainly for logging.
func (g GrantSet) Strings() []string {
	out := make([]string, 0, len(g))
	for p := range g {
		out = append(out, p.String())
	}
	return out
}
