package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stafflane/stafflane/internal/shared"
)

// RoleGrants is the resolved grant bundle for one role.
type RoleGrants struct {
	RoleName    string
	Permissions GrantSet
}

// GrantSource looks up the authoritative role → grant mapping. The engine
// never infers grants, it only looks them up and interprets their scopes.
// Implementations return shared.ErrNotFound when the role does not exist.
type GrantSource interface {
	Grants(ctx context.Context, roleID string) (RoleGrants, error)
}

// AccountDirectory supplies target-resource ownership lookups.
// Implementations return shared.ErrNotFound when the account does not exist.
type AccountDirectory interface {
	DepartmentOf(ctx context.Context, accountID string) (string, error)
}

// RequestKind classifies how the inbound operation addresses resources.
type RequestKind int

const (
	// KindCollection targets no single resource (list/query endpoints).
	KindCollection RequestKind = iota
	// KindCreate creates a resource; the body may carry a department.
	KindCreate
	// KindTarget addresses one resource by identifier.
	KindTarget
)

// RequestContext carries the request fields the engine inspects: the target
// resource identifier, if any, and the caller-supplied scope-affecting
// filters and body fields.
type RequestContext struct {
	Kind RequestKind

	// TargetID is the path identifier of the addressed resource.
	TargetID string
	// BodyID is an account identifier carried in the request body.
	BodyID string
	// BodyDepartmentID is the department field of a create/update body.
	BodyDepartmentID string
	// QueryAccountID is the user_id query filter of a collection read.
	QueryAccountID string
	// DepartmentFilter is the department_id query filter of a collection read.
	DepartmentFilter string
}

// Engine decides ALLOW or DENY for one request, given an authenticated
// principal, the required permissions and the request context. It holds no
// mutable state; concurrent use across requests needs no locking.
type Engine struct {
	grants    GrantSource
	directory AccountDirectory
}

// NewEngine constructs an Engine.
func NewEngine(grants GrantSource, directory AccountDirectory) *Engine {
	return &Engine{grants: grants, directory: directory}
}

// Authorize evaluates the required permissions in order against the
// principal's role grants and resolves any scope condition against the
// request context. Denials come back as Decision values; only infrastructure
// failures (lookup errors other than not-found) are returned as errors.
func (e *Engine) Authorize(ctx context.Context, principal *shared.Principal, required []Permission, rc RequestContext) (Decision, error) {
	if principal == nil {
		return Deny(DenyUnauthenticated), nil
	}

	rg, err := e.grants.Grants(ctx, principal.RoleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Deny(DenyRoleNotFound), nil
		}
		return Decision{}, fmt.Errorf("authz: load role grants: %w", err)
	}

	// The store's role name is authoritative over whatever the token cached.
	roleName := strings.ToUpper(rg.RoleName)

	// Bypass is evaluated before any matching or scope rule: the super role
	// is implicitly granted everything, department pinning included.
	if roleName == RoleSuperAdmin {
		return Allow(), nil
	}

	var rw Rewrite
	if roleName == RoleManager && requiresAccounts(required) {
		switch rc.Kind {
		case KindCreate:
			// A manager can never create an account outside their own
			// department: the client-supplied value is discarded before
			// permission evaluation, not merely validated.
			dept := principal.DepartmentID
			rw.BodyDepartment = &dept
			rc.BodyDepartmentID = dept
		case KindTarget:
			// A manager may not move an account to another department via
			// update, even when the target itself is in scope.
			if rc.BodyDepartmentID != "" && rc.BodyDepartmentID != principal.DepartmentID {
				return Deny(DenyOutOfScope), nil
			}
		}
	}

	m := match(required, rg.Permissions)
	switch m.kind {
	case matchExact:
		return allowWith(rw), nil
	case matchOwnDepartment:
		return e.resolveDepartmentScope(ctx, principal, rc, rw)
	case matchOwnRecord:
		return e.resolveRecordScope(principal, rc, rw), nil
	default:
		return Deny(DenyInsufficientGrant), nil
	}
}

// requiresAccounts reports whether any required permission targets the
// accounts resource. The manager department rules are account rules; they
// must not leak rewrites onto operations over other resources.
func requiresAccounts(required []Permission) bool {
	for _, p := range required {
		if p.Resource == accountsResource {
			return true
		}
	}
	return false
}

// resolveDepartmentScope confirms a department-scoped match against the
// request context. Collection reads are narrowed, never left open; targeted
// operations require exactly one ownership lookup.
func (e *Engine) resolveDepartmentScope(ctx context.Context, principal *shared.Principal, rc RequestContext, rw Rewrite) (Decision, error) {
	switch rc.Kind {
	case KindCollection:
		if rc.DepartmentFilter != "" && rc.DepartmentFilter != principal.DepartmentID {
			return Deny(DenyOutOfScope), nil
		}
		dept := principal.DepartmentID
		rw.DepartmentFilter = &dept
		return allowWith(rw), nil

	case KindCreate:
		if rc.BodyDepartmentID != "" && rc.BodyDepartmentID != principal.DepartmentID {
			return Deny(DenyOutOfScope), nil
		}
		return allowWith(rw), nil

	default:
		if rc.TargetID == "" {
			return Deny(DenyInsufficientGrant), nil
		}
		dept, err := e.directory.DepartmentOf(ctx, rc.TargetID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return Deny(DenyTargetNotFound), nil
			}
			return Decision{}, fmt.Errorf("authz: lookup target department: %w", err)
		}
		if dept != principal.DepartmentID {
			return Deny(DenyOutOfScope), nil
		}
		d := allowWith(rw)
		d.TargetDepartmentID = dept
		return d, nil
	}
}

// resolveRecordScope confirms a self-scoped match. The target identifier is
// taken from the path, then the body, then the query, in that order. A
// request naming conflicting targets in path and body is rejected outright
// rather than silently preferring one.
func (e *Engine) resolveRecordScope(principal *shared.Principal, rc RequestContext, rw Rewrite) Decision {
	if rc.TargetID != "" && rc.BodyID != "" && rc.TargetID != rc.BodyID {
		return Deny(DenyOutOfScope)
	}

	target := rc.TargetID
	if target == "" {
		target = rc.BodyID
	}
	if target == "" {
		target = rc.QueryAccountID
	}

	if target == "" {
		// No explicit target means the principal is acting on itself.
		// Collection reads are narrowed to the principal's own record.
		if rc.Kind == KindCollection {
			id := principal.ID
			rw.AccountFilter = &id
			return allowWith(rw)
		}
		return allowWith(rw)
	}

	if target != principal.ID {
		return Deny(DenyOutOfScope)
	}
	return allowWith(rw)
}
