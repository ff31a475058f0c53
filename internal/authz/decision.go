package authz

import "net/http"

// Effect is the overall verdict of one authorization check.
type Effect int

const (
	// EffectDeny rejects the request.
	EffectDeny Effect = iota
	// EffectAllow lets the request proceed unchanged.
	EffectAllow
	// EffectAllowWithRewrite lets the request proceed, but the caller must use
	// the rewritten context fields instead of the original ones.
	EffectAllowWithRewrite
)

// DenyReason explains a denial. Reasons are safe to log verbosely
// server-side; the client-visible body stays generic.
type DenyReason int

const (
	// DenyNone is the zero value carried by allowing decisions.
	DenyNone DenyReason = iota
	// DenyUnauthenticated: bad/missing/expired credential, or the principal's
	// account no longer exists.
	DenyUnauthenticated
	// DenyRoleNotFound: the principal's role was deleted after token issuance.
	DenyRoleNotFound
	// DenyTargetNotFound: a scope check needed the target and it does not exist.
	DenyTargetNotFound
	// DenyOutOfScope: a grant exists but the target falls outside the
	// principal's department or ownership.
	DenyOutOfScope
	// DenyInsufficientGrant: no applicable grant for any required permission.
	DenyInsufficientGrant
)

func (r DenyReason) String() string {
	switch r {
	case DenyUnauthenticated:
		return "unauthenticated"
	case DenyRoleNotFound:
		return "role_not_found"
	case DenyTargetNotFound:
		return "target_not_found"
	case DenyOutOfScope:
		return "out_of_scope"
	case DenyInsufficientGrant:
		return "insufficient_grant"
	default:
		return "none"
	}
}

// HTTPStatus maps the reason to its transport-level rejection. Target
// existence is not sensitive in this domain, so DenyTargetNotFound is
// distinguishable (404) from authorization failure (403).
func (r DenyReason) HTTPStatus() int {
	switch r {
	case DenyUnauthenticated:
		return http.StatusUnauthorized
	case DenyTargetNotFound:
		return http.StatusNotFound
	default:
		return http.StatusForbidden
	}
}

// Rewrite carries request-context fields the engine forces before the request
// proceeds. Nil fields are untouched; non-nil fields replace whatever the
// caller supplied, even when the replacement is empty.
type Rewrite struct {
	// DepartmentFilter forces the department filter of a collection read.
	DepartmentFilter *string
	// AccountFilter forces the account filter of a collection read to the
	// principal's own record.
	AccountFilter *string
	// BodyDepartment overrides the department field of a create body.
	BodyDepartment *string
}

func (rw Rewrite) empty() bool {
	return rw.DepartmentFilter == nil && rw.AccountFilter == nil && rw.BodyDepartment == nil
}

// Decision is the engine's verdict for one authorization check.
type Decision struct {
	Effect  Effect
	Reason  DenyReason
	Rewrite Rewrite

	// TargetDepartmentID is set when the scope check already fetched the
	// target's department, so handlers can reuse it instead of looking it up
	// again. Optimization only; absence is never meaningful.
	TargetDepartmentID string
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Effect != EffectDeny
}

// Allow builds a plain allowing decision.
func Allow() Decision {
	return Decision{Effect: EffectAllow}
}

// Deny builds a denying decision with the given reason.
func Deny(reason DenyReason) Decision {
	return Decision{Effect: EffectDeny, Reason: reason}
}

func allowWith(rw Rewrite) Decision {
	if rw.empty() {
		return Allow()
	}
	return Decision{Effect: EffectAllowWithRewrite, Rewrite: rw}
}
