package authz

import "context"

type decisionContextKey struct{}

// ContextWithDecision attaches an allowing decision to the request context so
// handlers can consume rewrites without re-running the engine.
func ContextWithDecision(ctx context.Context, d Decision) context.Context {
	return context.WithValue(ctx, decisionContextKey{}, d)
}

// DecisionFromContext retrieves the decision stored by the middleware. The
// zero Decision (a plain deny) is returned when none is present, so handlers
// behind the middleware can use the result without an ok-check.
func DecisionFromContext(ctx context.Context) Decision {
	d, _ := ctx.Value(decisionContextKey{}).(Decision)
	return d
}

// EffectiveDepartmentFilter resolves the department filter a collection read
// must apply: the engine's rewrite when present, otherwise the caller's own.
func EffectiveDepartmentFilter(ctx context.Context, requested string) string {
	d := DecisionFromContext(ctx)
	if d.Rewrite.DepartmentFilter != nil {
		return *d.Rewrite.DepartmentFilter
	}
	return requested
}

// EffectiveAccountFilter resolves the account filter a collection read must
// apply, honoring a self-scope rewrite over the caller's query parameter.
func EffectiveAccountFilter(ctx context.Context, requested string) string {
	d := DecisionFromContext(ctx)
	if d.Rewrite.AccountFilter != nil {
		return *d.Rewrite.AccountFilter
	}
	return requested
}

// EffectiveBodyDepartment resolves the department a create body must carry,
// honoring a department-pinning rewrite over the client-supplied value.
func EffectiveBodyDepartment(ctx context.Context, requested string) string {
	d := DecisionFromContext(ctx)
	if d.Rewrite.BodyDepartment != nil {
		return *d.Rewrite.BodyDepartment
	}
	return requested
}
