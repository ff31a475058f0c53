package authz

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stafflane/stafflane/internal/platform/httpx"
	"github.com/stafflane/stafflane/internal/shared"
)

// maxPeekBytes bounds how much request body the middleware inspects for
// scope-affecting fields. Larger bodies fail authorization rather than
// letting a client smuggle fields past the scope check.
const maxPeekBytes = 1 << 20

// DecisionObserver receives every decision the middleware produces.
// Implementations must be non-blocking; they run on the request path.
type DecisionObserver interface {
	ObserveDecision(d Decision)
}

// Middleware wires the engine into the HTTP router. One instance is shared
// across all routes; per-route requirements come from Require.
type Middleware struct {
	Engine   *Engine
	Logger   *slog.Logger
	Observer DecisionObserver
}

// bodyPeek are the scope-affecting fields the middleware extracts from a
// JSON request body before the handler decodes it in full.
type bodyPeek struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
}

// Require builds route middleware enforcing an ordered permission list.
// The list is parsed once at mount time; malformed entries panic there,
// not per request.
func (m *Middleware) Require(perms ...string) func(http.Handler) http.Handler {
	required := make([]Permission, len(perms))
	for i, s := range perms {
		required[i] = MustParsePermission(s)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())

			rc, err := m.requestContext(r)
			if err != nil {
				m.Logger.Warn("authz request inspection failed", "err", err, "path", r.URL.Path)
				httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
				return
			}

			decision, err := m.Engine.Authorize(r.Context(), principal, required, rc)
			if err != nil {
				m.Logger.Error("authorization check failed", "err", err, "path", r.URL.Path)
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if m.Observer != nil {
				m.Observer.ObserveDecision(decision)
			}

			if !decision.Allowed() {
				m.logDeny(r, principal, decision)
				switch decision.Reason {
				case DenyUnauthenticated:
					httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				case DenyTargetNotFound:
					httpx.Problem(w, http.StatusNotFound, "Not Found", "")
				default:
					httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithDecision(r.Context(), decision)))
		})
	}
}

// requestContext derives the engine's view of the request. The body, when
// present, is read once for the peek and restored for the handler.
func (m *Middleware) requestContext(r *http.Request) (RequestContext, error) {
	rc := RequestContext{
		TargetID:         chi.URLParam(r, "id"),
		QueryAccountID:   r.URL.Query().Get("user_id"),
		DepartmentFilter: r.URL.Query().Get("department_id"),
	}

	switch {
	case rc.TargetID != "":
		rc.Kind = KindTarget
	case r.Method == http.MethodPost:
		rc.Kind = KindCreate
	default:
		rc.Kind = KindCollection
	}

	if r.Body == nil || r.Body == http.NoBody {
		return rc, nil
	}
	if r.Method == http.MethodGet || r.Method == http.MethodDelete {
		return rc, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
	if err != nil {
		return rc, err
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	if len(bytes.TrimSpace(raw)) == 0 {
		return rc, nil
	}
	var peek bodyPeek
	if err := json.Unmarshal(raw, &peek); err != nil {
		return rc, err
	}
	rc.BodyID = peek.ID
	rc.BodyDepartmentID = peek.DepartmentID
	return rc, nil
}

func (m *Middleware) logDeny(r *http.Request, principal *shared.Principal, d Decision) {
	attrs := []any{
		"reason", d.Reason.String(),
		"method", r.Method,
		"path", r.URL.Path,
	}
	if principal != nil {
		attrs = append(attrs, "principal_id", principal.ID, "role_id", principal.RoleID)
	}
	m.Logger.Info("request denied", attrs...)
}
