package authz

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stafflane/stafflane/internal/shared"
)

type recordingObserver struct {
	decisions []Decision
}

func (o *recordingObserver) ObserveDecision(d Decision) {
	o.decisions = append(o.decisions, d)
}

func withPrincipal(p *shared.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p != nil {
				r = r.WithContext(shared.ContextWithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func testRouter(t *testing.T, p *shared.Principal, obs DecisionObserver) (*chi.Mux, *Decision, *[]byte) {
	t.Helper()
	e, _ := testEngine(t)
	mw := &Middleware{Engine: e, Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), Observer: obs}

	var seen Decision
	var body []byte
	capture := func(w http.ResponseWriter, r *http.Request) {
		seen = DecisionFromContext(r.Context())
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}

	r := chi.NewRouter()
	r.Use(withPrincipal(p))
	r.With(mw.Require("accounts:read", "accounts:read_own", "accounts:read:own-dept")).
		Get("/accounts", capture)
	r.With(mw.Require("accounts:read", "accounts:read_own", "accounts:read:own-dept")).
		Get("/accounts/{id}", capture)
	r.With(mw.Require("accounts:create", "accounts:create:own-dept")).
		Post("/accounts", capture)
	r.With(mw.Require("accounts:update", "accounts:update_own", "accounts:update:own-dept")).
		Put("/accounts/{id}", capture)
	return r, &seen, &body
}

func TestRequireNoPrincipal(t *testing.T) {
	r, _, _ := testRouter(t, nil, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "unauthenticated", "reason stays server-side")
}

func TestRequireForbiddenIsGeneric(t *testing.T) {
	r, _, _ := testRouter(t, employee(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/acc-eng", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "out_of_scope")
	assert.NotContains(t, rec.Body.String(), "scope")
}

func TestRequireTargetNotFound(t *testing.T) {
	r, _, _ := testRouter(t, manager(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/accounts/acc-missing", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequireRewriteReachesHandler(t *testing.T) {
	r, seen, _ := testRouter(t, manager(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, EffectAllowWithRewrite, seen.Effect)
	require.NotNil(t, seen.Rewrite.DepartmentFilter)
	assert.Equal(t, "dept-eng", *seen.Rewrite.DepartmentFilter)
}

func TestRequireBodyRestoredAfterPeek(t *testing.T) {
	r, seen, body := testRouter(t, manager(), nil)
	payload := `{"fullname":"Ada","department_id":"dept-finance"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, string(*body), "handler sees the full original body")
	require.NotNil(t, seen.Rewrite.BodyDepartment)
	assert.Equal(t, "dept-eng", *seen.Rewrite.BodyDepartment, "create is pinned regardless of the body value")
}

func TestRequireMalformedBody(t *testing.T) {
	r, _, _ := testRouter(t, manager(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(`{"department_id":`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireObserverSeesEveryDecision(t *testing.T) {
	obs := &recordingObserver{}
	r, _, _ := testRouter(t, employee(), obs)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/accounts", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/accounts/acc-eng", nil))

	require.Len(t, obs.decisions, 2)
	assert.True(t, obs.decisions[0].Allowed())
	assert.Equal(t, DenyOutOfScope, obs.decisions[1].Reason)
}

func TestRequirePanicsOnMalformedPermission(t *testing.T) {
	mw := &Middleware{Engine: nil, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	assert.Panics(t, func() { mw.Require("not-a-permission") })
}

func TestDecisionContextRoundTrip(t *testing.T) {
	dept := "dept-eng"
	d := Decision{Effect: EffectAllowWithRewrite, Rewrite: Rewrite{DepartmentFilter: &dept}}
	ctx := ContextWithDecision(context.Background(), d)

	assert.Equal(t, d, DecisionFromContext(ctx))
	assert.Equal(t, "dept-eng", EffectiveDepartmentFilter(ctx, "dept-finance"))
	assert.Equal(t, "dept-x", EffectiveAccountFilter(ctx, "dept-x"))
	assert.Equal(t, "", EffectiveBodyDepartment(context.Background(), ""))
}

func TestEffectiveFiltersWithoutDecision(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "d1", EffectiveDepartmentFilter(ctx, "d1"))
	assert.Equal(t, "u1", EffectiveAccountFilter(ctx, "u1"))
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestRequireSelfUpdateViaBodyID(t *testing.T) {
	r, seen, _ := testRouter(t, employee(), nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/accounts/emp-1", jsonBody(t, map[string]string{"id": "emp-1"}))
	r.ServeHTTP(rec, req)

	// EMPLOYEE has no update grant at all, so even a self-targeted update
	// is rejected on grant grounds.
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, EffectDeny, seen.Effect)
}
