package departments_test

import (
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

	"github.com/stafflane/stafflane/internal/authz"
	"github.com/stafflane/stafflane/internal/departments"
	"github.com/stafflane/stafflane/internal/platform/httpx"
	"github.com/stafflane/stafflane/internal/shared"
	_ "github.com/stafflane/stafflane/testing"
)

type memRepo struct {
	byID map[string]*departments.Department
}

func (m *memRepo) List(_ context.Context) ([]departments.Department, error) {
	out := []departments.Department{}
	for _, d := range m.byID {
		out = append(out, *d)
	}
	return out, nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*departments.Department, error) {
	d, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (m *memRepo) Create(_ context.Context, nd departments.NewDepartment) (*departments.Department, error) {
	for _, d := range m.byID {
		if d.Name == nd.Name {
			return nil, httpx.ErrDuplicate
		}
	}
	d := &departments.Department{
		ID: nd.ID, Name: nd.Name, Description: nd.Description,
		Status: departments.StatusActive,
	}
	m.byID[d.ID] = d
	copied := *d
	return &copied, nil
}

func (m *memRepo) Update(_ context.Context, id string, fields departments.UpdateFields) (*departments.Department, error) {
	d, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if fields.Name != nil {
		d.Name = *fields.Name
	}
	if fields.Description != nil {
		d.Description = *fields.Description
	}
	copied := *d
	return &copied, nil
}

func (m *memRepo) SetStatus(_ context.Context, id, status string) error {
	d, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	d.Status = status
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

var _ departments.RepositoryPort = (*memRepo)(nil)

type grantTable map[string]authz.RoleGrants

func (g grantTable) Grants(_ context.Context, roleID string) (authz.RoleGrants, error) {
	rg, ok := g[roleID]
	if !ok {
		return authz.RoleGrants{}, shared.ErrNotFound
	}
	return rg, nil
}

type noDirectory struct{}

func (noDirectory) DepartmentOf(_ context.Context, _ string) (string, error) {
	return "", shared.ErrNotFound
}

func setupAPI(t *testing.T) (*chi.Mux, *memRepo) {
	t.Helper()
	repo := &memRepo{byID: map[string]*departments.Department{
		"dept-eng": {ID: "dept-eng", Name: "Engineering", Status: departments.StatusActive},
	}}

	adminSet, err := authz.NewGrantSet([]string{
		"departments:create", "departments:get", "departments:get:id",
		"departments:update", "departments:delete", "departments:patch:status",
	})
	require.NoError(t, err)
	employeeSet, err := authz.NewGrantSet([]string{"departments:get", "departments:get:id"})
	require.NoError(t, err)

	grants := grantTable{
		"role-admin":    {RoleName: "ADMIN", Permissions: adminSet},
		"role-employee": {RoleName: "EMPLOYEE", Permissions: employeeSet},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := &authz.Middleware{Engine: authz.NewEngine(grants, noDirectory{}), Logger: logger}
	handler := departments.NewHandler(logger, departments.NewService(repo), mw)

	r := chi.NewRouter()
	r.Route("/departments", handler.MountRoutes)
	return r, repo
}

func doAs(r http.Handler, p *shared.Principal, req *http.Request) *httptest.ResponseRecorder {
	if p != nil {
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func admin() *shared.Principal {
	return &shared.Principal{ID: "adm-1", RoleID: "role-admin", RoleName: "ADMIN"}
}

func employee() *shared.Principal {
	return &shared.Principal{ID: "emp-1", RoleID: "role-employee", RoleName: "EMPLOYEE", DepartmentID: "dept-eng"}
}

func TestDepartmentCRUD(t *testing.T) {
	r, repo := setupAPI(t)

	rec := doAs(r, admin(), httptest.NewRequest(http.MethodPost, "/departments",
		strings.NewReader(`{"name":"Finance","description":"money things"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created departments.Department
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Finance", created.Name)
	assert.Equal(t, departments.StatusActive, created.Status)

	rec = doAs(r, admin(), httptest.NewRequest(http.MethodGet, "/departments/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doAs(r, admin(), httptest.NewRequest(http.MethodPut, "/departments/"+created.ID,
		strings.NewReader(`{"name":"Corporate Finance"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Corporate Finance", repo.byID[created.ID].Name)

	rec = doAs(r, admin(), httptest.NewRequest(http.MethodDelete, "/departments/"+created.ID, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, exists := repo.byID[created.ID]
	assert.False(t, exists)
}

func TestDepartmentStatusPatch(t *testing.T) {
	r, repo := setupAPI(t)

	rec := doAs(r, admin(), httptest.NewRequest(http.MethodPatch, "/departments/dept-eng/status",
		strings.NewReader(`{"status":"inactive"}`)))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, departments.StatusInactive, repo.byID["dept-eng"].Status)

	rec = doAs(r, admin(), httptest.NewRequest(http.MethodPatch, "/departments/dept-eng/status",
		strings.NewReader(`{"status":"archived"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "only active and inactive are accepted")
}

func TestDepartmentReadOnlyRole(t *testing.T) {
	r, _ := setupAPI(t)

	rec := doAs(r, employee(), httptest.NewRequest(http.MethodGet, "/departments", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doAs(r, employee(), httptest.NewRequest(http.MethodGet, "/departments/dept-eng", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doAs(r, employee(), httptest.NewRequest(http.MethodPost, "/departments",
		strings.NewReader(`{"name":"Shadow"}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doAs(r, employee(), httptest.NewRequest(http.MethodDelete, "/departments/dept-eng", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDepartmentNotFound(t *testing.T) {
	r, _ := setupAPI(t)

	rec := doAs(r, admin(), httptest.NewRequest(http.MethodGet, "/departments/dept-ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doAs(r, admin(), httptest.NewRequest(http.MethodDelete, "/departments/dept-ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDepartmentDuplicateName(t *testing.T) {
	r, _ := setupAPI(t)

	rec := doAs(r, admin(), httptest.NewRequest(http.MethodPost, "/departments",
		strings.NewReader(`{"name":"Engineering"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
