package accounts

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stafflane/stafflane/internal/authz"
	"github.com/stafflane/stafflane/internal/platform/httpx"
	"github.com/stafflane/stafflane/internal/shared"
)

// Handler exposes account management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     *authz.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw *authz.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		authz:     mw,
		validator: validator.New(),
	}
}

// MountRoutes registers account routes. Each route declares its permission
// list strictest-first; scoped fallbacks follow the global grant.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require("accounts:read", "accounts:read_own", "accounts:read:own-dept")).
		Get("/", h.list)
	r.With(h.authz.Require("accounts:create", "accounts:create:own-dept")).
		Post("/", h.create)
	r.With(h.authz.Require("accounts:read", "accounts:read_own", "accounts:read:own-dept")).
		Get("/{id}", h.get)
	r.With(h.authz.Require("accounts:update", "accounts:update_own", "accounts:update:own-dept")).
		Put("/{id}", h.update)
	r.With(h.authz.Require("accounts:disable", "accounts:disable:own-dept")).
		Patch("/{id}/disable", h.disable)
	r.With(h.authz.Require("accounts:delete", "accounts:delete:own-dept")).
		Delete("/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()
	filters := ListFilters{
		DepartmentID: authz.EffectiveDepartmentFilter(ctx, q.Get("department_id")),
		AccountID:    authz.EffectiveAccountFilter(ctx, q.Get("user_id")),
		UserTypeID:   q.Get("user_type_id"),
		Status:       q.Get("status"),
		Page:         shared.NewPagination(atoi(q.Get("limit")), atoi(q.Get("offset"))),
	}

	out, err := h.service.List(ctx, filters)
	if err != nil {
		h.logger.Error("list accounts", "err", err)
		httpx.RespondError(w, err)
		return
	}
	if out == nil {
		out = []Account{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

type createRequest struct {
	Fullname     string `json:"fullname" validate:"required"`
	Username     string `json:"username" validate:"required,min=3"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	DepartmentID string `json:"department_id"`
	UserTypeID   string `json:"user_type_id"`
	RoleID       string `json:"role_id" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}

	account, err := h.service.Create(r.Context(), CreateInput{
		Fullname:     req.Fullname,
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		DepartmentID: authz.EffectiveBodyDepartment(r.Context(), req.DepartmentID),
		UserTypeID:   req.UserTypeID,
		RoleID:       req.RoleID,
	})
	if err != nil {
		h.logger.Error("create account", "err", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, account)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

type updateRequest struct {
	Fullname     *string `json:"fullname"`
	Username     *string `json:"username" validate:"omitempty,min=3"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Password     *string `json:"password" validate:"omitempty,min=8"`
	DepartmentID *string `json:"department_id"`
	UserTypeID   *string `json:"user_type_id"`
	RoleID       *string `json:"role_id" validate:"omitempty,min=1"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}

	account, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
		Fullname:     req.Fullname,
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		DepartmentID: req.DepartmentID,
		UserTypeID:   req.UserTypeID,
		RoleID:       req.RoleID,
	})
	if err != nil {
		h.logger.Error("update account", "err", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *Handler) disable(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Disable(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func validationDetail(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return errs[0].Error()
	}
	return "invalid request"
}
