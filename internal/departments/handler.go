package departments

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stafflane/stafflane/internal/authz"
	"github.com/stafflane/stafflane/internal/platform/httpx"
)

// Handler exposes department management endpoints.
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

// MountRoutes registers department routes. Department permissions carry no
// scope qualifiers; every grant here is global.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require("departments:get")).Get("/", h.list)
	r.With(h.authz.Require("departments:create")).Post("/", h.create)
	r.With(h.authz.Require("departments:get:id")).Get("/{id}", h.get)
	r.With(h.authz.Require("departments:update")).Put("/{id}", h.update)
	r.With(h.authz.Require("departments:patch:status")).Patch("/{id}/status", h.setStatus)
	r.With(h.authz.Require("departments:delete")).Delete("/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list departments", "err", err)
		httpx.RespondError(w, err)
		return
	}
	if out == nil {
		out = []Department{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

type createRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "name is required")
		return
	}

	department, err := h.service.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		h.logger.Error("create department", "err", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, department)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	department, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, department)
}

type updateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Description *string `json:"description"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "name must not be empty")
		return
	}

	department, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateFields{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error("update department", "err", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, department)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "status is required")
		return
	}

	if err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
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
