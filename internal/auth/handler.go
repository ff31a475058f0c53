package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stafflane/stafflane/internal/platform/httpx"
	"github.com/stafflane/stafflane/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type loginAccount struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	DepartmentID string `json:"department_id,omitempty"`
	RoleID       string `json:"role_id"`
	RoleName     string `json:"role_name"`
	UserTypeID   string `json:"user_type_id,omitempty"`
	UserTypeName string `json:"user_type_name,omitempty"`
}

type loginResponse struct {
	Token   string       `json:"token"`
	Account loginAccount `json:"account"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "usernameOrEmail and password are required")
		return
	}

	result, err := h.service.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrInvalidCredentials):
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
		case errors.Is(err, shared.ErrAccountInactive):
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "account is not active")
		default:
			h.logger.Error("login failed", "err", err)
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}

	cred := result.Credential
	httpx.JSON(w, http.StatusOK, loginResponse{
		Token: result.Token,
		Account: loginAccount{
			ID:           cred.ID,
			Username:     cred.Username,
			Email:        cred.Email,
			DepartmentID: cred.DepartmentID,
			RoleID:       cred.RoleID,
			RoleName:     cred.RoleName,
			UserTypeID:   cred.UserTypeID,
			UserTypeName: cred.UserTypeName,
		},
	})
}
