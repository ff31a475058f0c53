package roles

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stafflane/stafflane/internal/authz"
	"github.com/stafflane/stafflane/internal/platform/httpx"
)

// Handler exposes role listing for account management UIs.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   *authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw *authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw}
}

// MountRoutes registers role routes. Listing roles is only useful to callers
// who can assign them, so the route rides on the account-creation grants.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require("accounts:create", "accounts:create:own-dept")).
		Get("/", h.listRoles)
}

type roleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("list roles", "err", err)
		httpx.RespondError(w, err)
		return
	}
	out := make([]roleResponse, len(all))
	for i, role := range all {
		out[i] = roleResponse{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			Permissions: role.Permissions,
			CreatedAt:   role.CreatedAt,
			UpdatedAt:   role.UpdatedAt,
		}
	}
	httpx.JSON(w, http.StatusOK, out)
}
