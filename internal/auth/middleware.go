package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/stafflane/stafflane/internal/platform/httpx"
	"github.com/stafflane/stafflane/internal/shared"
)

// Authenticator resolves bearer tokens into principals on every request.
type Authenticator struct {
	Logger  *slog.Logger
	Service *Service
}

// Middleware attaches the resolved principal to the request context. Requests
// without a token, or with a token that does not verify, are rejected with a
// generic 401; the precise failure is logged server-side only.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		principal, err := a.Service.Resolve(r.Context(), raw)
		if err != nil {
			a.Logger.Info("token rejected", "err", err, "path", r.URL.Path)
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), principal)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
