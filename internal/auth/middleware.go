package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/bluebook-erp/bluebook/internal/platform/httpx"
	"github.com/bluebook-erp/bluebook/internal/shared"
)

// Middleware verifies the bearer token on each request and stores the caller's
// user ID on the context.
type Middleware struct {
	Tokens   *TokenManager
	Denylist *Denylist
	Logger   *slog.Logger
}

// RequireAuth rejects requests without a valid, non-revoked bearer token.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		_, userID, err := m.Tokens.Parse(token)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		if m.Denylist != nil {
			revoked, err := m.Denylist.IsRevoked(r.Context(), token)
			if err != nil {
				// Redis being down must not lock every caller out.
				m.Logger.Warn("denylist check failed", slog.Any("error", err))
			} else if revoked {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "token revoked")
				return
			}
		}
		ctx := shared.ContextWithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
