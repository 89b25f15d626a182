package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/internal/handlers/render"
	"github.com/taskhub/taskhub/internal/handlers/userctx"
)

const authScheme = "Bearer"

type identifier interface {
	// Resolve the caller from an access token
	// False means anonymous, never an error
	Identify(accessToken string) (uuid.UUID, bool)
}

// AuthMiddleware guards a handler: the request must carry a valid access
// token in the Authorization header. Verification is stateless, every
// request pays only for a signature check
func AuthMiddleware(id identifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := id.Identify(BearerToken(r))
			if !ok {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := userctx.New(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the access token from the Authorization header.
// Empty string if the header is missing or uses another scheme
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, authScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
