package handlers

import (
	"net/http"

	"github.com/taskhub/taskhub/internal/handlers/render"
	"github.com/taskhub/taskhub/internal/handlers/userctx"
	"github.com/taskhub/taskhub/internal/logger"
)

func handleUserMe(auth authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Middleware has set the id or rejected the request already
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		user, err := auth.GetUser(r.Context(), userID)
		if err != nil {
			l.Error("user lookup failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toUserPayload(user))
	})
}
