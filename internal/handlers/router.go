package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/internal/handlers/middleware"
	"github.com/taskhub/taskhub/internal/logger"
	"github.com/taskhub/taskhub/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(auth authService, l logger.Logger) http.Handler {
	authMiddleware := middleware.AuthMiddleware(auth)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	api := http.NewServeMux()

	api.Handle("POST /auth/register", handleRegister(auth, l))
	api.Handle("POST /auth/login", handleLogin(auth, l))
	api.Handle("POST /auth/refresh", handleTokenRefresh(auth, l))
	api.Handle("GET /auth/session", handleSessionStatus(auth, l))
	api.Handle("POST /auth/logout", handleLogout(auth, l))

	api.Handle("GET /user/me", withAuth(handleUserMe(auth, l)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(l),
	)

	return handler
}

type authService interface {
	// Register user account
	// Has to return apperrors.ErrEmailAlreadyRegistered on duplicate email
	Register(ctx context.Context, firstName, lastName, email, password string) (models.User, models.TokenPair, error)

	// Login with email and password
	// Has to return apperrors.ErrInvalidCredentials without telling which
	// part was wrong
	Login(ctx context.Context, email, password string) (models.User, models.TokenPair, error)

	// Mint a new access token; rotate the refresh session only when extend
	// is set. Second return value is nil unless the session was rotated
	Refresh(ctx context.Context, refresh string, extend bool) (models.IssuedToken, *models.IssuedToken, error)

	// Read-only session status for the expiry-warning poll
	Status(ctx context.Context, refresh string) (models.SessionStatus, error)

	// Resolve the caller from an access token, false means anonymous
	Identify(accessToken string) (uuid.UUID, bool)

	// Revoke the refresh session
	Logout(ctx context.Context, refresh string) error

	// Load user record for an identified caller
	GetUser(ctx context.Context, userID uuid.UUID) (models.User, error)
}
