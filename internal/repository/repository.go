package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with same email exists already has to return apperrors.ErrEmailAlreadyRegistered
	CreateUser(ctx context.Context, firstName, lastName, email, hashedPassword string) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// Refresh session repository interface
type SessionRepo interface {
	// Persist a new refresh session row
	Create(ctx context.Context, session models.RefreshSession) error

	// Return the session matching tokenHash only if it is not revoked and
	// expires after 'expiredAfter'. Callers pass 'now' for a strict lookup or
	// 'now - grace' to honor an extend attempt just past the boundary.
	// If no such row exists must return apperrors.ErrSessionNotFound
	FindActiveByHash(ctx context.Context, tokenHash string, expiredAfter time.Time) (models.RefreshSession, error)

	// Replace the session matching oldTokenHash with 'next'.
	// The new row is inserted before the old one is removed: if the delete is
	// lost the orphan simply expires, while the caller still holds a working
	// session.
	Rotate(ctx context.Context, oldTokenHash string, next models.RefreshSession) error

	// Mark the session revoked. Revoking an unknown hash is not an error
	Revoke(ctx context.Context, tokenHash string) error

	// Remove every session owned by the user (account deletion)
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

// Storage aggregates repositories and gives transactional scope
type Storage interface {
	User() UserRepo
	Session() SessionRepo

	// Run fn with a Storage bound to a single transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
