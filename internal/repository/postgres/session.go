package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taskhub/taskhub/internal/apperrors"
	"github.com/taskhub/taskhub/internal/models"
)

type SessionRepo struct {
	db DBTX
}

const createSession = `-- name: CreateSession
INSERT INTO refresh_sessions (id, user_id, token_hash, created_at, expires_at, revoked)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`

func (r *SessionRepo) Create(ctx context.Context, s models.RefreshSession) error {
	rows, _ := r.db.Query(ctx, createSession, s.ID, s.UserID, s.TokenHash, s.CreatedAt, s.ExpiresAt, s.Revoked)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const findActiveByHash = `-- name: FindActiveByHash
SELECT id, user_id, created_at, expires_at, revoked
FROM refresh_sessions
WHERE token_hash = $1 AND NOT revoked AND expires_at > $2
`

// Find not revoked session by token hash
// expiredAfter is usually 'now'; passing an earlier instant widens the lookup
// to the grace window after nominal expiry
func (r *SessionRepo) FindActiveByHash(ctx context.Context, tokenHash string, expiredAfter time.Time) (models.RefreshSession, error) {
	rows, _ := r.db.Query(ctx, findActiveByHash, tokenHash, expiredAfter)
	session, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.RefreshSession, error) {
		s := models.RefreshSession{TokenHash: tokenHash}
		err := row.Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt, &s.Revoked)
		return s, err
	})

	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, pgx.ErrNoRows):
		return session, apperrors.ErrSessionNotFound
	default:
		return session, fmt.Errorf("db error: %w", err)
	}
}

const deleteSession = `-- name: DeleteSession
DELETE FROM refresh_sessions
WHERE token_hash = $1
`

// Rotate replaces the session matching oldTokenHash with 'next'.
// Insert happens first: losing the delete leaves a second temporarily valid
// row that expires on its own, losing the insert would leave the caller with
// nothing. Wrap in Storage.InTx to make the swap atomic.
func (r *SessionRepo) Rotate(ctx context.Context, oldTokenHash string, next models.RefreshSession) error {
	if err := r.Create(ctx, next); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, deleteSession, oldTokenHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const revokeSession = `-- name: RevokeSession
UPDATE refresh_sessions
SET revoked = TRUE
WHERE token_hash = $1
`

func (r *SessionRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.db.Exec(ctx, revokeSession, tokenHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const deleteUserSessions = `-- name: DeleteUserSessions
DELETE FROM refresh_sessions
WHERE user_id = $1
`

func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, deleteUserSessions, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
