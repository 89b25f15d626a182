package memory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/apperrors"
	"github.com/taskhub/taskhub/internal/models"
)

func TestMemoryStorage_User(t *testing.T) {
	storage := NewStorage()

	t.Run("create and get", func(t *testing.T) {
		user, err := storage.User().CreateUser(t.Context(), "Jane", "Doe", "jane@example.com", "hash")
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, user.ID)

		byID, err := storage.User().GetUserByID(t.Context(), user.ID)
		require.NoError(t, err)
		require.Equal(t, user, byID)

		byEmail, err := storage.User().GetUserByEmail(t.Context(), "jane@example.com")
		require.NoError(t, err)
		require.Equal(t, user, byEmail)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := storage.User().CreateUser(t.Context(), "Other", "Jane", "jane@example.com", "hash")
		require.ErrorIs(t, err, apperrors.ErrEmailAlreadyRegistered)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := storage.User().GetUserByID(t.Context(), uuid.New())
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)

		_, err = storage.User().GetUserByEmail(t.Context(), "nobody@example.com")
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestMemoryStorage_Session(t *testing.T) {
	now := time.Now()

	newSession := func(hash string, expiresAt time.Time) models.RefreshSession {
		return models.RefreshSession{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			TokenHash: hash,
			CreatedAt: now,
			ExpiresAt: expiresAt,
		}
	}

	t.Run("find respects the expiry cutoff", func(t *testing.T) {
		storage := NewStorage()
		session := newSession("hash-1", now.Add(time.Hour))
		require.NoError(t, storage.Session().Create(t.Context(), session))

		found, err := storage.Session().FindActiveByHash(t.Context(), "hash-1", now)
		require.NoError(t, err)
		require.Equal(t, session, found)

		// Same row is gone once the cutoff moves past its expiry
		_, err = storage.Session().FindActiveByHash(t.Context(), "hash-1", now.Add(2*time.Hour))
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("revoked is never found", func(t *testing.T) {
		storage := NewStorage()
		require.NoError(t, storage.Session().Create(t.Context(), newSession("hash-2", now.Add(time.Hour))))
		require.NoError(t, storage.Session().Revoke(t.Context(), "hash-2"))

		_, err := storage.Session().FindActiveByHash(t.Context(), "hash-2", now)
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("rotate replaces the row", func(t *testing.T) {
		storage := NewStorage()
		require.NoError(t, storage.Session().Create(t.Context(), newSession("hash-old", now.Add(time.Hour))))

		next := newSession("hash-new", now.Add(2*time.Hour))
		require.NoError(t, storage.Session().Rotate(t.Context(), "hash-old", next))

		_, err := storage.Session().FindActiveByHash(t.Context(), "hash-old", now)
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

		found, err := storage.Session().FindActiveByHash(t.Context(), "hash-new", now)
		require.NoError(t, err)
		require.Equal(t, next, found)
	})

	t.Run("delete all for user", func(t *testing.T) {
		storage := NewStorage()
		userID := uuid.New()

		mine := newSession("hash-mine", now.Add(time.Hour))
		mine.UserID = userID
		other := newSession("hash-other", now.Add(time.Hour))

		require.NoError(t, storage.Session().Create(t.Context(), mine))
		require.NoError(t, storage.Session().Create(t.Context(), other))
		require.NoError(t, storage.Session().DeleteAllForUser(t.Context(), userID))

		_, err := storage.Session().FindActiveByHash(t.Context(), "hash-mine", now)
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

		_, err = storage.Session().FindActiveByHash(t.Context(), "hash-other", now)
		require.NoError(t, err, "other users sessions must survive")
	})
}
