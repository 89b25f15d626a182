// Package memory holds an in-memory Storage that mirrors the postgres
// semantics. It backs the service tests, where a fake clock has to drive
// sessions through their whole lifecycle without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/internal/apperrors"
	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repository"
)

type Storage struct {
	mu       sync.Mutex
	users    map[uuid.UUID]models.User
	sessions map[string]models.RefreshSession // keyed by token hash
}

func NewStorage() *Storage {
	return &Storage{
		users:    make(map[uuid.UUID]models.User),
		sessions: make(map[string]models.RefreshSession),
	}
}

func (s *Storage) User() repository.UserRepo {
	return &userRepo{s: s}
}

func (s *Storage) Session() repository.SessionRepo {
	return &sessionRepo{s: s}
}

// InTx just runs fn: single-process map storage has no transactions
func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) error {
	return fn(s)
}

type userRepo struct {
	s *Storage
}

func (r *userRepo) CreateUser(ctx context.Context, firstName, lastName, email, hashedPassword string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return models.User{}, apperrors.ErrEmailAlreadyRegistered
		}
	}

	user := models.User{
		ID:             uuid.New(),
		CreatedAt:      time.Now(),
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		HashedPassword: hashedPassword,
	}
	r.s.users[user.ID] = user

	return user, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[userID]
	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, apperrors.ErrUserNotFound
}

// SetUser stores the user as-is, test helper for deactivated accounts
func (s *Storage) SetUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// DeleteUser removes the account entirely, test helper
func (s *Storage) DeleteUser(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}

type sessionRepo struct {
	s *Storage
}

func (r *sessionRepo) Create(ctx context.Context, session models.RefreshSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.sessions[session.TokenHash] = session
	return nil
}

func (r *sessionRepo) FindActiveByHash(ctx context.Context, tokenHash string, expiredAfter time.Time) (models.RefreshSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	session, ok := r.s.sessions[tokenHash]
	if !ok || session.Revoked || !session.ExpiresAt.After(expiredAfter) {
		return models.RefreshSession{}, apperrors.ErrSessionNotFound
	}
	return session, nil
}

func (r *sessionRepo) Rotate(ctx context.Context, oldTokenHash string, next models.RefreshSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.sessions[next.TokenHash] = next
	delete(r.s.sessions, oldTokenHash)
	return nil
}

func (r *sessionRepo) Revoke(ctx context.Context, tokenHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	session, ok := r.s.sessions[tokenHash]
	if ok {
		session.Revoked = true
		r.s.sessions[tokenHash] = session
	}
	return nil
}

func (r *sessionRepo) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for hash, session := range r.s.sessions {
		if session.UserID == userID {
			delete(r.s.sessions, hash)
		}
	}
	return nil
}
