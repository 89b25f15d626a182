package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/internal/apperrors"
	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repository"
	"github.com/taskhub/taskhub/internal/service/auth/tokencodec"
)

const (
	defaultDialogThreshold = 30 * time.Second
)

// Compared against when login hits an unknown email, so both failure paths
// spend one bcrypt comparison. Any well formed bcrypt hash that matches no
// password works here
const dummyPasswordHash = "$2a$10$ZrZQzXQabUza7jYFmmVIX.TCOBVnCGSivqLscdYZZqo9z8RvDo5Iu"

type Config struct {
	// Secret key to sign token payloads
	// Required to be set
	SecretKey string

	// Hasher used during registration and login
	// Defaults to BcryptHasher
	Hasher PasswordHasher

	// Access and refresh token lifetimes
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Remaining time at which the client is told the session is about
	// to expire
	DialogThreshold time.Duration

	// Window after nominal expiry during which an explicit extend is still
	// honored. Defaults to DialogThreshold
	RotationGrace time.Duration

	// Clock override, tests only
	Now func() time.Time
}

// AuthService drives the whole refresh session lifecycle: issue on
// login/register, verify on every request, rotate on explicit extend,
// answer status polls and revoke on logout
type AuthService struct {
	codec   *tokencodec.Codec
	hasher  PasswordHasher
	storage repository.Storage

	refreshTTL      time.Duration
	dialogThreshold time.Duration
	rotationGrace   time.Duration

	now func() time.Time
}

func NewService(cfg Config, storage repository.Storage) (*AuthService, error) {
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	if cfg.DialogThreshold == 0 {
		cfg.DialogThreshold = defaultDialogThreshold
	}
	if cfg.RotationGrace == 0 {
		cfg.RotationGrace = cfg.DialogThreshold
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	codec, err := tokencodec.New(tokencodec.Config{
		SecretKey:  cfg.SecretKey,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		Now:        cfg.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token codec. Err: %w", err)
	}

	return &AuthService{
		codec:           codec,
		hasher:          hasher,
		storage:         storage,
		refreshTTL:      codec.RefreshTTL(),
		dialogThreshold: cfg.DialogThreshold,
		rotationGrace:   cfg.RotationGrace,
		now:             cfg.Now,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password string) (models.User, models.TokenPair, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.storage.User().CreateUser(ctx, firstName, lastName, email, hash)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error) {
	user, err := s.storage.User().GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return models.User{}, models.TokenPair{}, err
	}

	// Unknown email still pays for one comparison, so the error does not
	// reveal whether the account exists
	hashed := user.HashedPassword
	if hashed == "" {
		hashed = dummyPasswordHash
	}

	if compareErr := s.hasher.Compare(hashed, password); compareErr != nil || err != nil || !user.Active() {
		return models.User{}, models.TokenPair{}, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// Refresh implements the core decision of the protocol.
// A new access token is minted on every successful call; the refresh session
// itself is rotated only when the caller explicitly asks to extend it.
// Returned refresh token is nil unless the session was rotated
func (s *AuthService) Refresh(ctx context.Context, refreshValue string, extend bool) (models.IssuedToken, *models.IssuedToken, error) {
	var none models.IssuedToken
	now := s.now()
	oldHash := hashToken(refreshValue)

	session, err := s.storage.Session().FindActiveByHash(ctx, oldHash, now)
	if errors.Is(err, apperrors.ErrSessionNotFound) && extend {
		// The extend click races the session boundary: the dialog is driven
		// by a client side poll, so honor the attempt a little past expiry
		session, err = s.storage.Session().FindActiveByHash(ctx, oldHash, now.Add(-s.rotationGrace))
	}
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return none, nil, apperrors.ErrSessionExpired
	case err != nil:
		return none, nil, err
	}

	// The session row already authorizes the caller, the kind check only
	// guards against token confusion when the claims are still decodable
	if claims, decodeErr := s.codec.Verify(refreshValue); decodeErr == nil && claims.Kind != tokencodec.KindRefresh {
		return none, nil, apperrors.ErrInvalidTokenType
	}

	user, err := s.storage.User().GetUserByID(ctx, session.UserID)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return none, nil, apperrors.ErrAccountNotFound
	case err != nil:
		return none, nil, err
	case !user.Active():
		return none, nil, apperrors.ErrAccountNotFound
	}

	access, err := s.codec.SignAccess(user.ID, user.Email)
	if err != nil {
		return none, nil, err
	}

	if !extend {
		// Leave the session untouched: its createdAt keeps counting toward
		// the original window
		return access, nil, nil
	}

	refresh, next, err := s.mintSession(user.ID)
	if err != nil {
		return none, nil, err
	}

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		return st.Session().Rotate(ctx, oldHash, next)
	})
	if err != nil {
		return none, nil, err
	}

	return access, &refresh, nil
}

// Status answers the client's expiry poll. Pure read, never mutates state
func (s *AuthService) Status(ctx context.Context, refreshValue string) (models.SessionStatus, error) {
	now := s.now()

	session, err := s.storage.Session().FindActiveByHash(ctx, hashToken(refreshValue), now)
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return models.SessionStatus{Valid: false}, nil
	case err != nil:
		return models.SessionStatus{}, err
	}

	return models.SessionStatus{
		Valid:         true,
		Remaining:     Remaining(session.ExpiresAt, now),
		AboutToExpire: AboutToExpire(session.ExpiresAt, now, s.dialogThreshold),
	}, nil
}

// Identify resolves the caller of a request from its access token.
// Cheap enough for every request: codec only, no storage access.
// Any invalid token means anonymous, there is no error to distinguish
func (s *AuthService) Identify(accessValue string) (uuid.UUID, bool) {
	claims, err := s.codec.Verify(accessValue)
	if err != nil || claims.Kind != tokencodec.KindAccess {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// Logout revokes the session. Unknown token is not an error
func (s *AuthService) Logout(ctx context.Context, refreshValue string) error {
	return s.storage.Session().Revoke(ctx, hashToken(refreshValue))
}

// DeleteSessions removes every session of the user, used on account deletion
func (s *AuthService) DeleteSessions(ctx context.Context, userID uuid.UUID) error {
	return s.storage.Session().DeleteAllForUser(ctx, userID)
}

// GetUser loads the user record for an identified caller
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.storage.User().GetUserByID(ctx, userID)
}

// issueSession mints a token pair and persists a fresh session row
func (s *AuthService) issueSession(ctx context.Context, user models.User) (models.TokenPair, error) {
	access, err := s.codec.SignAccess(user.ID, user.Email)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh, session, err := s.mintSession(user.ID)
	if err != nil {
		return models.TokenPair{}, err
	}

	if err := s.storage.Session().Create(ctx, session); err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// mintSession signs a new refresh token and builds the row to persist for it
func (s *AuthService) mintSession(userID uuid.UUID) (models.IssuedToken, models.RefreshSession, error) {
	sessionID := uuid.New()

	refresh, err := s.codec.SignRefresh(userID, sessionID)
	if err != nil {
		return models.IssuedToken{}, models.RefreshSession{}, err
	}

	now := s.now().Truncate(time.Second)
	session := models.RefreshSession{
		ID:        sessionID,
		UserID:    userID,
		TokenHash: hashToken(refresh.Value),
		CreatedAt: now,
		ExpiresAt: SessionExpiresAt(now, s.refreshTTL),
	}

	return refresh, session, nil
}

// hashToken is the one way mapping from a presented refresh token to its row
func hashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
