package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshSession is the server side record of one issued refresh token.
// Only the sha256 hash of the signed token is stored, never the token itself.
type RefreshSession struct {
	ID        uuid.UUID // session id, unrelated to the user id
	UserID    uuid.UUID
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
	Revoked   bool
}
