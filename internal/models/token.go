package models

import (
	"time"
)

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenPair issued by the auth service on login, register or extending refresh
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}

// SessionStatus is the read-only answer to "is my refresh session still good".
// Safe to poll: computing it never mutates the session row.
type SessionStatus struct {
	Valid         bool
	Remaining     time.Duration
	AboutToExpire bool
}
