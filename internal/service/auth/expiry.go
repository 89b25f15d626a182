package auth

import (
	"time"
)

// Pure expiry arithmetic for refresh sessions.
// The session window is fixed: it is anchored on the row's createdAt and is
// never slid forward by ordinary (non extending) refreshes.

// SessionExpiresAt returns the absolute expiry instant of a session window
func SessionExpiresAt(createdAt time.Time, ttl time.Duration) time.Time {
	return createdAt.Add(ttl)
}

// Remaining returns how much of the session window is left, never negative
func Remaining(expiresAt time.Time, now time.Time) time.Duration {
	remaining := expiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AboutToExpire reports whether the session entered the warning window:
// still alive but with threshold or less remaining
func AboutToExpire(expiresAt time.Time, now time.Time, threshold time.Duration) bool {
	remaining := Remaining(expiresAt, now)
	return remaining > 0 && remaining <= threshold
}
