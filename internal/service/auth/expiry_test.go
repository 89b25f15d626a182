package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

func Test_ExpiryPolicy(t *testing.T) {
	t.Parallel()

	createdAt := mustParseTime("2024-01-01 12:00:00Z")
	ttl := time.Hour
	threshold := 30 * time.Second
	expiresAt := SessionExpiresAt(createdAt, ttl)

	t.Run("expires at", func(t *testing.T) {
		require.Equal(t, mustParseTime("2024-01-01 13:00:00Z"), expiresAt)
	})

	t.Run("remaining", func(t *testing.T) {
		tests := []struct {
			name     string
			now      time.Time
			expected time.Duration
		}{
			{"at creation", createdAt, time.Hour},
			{"halfway", createdAt.Add(30 * time.Minute), 30 * time.Minute},
			{"one second left", createdAt.Add(ttl - time.Second), time.Second},
			{"exactly expired", expiresAt, 0},
			{"long expired never negative", expiresAt.Add(time.Hour), 0},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				require.Equal(t, tt.expected, Remaining(expiresAt, tt.now))
			})
		}
	})

	t.Run("about to expire", func(t *testing.T) {
		tests := []struct {
			name     string
			now      time.Time
			expected bool
		}{
			{"fresh session", createdAt, false},
			{"just before warning window", createdAt.Add(ttl - threshold - time.Second), false},
			{"warning window starts", createdAt.Add(ttl - threshold), true},
			{"one second left", createdAt.Add(ttl - time.Second), true},
			{"exactly expired", expiresAt, false},
			{"past expiry", expiresAt.Add(time.Second), false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				require.Equal(t, tt.expected, AboutToExpire(expiresAt, tt.now, threshold))
			})
		}
	})
}
