package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_BcryptHasher(t *testing.T) {
	t.Parallel()

	h := BcryptHasher{}

	t.Run("hash password", func(t *testing.T) {
		got, err := h.Hash("password")
		require.NoError(t, err)

		require.Len(t, got, 60, "bcrypt length is 60 letters as far as i know")
		require.Equal(t, "$2a$", got[:4], "bcrypt hash should have prefix '$2a$'")
	})

	t.Run("same password different hashes", func(t *testing.T) {
		first, err := h.Hash("password")
		require.NoError(t, err)
		second, err := h.Hash("password")
		require.NoError(t, err)

		require.NotEqual(t, first, second, "bcrypt salts every hash")
	})

	t.Run("compare password ok", func(t *testing.T) {
		hash, err := h.Hash("password")
		require.NoError(t, err)

		err = h.Compare(hash, "password")

		require.NoError(t, err)
	})

	t.Run("fail compare if wrong password", func(t *testing.T) {
		hash, err := h.Hash("password")
		require.NoError(t, err)

		err = h.Compare(hash, "wrong")

		require.Error(t, err)
	})

	t.Run("fail compare on malformed hash", func(t *testing.T) {
		err := h.Compare("not-a-bcrypt-hash", "password")

		require.Error(t, err, "malformed hash must fail compare, not panic")
	})

	t.Run("long password not truncated", func(t *testing.T) {
		// bcrypt alone ignores everything after 72 bytes, the sha256
		// pre-hash must keep long passwords distinct
		long := strings.Repeat("a", 72)

		hash, err := h.Hash(long + "-first")
		require.NoError(t, err)

		err = h.Compare(hash, long+"-second")
		require.Error(t, err)
	})
}
