package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/testutil"
)

func Test_ServerApp(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	noEnv := func(string) string { return "" }

	port, err := testutil.RandomPort()
	require.NoError(t, err, "failed to get random port to start server")
	listenAddr := fmt.Sprintf("localhost:%d", port)

	t.Run("stop with signal", func(t *testing.T) {
		srv, err := NewServerApp(t.Context(), noEnv, os.Getwd, []string{
			"--address", listenAddr,
			"--log-level", "debug",
			"--database", pg.DSN,
			"--secret-key", "secret",
		})
		require.NoError(t, err, "app with complete config should initialize")

		ctx, cancel := context.WithTimeout(t.Context(), 500*time.Millisecond) // Half Second
		t.Cleanup(cancel)

		err = srv.Run(ctx)

		require.ErrorIs(t, err, http.ErrServerClosed, "on correct stop the server just closes")
	})

	t.Run("fail without secret key", func(t *testing.T) {
		_, err := NewServerApp(t.Context(), noEnv, os.Getwd, []string{
			"--address", listenAddr,
			"--log-level", "debug",
			"--database", pg.DSN,
		})

		require.Error(t, err, "app without secret key must not start")
	})
}
