package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx := context.Background()

	srv, err := NewServerApp(ctx, os.Getenv, os.Getwd, os.Args[1:])
	if err != nil {
		slog.Error("taskhub failed to start", "error", err.Error())
		os.Exit(1)
	}

	// Context cancelled on SIGINT/SIGTERM drives the graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		slog.Warn("shutdown signal received")
		cancel()
	}()

	if err := srv.Run(ctx); err != http.ErrServerClosed {
		slog.Error("HTTP server error", "error", err.Error())
	}
}
