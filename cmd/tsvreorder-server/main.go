package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/tsvreorder/internal/config"
	"github.com/JonMunkholm/tsvreorder/internal/history"
	"github.com/JonMunkholm/tsvreorder/internal/logging"
	"github.com/JonMunkholm/tsvreorder/internal/reorder"
	"github.com/JonMunkholm/tsvreorder/internal/web"
	"github.com/joho/godotenv"
)

// Column order applied to every uploaded table.
var (
	inputOrder  = []string{"S", "A3", "A2", "A1", "A0", "B3", "B2", "B1", "B0"}
	outputOrder = []string{"Y(3:0)"}
)

const (
	keyMode      = reorder.KeyConcat
	outputPolicy = reorder.OutputStrict
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"history_enabled", cfg.Database.Enabled(),
		"max_body_size", cfg.Reorder.MaxBodySize,
	)

	var (
		recorder reorder.Recorder = reorder.NopRecorder{}
		runs     web.RunLister
	)
	if cfg.Database.Enabled() {
		pool, err := history.Connect(context.Background(), cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			return 1
		}
		defer pool.Close()

		store := history.NewStore(pool)
		if err := store.EnsureSchema(context.Background()); err != nil {
			slog.Error("failed to prepare run history", "error", err)
			return 1
		}
		slog.Info("run history enabled")
		recorder, runs = store, store
	}

	columns := reorder.Config{
		InputOrder:   inputOrder,
		OutputOrder:  outputOrder,
		KeyMode:      keyMode,
		OutputPolicy: outputPolicy,
	}

	server := web.NewServer(cfg, columns, reorder.NewPipeline(recorder), runs)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		return 1
	}
	<-done
	slog.Info("server stopped")
	return 0
}
