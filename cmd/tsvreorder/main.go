package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/tsvreorder/internal/config"
	"github.com/JonMunkholm/tsvreorder/internal/history"
	"github.com/JonMunkholm/tsvreorder/internal/logging"
	"github.com/JonMunkholm/tsvreorder/internal/reorder"
	"github.com/joho/godotenv"
)

// Column order and file paths for the run. Edit these before running.
var (
	inputOrder  = []string{"S", "A3", "A2", "A1", "A0", "B3", "B2", "B1", "B0"}
	outputOrder = []string{"Y(3:0)"}
)

const (
	inputFile  = "table.tsv"
	outputFile = "table_reordered.tsv"

	keyMode      = reorder.KeyConcat
	outputPolicy = reorder.OutputStrict
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	os.Exit(run(context.Background(), defaultConfig(), os.Stdout))
}

func defaultConfig() reorder.Config {
	return reorder.Config{
		InputOrder:   inputOrder,
		InputFile:    inputFile,
		OutputOrder:  outputOrder,
		OutputFile:   outputFile,
		KeyMode:      keyMode,
		OutputPolicy: outputPolicy,
	}
}

// run executes one reorder and returns the process exit code.
// Console lines go to stdout; logs go to stderr.
func run(ctx context.Context, runCfg reorder.Config, stdout io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(ctx, cfg.Reorder.Timeout)
	defer cancel()

	var recorder reorder.Recorder = reorder.NopRecorder{}
	if cfg.Database.Enabled() {
		pool, err := history.Connect(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			return 1
		}
		defer pool.Close()

		store := history.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare run history", "error", err)
			return 1
		}
		recorder = store
	}

	result, err := reorder.NewPipeline(recorder).Run(ctx, runCfg)
	if err != nil {
		var unresolved *reorder.UnresolvedError
		if errors.As(err, &unresolved) {
			printDiagnostics(stdout, unresolved)
		}

		slog.Error("reorder failed",
			"error", err,
			"code", reorder.MapError(err).Code,
		)
		fmt.Fprintln(os.Stderr, reorder.FormatUserError(err))
		return 1
	}

	fmt.Fprintln(stdout, "Saved to:", result.OutputFile)
	return 0
}

// printDiagnostics shows what was found so the column names can be fixed.
func printDiagnostics(w io.Writer, e *reorder.UnresolvedError) {
	fmt.Fprintln(w, e.Header)
	fmt.Fprintln(w, e.Requested)
	fmt.Fprintln(w, e.Resolved)
}
