package reorder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/tsvreorder/internal/logging"
	"github.com/JonMunkholm/tsvreorder/internal/table"
	"github.com/google/uuid"
)

// Transform resolves, validates, sorts and projects t according to cfg.
// It never touches the filesystem. The returned records include the
// output header as their first element.
func Transform(t *table.Table, cfg Config) ([][]string, *Result, error) {
	input := Resolve(t.Header, cfg.InputOrder)
	output := Resolve(t.Header, cfg.OutputOrder)

	if err := Validate(cfg, t.Header, input, output); err != nil {
		return nil, nil, err
	}

	if err := checkRows(t.Rows, input, output); err != nil {
		return nil, nil, err
	}

	sorted, err := SortRows(t.Rows, input.Indices(), cfg.KeyMode)
	if err != nil {
		return nil, nil, err
	}

	records, err := Project(sorted, cfg, input, output)
	if err != nil {
		return nil, nil, err
	}

	return records, &Result{
		InputFile:   cfg.InputFile,
		OutputFile:  cfg.OutputFile,
		Rows:        len(sorted),
		InputIndex:  input.Indices(),
		OutputIndex: output.Indices(),
	}, nil
}

// checkRows verifies every row reaches the highest referenced position, so
// a short row is reported with its input position before any reordering.
func checkRows(rows [][]string, input, output Mapping) error {
	maxIdx := -1
	for _, m := range []Mapping{input, output} {
		for _, i := range m.Indices() {
			if i > maxIdx {
				maxIdx = i
			}
		}
	}

	for n, row := range rows {
		if maxIdx >= len(row) {
			return &RowError{Row: n, Index: maxIdx, Len: len(row)}
		}
	}
	return nil
}

// Pipeline runs file-to-file transformations and records their outcome.
type Pipeline struct {
	recorder Recorder
}

// NewPipeline creates a Pipeline. A nil recorder discards run history.
func NewPipeline(recorder Recorder) *Pipeline {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Pipeline{recorder: recorder}
}

// Run loads cfg.InputFile, transforms it, and writes cfg.OutputFile.
// The output file is created only after every earlier step has succeeded.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (*Result, error) {
	return p.exec(ctx, cfg, func(logger *slog.Logger) (*Result, error) {
		return runFile(ctx, logger, cfg)
	})
}

// Preview transforms an already loaded table without touching the
// filesystem and records the run like Run does.
func (p *Pipeline) Preview(ctx context.Context, t *table.Table, cfg Config) ([][]string, *Result, error) {
	var records [][]string
	result, err := p.exec(ctx, cfg, func(logger *slog.Logger) (*Result, error) {
		logger.Debug("table received", "columns", len(t.Header), "rows", t.Len())
		recs, res, err := Transform(t, cfg)
		records = recs
		return res, err
	})
	if err != nil {
		return nil, nil, err
	}
	return records, result, nil
}

// exec wraps one run with its ID, timing, logging and history record.
func (p *Pipeline) exec(ctx context.Context, cfg Config, fn func(*slog.Logger) (*Result, error)) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()

	logger := logging.WithFields(ctx,
		"run_id", runID,
		"input_file", cfg.InputFile,
		"output_file", cfg.OutputFile,
	)
	logger.Debug("run started", "key_mode", cfg.KeyMode.String())

	result, err := fn(logger)
	if result == nil {
		result = &Result{InputFile: cfg.InputFile, OutputFile: cfg.OutputFile}
	}
	result.RunID = runID
	result.StartedAt = start
	result.Duration = time.Since(start)

	p.record(ctx, logger, cfg, result, err)

	if err != nil {
		logger.Debug("run failed", "error", err)
		return nil, err
	}

	logger.Info("run completed",
		"rows", result.Rows,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

func runFile(ctx context.Context, logger *slog.Logger, cfg Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	t, err := table.ReadFile(cfg.InputFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("table loaded", "columns", len(t.Header), "rows", t.Len())

	records, result, err := Transform(t, cfg)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	if err := table.WriteFile(cfg.OutputFile, records); err != nil {
		return nil, err
	}

	return result, nil
}

// record stores the run outcome. History failures are logged, never returned.
func (p *Pipeline) record(ctx context.Context, logger *slog.Logger, cfg Config, result *Result, runErr error) {
	rec := RunRecord{
		RunID:       result.RunID,
		InputFile:   cfg.InputFile,
		OutputFile:  cfg.OutputFile,
		InputOrder:  cfg.InputOrder,
		OutputOrder: cfg.OutputOrder,
		KeyMode:     cfg.KeyMode.String(),
		Rows:        result.Rows,
		Status:      StatusSucceeded,
		StartedAt:   result.StartedAt,
		Duration:    result.Duration,
	}
	if runErr != nil {
		rec.Status = StatusFailed
		rec.ErrorCode = MapError(runErr).Code
		rec.Error = runErr.Error()
	}

	if err := p.recorder.RecordRun(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}
