package reorder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/JonMunkholm/tsvreorder/internal/table"
)

const truthTSV = "#\tS\tA3\tA2\tA1\tA0\tB3\tB2\tB1\tB0\tY(3:0)\n" +
	"0\t1\t0\t0\t0\t1\t0\t0\t0\t0\t1\n" +
	"1\t0\t0\t0\t0\t1\t1\t1\t1\t1\t0\n"

const truthWant = "#\tS\tA3\tA2\tA1\tA0\tB3\tB2\tB1\tB0\tY(3:0)\r\n" +
	"0\t0\t0\t0\t0\t1\t1\t1\t1\t1\t0\r\n" +
	"1\t1\t0\t0\t0\t1\t0\t0\t0\t0\t1\r\n"

// memRecorder keeps records in memory.
type memRecorder struct {
	mu   sync.Mutex
	runs []RunRecord
	err  error
}

func (m *memRecorder) RecordRun(_ context.Context, rec RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, rec)
	return m.err
}

func writeInput(t *testing.T, content string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "table.tsv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return dir, path
}

func TestPipelineRun(t *testing.T) {
	dir, in := writeInput(t, truthTSV)
	cfg := truthConfig()
	cfg.InputFile = in
	cfg.OutputFile = filepath.Join(dir, "table_reordered.tsv")

	rec := &memRecorder{}
	result, err := NewPipeline(rec).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := os.ReadFile(cfg.OutputFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != truthWant {
		t.Errorf("output = %q, want %q", got, truthWant)
	}

	if result.RunID == "" {
		t.Error("Result.RunID is empty")
	}
	if result.Rows != 2 {
		t.Errorf("Result.Rows = %d, want 2", result.Rows)
	}

	if len(rec.runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(rec.runs))
	}
	if rec.runs[0].Status != StatusSucceeded || rec.runs[0].RunID != result.RunID {
		t.Errorf("recorded run = %+v", rec.runs[0])
	}
}

func TestPipelineRun_Idempotent(t *testing.T) {
	dir, in := writeInput(t, truthTSV)
	cfg := truthConfig()
	cfg.InputFile = in
	cfg.OutputFile = filepath.Join(dir, "out.tsv")

	p := NewPipeline(nil)
	if _, err := p.Run(context.Background(), cfg); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	first, _ := os.ReadFile(cfg.OutputFile)

	if _, err := p.Run(context.Background(), cfg); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	second, _ := os.ReadFile(cfg.OutputFile)

	if string(first) != string(second) {
		t.Errorf("outputs differ:\n%q\n%q", first, second)
	}
}

func TestPipelineRun_GateLeavesOutputUntouched(t *testing.T) {
	tests := []struct {
		name     string
		existing bool
	}{
		{"no prior output", false},
		{"prior output kept", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, in := writeInput(t, truthTSV)
			cfg := truthConfig()
			cfg.InputFile = in
			cfg.InputOrder = append([]string{"C0"}, cfg.InputOrder...)
			cfg.OutputFile = filepath.Join(dir, "out.tsv")

			if tt.existing {
				if err := os.WriteFile(cfg.OutputFile, []byte("previous"), 0644); err != nil {
					t.Fatal(err)
				}
			}

			rec := &memRecorder{}
			_, err := NewPipeline(rec).Run(context.Background(), cfg)
			if !errors.Is(err, ErrUnresolvedColumns) {
				t.Fatalf("Run() error = %v, want ErrUnresolvedColumns", err)
			}

			got, readErr := os.ReadFile(cfg.OutputFile)
			if tt.existing {
				if string(got) != "previous" {
					t.Errorf("output modified: %q", got)
				}
			} else if !os.IsNotExist(readErr) {
				t.Errorf("output created: %v", readErr)
			}

			if len(rec.runs) != 1 || rec.runs[0].Status != StatusFailed || rec.runs[0].ErrorCode != "COL001" {
				t.Errorf("recorded runs = %+v", rec.runs)
			}
		})
	}
}

func TestPipelineRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	cfg := truthConfig()
	cfg.InputFile = filepath.Join(dir, "missing.tsv")
	cfg.OutputFile = filepath.Join(dir, "out.tsv")

	_, err := NewPipeline(nil).Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("Run() expected error for missing input")
	}
	if MapError(err).Code != "FILE001" {
		t.Errorf("MapError().Code = %q, want FILE001 (err: %v)", MapError(err).Code, err)
	}
}

func TestPipelineRun_Cancelled(t *testing.T) {
	dir, in := writeInput(t, truthTSV)
	cfg := truthConfig()
	cfg.InputFile = in
	cfg.OutputFile = filepath.Join(dir, "out.tsv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(nil).Run(ctx, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(cfg.OutputFile); !os.IsNotExist(statErr) {
		t.Errorf("output created on cancelled run: %v", statErr)
	}
}

func TestPipelineRun_RecorderErrorIgnored(t *testing.T) {
	dir, in := writeInput(t, truthTSV)
	cfg := truthConfig()
	cfg.InputFile = in
	cfg.OutputFile = filepath.Join(dir, "out.tsv")

	rec := &memRecorder{err: errors.New("connection refused")}
	if _, err := NewPipeline(rec).Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run() error = %v, want nil despite recorder failure", err)
	}
}

func TestPipelineRun_StrictOutput(t *testing.T) {
	dir, in := writeInput(t, truthTSV)
	cfg := truthConfig()
	cfg.InputFile = in
	cfg.OutputFile = filepath.Join(dir, "out.tsv")
	cfg.OutputOrder = []string{"Y(3:0)", "Cout"}

	_, err := NewPipeline(nil).Run(context.Background(), cfg)
	var ue *UnresolvedError
	if !errors.As(err, &ue) || ue.Kind != "output" {
		t.Fatalf("Run() error = %v, want output *UnresolvedError", err)
	}

	cfg.OutputPolicy = OutputLenient
	if _, err := NewPipeline(nil).Run(context.Background(), cfg); err != nil {
		t.Fatalf("lenient Run() error = %v", err)
	}

	got, _ := os.ReadFile(cfg.OutputFile)
	lines := strings.Split(strings.TrimSuffix(string(got), "\r\n"), "\r\n")
	if !strings.HasSuffix(lines[0], "\tY(3:0)\tCout") {
		t.Errorf("header = %q, want Cout kept", lines[0])
	}
	if n := len(strings.Split(lines[1], "\t")); n != 11 {
		t.Errorf("data row has %d cells, want 11", n)
	}
}

func TestPipelineRun_LoneCRInCell(t *testing.T) {
	dir, in := writeInput(t, "K\tV\n0\t\"x\ry\"\n")
	cfg := Config{
		InputOrder:  []string{"K"},
		InputFile:   in,
		OutputOrder: []string{"V"},
		OutputFile:  filepath.Join(dir, "out.tsv"),
	}

	if _, err := NewPipeline(nil).Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := table.ReadFile(cfg.OutputFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if cell := got.Rows[0][2]; cell != "x\ny" {
		t.Errorf("cell = %q, want %q", cell, "x\ny")
	}
}

func TestPipelinePreview(t *testing.T) {
	tbl, err := table.Read(strings.NewReader(truthTSV))
	if err != nil {
		t.Fatalf("table.Read() error = %v", err)
	}

	rec := &memRecorder{}
	cfg := truthConfig()
	cfg.InputFile = "request"
	cfg.OutputFile = "response"

	records, result, err := NewPipeline(rec).Preview(context.Background(), tbl, cfg)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if len(records) != 3 || records[1][0] != "0" || records[1][1] != "0" {
		t.Errorf("records = %q", records)
	}
	if result.RunID == "" || len(rec.runs) != 1 {
		t.Errorf("run not recorded: result=%+v runs=%d", result, len(rec.runs))
	}
	if _, err := os.Stat("response"); !os.IsNotExist(err) {
		t.Error("Preview() must not write files")
	}
}
