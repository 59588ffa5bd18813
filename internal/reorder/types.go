package reorder

import (
	"context"
	"time"
)

// IndexColumn is the name of the synthetic leading column in the output.
const IndexColumn = "#"

// KeyMode selects how the sort key is built from the input-key cells.
type KeyMode int

const (
	// KeyConcat concatenates the cells with no separator and compares the
	// resulting strings.
	KeyConcat KeyMode = iota
	// KeyTuple compares the cells one field at a time.
	KeyTuple
)

func (m KeyMode) String() string {
	switch m {
	case KeyConcat:
		return "concat"
	case KeyTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// OutputPolicy decides what happens when an output column cannot be resolved.
type OutputPolicy int

const (
	// OutputStrict fails the run, exactly like an unresolved input-key column.
	OutputStrict OutputPolicy = iota
	// OutputLenient drops the unresolved column from the data rows but keeps
	// its name in the header, so header and data may differ in width.
	OutputLenient
)

// Config is everything one run needs.
type Config struct {
	InputOrder  []string // Sort-key columns, also written first
	InputFile   string
	OutputOrder []string // Columns written after the sort-key columns
	OutputFile  string

	KeyMode      KeyMode
	OutputPolicy OutputPolicy
}

// Header returns the output header: IndexColumn, InputOrder, OutputOrder.
// Names are taken verbatim from the config, not from the resolved mappings.
func (c Config) Header() []string {
	header := make([]string, 0, 1+len(c.InputOrder)+len(c.OutputOrder))
	header = append(header, IndexColumn)
	header = append(header, c.InputOrder...)
	header = append(header, c.OutputOrder...)
	return header
}

// Resolution is the outcome of looking up one requested column name.
type Resolution struct {
	Name  string
	Index int // Position in the header; -1 when not found
	Found bool
}

// Mapping holds one Resolution per requested name, in request order.
type Mapping []Resolution

// Indices returns the header positions of the names that were found,
// in request order. It is shorter than the mapping when names are missing.
func (m Mapping) Indices() []int {
	idx := make([]int, 0, len(m))
	for _, r := range m {
		if r.Found {
			idx = append(idx, r.Index)
		}
	}
	return idx
}

// Missing returns the requested names that were not found.
func (m Mapping) Missing() []string {
	var missing []string
	for _, r := range m {
		if !r.Found {
			missing = append(missing, r.Name)
		}
	}
	return missing
}

// Complete reports whether every requested name was found.
func (m Mapping) Complete() bool {
	for _, r := range m {
		if !r.Found {
			return false
		}
	}
	return true
}

// Result describes a completed transformation.
type Result struct {
	RunID       string
	InputFile   string
	OutputFile  string
	Rows        int
	InputIndex  []int
	OutputIndex []int
	StartedAt   time.Time
	Duration    time.Duration
}

// RunStatus is the final state of a run.
type RunStatus string

const (
	StatusSucceeded RunStatus = "succeeded"
	StatusFailed    RunStatus = "failed"
)

// RunRecord is what gets persisted about each run.
type RunRecord struct {
	RunID       string
	InputFile   string
	OutputFile  string
	InputOrder  []string
	OutputOrder []string
	KeyMode     string
	Rows        int
	Status      RunStatus
	ErrorCode   string // Empty on success
	Error       string
	StartedAt   time.Time
	Duration    time.Duration
}

// Recorder persists run records.
type Recorder interface {
	RecordRun(ctx context.Context, rec RunRecord) error
}

// NopRecorder discards every record.
type NopRecorder struct{}

// RecordRun implements Recorder.
func (NopRecorder) RecordRun(context.Context, RunRecord) error { return nil }
