package reorder

import (
	"errors"
	"fmt"
)

// ErrUnresolvedColumns is wrapped by every *UnresolvedError.
var ErrUnresolvedColumns = errors.New("unresolved columns")

// UnresolvedError reports requested column names that are absent from the
// input header. It carries the diagnostic context printed on a failed gate.
type UnresolvedError struct {
	Kind      string   // "input" or "output"
	Header    []string // Header as read from the input
	Requested []string // Names as configured
	Resolved  []int    // Positions that were found, in request order
	Missing   []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved %s column(s) %q: requested %d, resolved %d",
		e.Kind, e.Missing, len(e.Requested), len(e.Resolved))
}

func (e *UnresolvedError) Unwrap() error {
	return ErrUnresolvedColumns
}

// RowError reports a row that is too short for a column position it is
// asked for.
type RowError struct {
	Row   int // Zero-based index into the rows being processed
	Index int // Requested column position
	Len   int // Number of cells in the row
}

// Line returns the one-based line number in the input file, counting the header.
func (e *RowError) Line() int {
	return e.Row + 2
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row at line %d has %d cells, column index %d out of range",
		e.Line(), e.Len, e.Index)
}

func newUnresolvedError(kind string, header []string, m Mapping) *UnresolvedError {
	requested := make([]string, len(m))
	for i, r := range m {
		requested[i] = r.Name
	}
	return &UnresolvedError{
		Kind:      kind,
		Header:    header,
		Requested: requested,
		Resolved:  m.Indices(),
		Missing:   m.Missing(),
	}
}
