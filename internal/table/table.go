// Package table reads and writes tab-separated tables.
//
// The dialect matches the conventional Excel tab format: a single tab
// delimiter, double-quote quoting with doubled quotes inside quoted fields,
// and CRLF record terminators on output. Tables are always held fully in
// memory.
package table

import "errors"

// Delimiter separates fields within a record.
const Delimiter = '\t'

// ErrEmptyTable is returned when the input has no header record.
var ErrEmptyTable = errors.New("empty table")

// Table is a header record followed by data rows.
// Rows are not required to have the same length as Header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows (header excluded).
func (t *Table) Len() int {
	return len(t.Rows)
}
