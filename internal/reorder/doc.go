// Package reorder rewrites a tab-separated table into a canonical column
// and row order.
//
// A run is a straight pipeline:
//
//  1. Load the input table (header + rows) with [table.ReadFile]
//  2. [Resolve] the input-key names and the output names against the header
//  3. [Validate] the resolved mappings (the gate; nothing is written on failure)
//  4. [SortRows] by the key built from the input-key columns, stable
//  5. [Project] each row into "#", the input-key cells, then the output cells
//  6. Write the result with [table.WriteFile]
//
// [Transform] runs steps 2-5 in memory; [Pipeline.Run] adds file I/O and
// run history.
//
// # Sort keys
//
// With [KeyConcat] (the default) the key is the input-key cells joined with
// no separator and compared byte-wise. This is only unambiguous when every
// key column is fixed-width, which holds for single-bit truth-table columns
// but not in general: "1"+"23" and "12"+"3" produce the same key. [KeyTuple]
// compares the cells field by field instead.
//
// # Error codes
//
// Failures map to user-facing messages with [MapError]:
//
//	COL001 - an input-key column is missing from the header
//	COL002 - an output column is missing from the header
//	ROW001 - a row is shorter than a referenced column position
//	FILE001 - the input file cannot be opened
//	FILE002 - the output file cannot be written
//	FILE003 - the input is not a valid tab-separated table
//	FILE004 - the input has no header record
//	RUN001 / RUN002 - the run was cancelled or timed out
//	ERR000 - anything else
package reorder
