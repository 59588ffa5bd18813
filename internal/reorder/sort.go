package reorder

import (
	"errors"
	"slices"
	"sort"
	"strings"
)

// SortKey concatenates the row's cells at indices with no separator.
func SortKey(row []string, indices []int) (string, error) {
	var b strings.Builder
	for _, i := range indices {
		if i < 0 || i >= len(row) {
			return "", &RowError{Index: i, Len: len(row)}
		}
		b.WriteString(row[i])
	}
	return b.String(), nil
}

// keyFields returns the row's cells at indices.
func keyFields(row []string, indices []int) ([]string, error) {
	fields := make([]string, len(indices))
	for n, i := range indices {
		if i < 0 || i >= len(row) {
			return nil, &RowError{Index: i, Len: len(row)}
		}
		fields[n] = row[i]
	}
	return fields, nil
}

// keyedRow pairs a row with its precomputed key.
type keyedRow struct {
	row    []string
	key    string
	fields []string
}

// SortRows returns a new slice holding rows in ascending key order.
// Keys compare byte-wise; rows with equal keys keep their input order.
// The rows slice itself is not reordered.
func SortRows(rows [][]string, indices []int, mode KeyMode) ([][]string, error) {
	keyed := make([]keyedRow, len(rows))
	for n, row := range rows {
		kr := keyedRow{row: row}
		var err error
		if mode == KeyTuple {
			kr.fields, err = keyFields(row, indices)
		} else {
			kr.key, err = SortKey(row, indices)
		}
		if err != nil {
			var re *RowError
			if errors.As(err, &re) {
				re.Row = n
			}
			return nil, err
		}
		keyed[n] = kr
	}

	if mode == KeyTuple {
		sort.SliceStable(keyed, func(i, j int) bool {
			return slices.Compare(keyed[i].fields, keyed[j].fields) < 0
		})
	} else {
		sort.SliceStable(keyed, func(i, j int) bool {
			return keyed[i].key < keyed[j].key
		})
	}

	sorted := make([][]string, len(keyed))
	for n, kr := range keyed {
		sorted[n] = kr.row
	}
	return sorted, nil
}
