package reorder

import "strconv"

// Project builds the output records for rows that are already sorted.
//
// The first record is cfg.Header(). Each following record is the row's
// zero-based position, then its cells at the input-key positions, then its
// cells at the output positions. Only found positions are used, so with
// OutputLenient a record can be narrower than the header.
func Project(rows [][]string, cfg Config, input, output Mapping) ([][]string, error) {
	inIdx := input.Indices()
	outIdx := output.Indices()

	records := make([][]string, 0, len(rows)+1)
	records = append(records, cfg.Header())

	for n, row := range rows {
		rec := make([]string, 0, 1+len(inIdx)+len(outIdx))
		rec = append(rec, strconv.Itoa(n))

		for _, idx := range [][]int{inIdx, outIdx} {
			for _, i := range idx {
				if i >= len(row) {
					return nil, &RowError{Row: n, Index: i, Len: len(row)}
				}
				rec = append(rec, row[i])
			}
		}

		records = append(records, rec)
	}

	return records, nil
}
