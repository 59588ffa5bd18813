package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Write encodes records to w in the Excel tab dialect.
func Write(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter
	cw.UseCRLF = true

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("encode tsv: %w", err)
	}
	return nil
}

// WriteFile encodes records in memory and then creates or truncates path.
// Nothing touches the filesystem if encoding fails.
func WriteFile(path string, records [][]string) error {
	var buf bytes.Buffer
	if err := Write(&buf, records); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
