package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// utf8BOM is the byte order mark some Windows tools prepend to text files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile opens path, reads the whole table, and closes the file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// Read parses a tab-separated table from r.
// The first record becomes the header; every later record is a row,
// kept exactly as parsed.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	records, err := parse(sanitize(data))
	if err != nil {
		return nil, fmt.Errorf("invalid tsv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	return &Table{
		Header: records[0],
		Rows:   records[1:],
	}, nil
}

func parse(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = Delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// sanitize strips a leading BOM, replaces invalid UTF-8 bytes with U+FFFD,
// and turns a lone CR into LF the way a text-mode read does.
func sanitize(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		data = replaceInvalid(data)
	}
	return normalizeNewlines(data)
}

func replaceInvalid(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
			data = data[1:]
		} else {
			buf.Write(data[:size])
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// normalizeNewlines rewrites every CR not followed by LF as LF. CRLF pairs
// are left for the csv reader. csv.Writer drops a lone CR inside a field
// when UseCRLF is set, so none may reach it.
func normalizeNewlines(data []byte) []byte {
	if bytes.IndexByte(data, '\r') < 0 {
		return data
	}

	out := bytes.Clone(data)
	for i, c := range out {
		if c == '\r' && (i+1 == len(out) || out[i+1] != '\n') {
			out[i] = '\n'
		}
	}
	return out
}
