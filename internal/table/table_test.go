package table

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader []string
		wantRows   [][]string
	}{
		{
			name:       "header and rows",
			input:      "#\tS\tY\n0\t1\t0\n1\t0\t1\n",
			wantHeader: []string{"#", "S", "Y"},
			wantRows:   [][]string{{"0", "1", "0"}, {"1", "0", "1"}},
		},
		{
			name:       "header only",
			input:      "A\tB\n",
			wantHeader: []string{"A", "B"},
			wantRows:   [][]string{},
		},
		{
			name:       "crlf line endings",
			input:      "A\tB\r\nx\ty\r\n",
			wantHeader: []string{"A", "B"},
			wantRows:   [][]string{{"x", "y"}},
		},
		{
			name:       "quoted field with tab",
			input:      "A\tB\n\"x\ty\"\tz\n",
			wantHeader: []string{"A", "B"},
			wantRows:   [][]string{{"x\ty", "z"}},
		},
		{
			name:       "ragged rows pass through",
			input:      "A\tB\tC\n1\n1\t2\t3\t4\n",
			wantHeader: []string{"A", "B", "C"},
			wantRows:   [][]string{{"1"}, {"1", "2", "3", "4"}},
		},
		{
			name:       "bom stripped",
			input:      "\xEF\xBB\xBFA\tB\n1\t2\n",
			wantHeader: []string{"A", "B"},
			wantRows:   [][]string{{"1", "2"}},
		},
		{
			name:       "lone cr inside quoted field becomes lf",
			input:      "K\tV\n0\t\"x\ry\"\n",
			wantHeader: []string{"K", "V"},
			wantRows:   [][]string{{"0", "x\ny"}},
		},
		{
			name:       "lone cr line endings",
			input:      "A\tB\rx\ty\r",
			wantHeader: []string{"A", "B"},
			wantRows:   [][]string{{"x", "y"}},
		},
		{
			name:       "bare quote tolerated",
			input:      "A\tB\nsay \"hi\"\t2\n",
			wantHeader: []string{"A", "B"},
			wantRows:   [][]string{{"say \"hi\"", "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got.Header, tt.wantHeader) {
				t.Errorf("Header = %q, want %q", got.Header, tt.wantHeader)
			}
			if len(got.Rows) != len(tt.wantRows) {
				t.Fatalf("Rows = %q, want %q", got.Rows, tt.wantRows)
			}
			for i := range tt.wantRows {
				if !reflect.DeepEqual(got.Rows[i], tt.wantRows[i]) {
					t.Errorf("Rows[%d] = %q, want %q", i, got.Rows[i], tt.wantRows[i])
				}
			}
		})
	}
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	if !errors.Is(err, ErrEmptyTable) {
		t.Errorf("Read(\"\") error = %v, want ErrEmptyTable", err)
	}
}

func TestRead_InvalidUTF8(t *testing.T) {
	got, err := Read(bytes.NewReader([]byte{'A', '\t', 'B', 0x80, '\n'}))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Header[1] != "B\uFFFD" {
		t.Errorf("Header[1] = %q, want %q", got.Header[1], "B\uFFFD")
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.tsv"))
	if err == nil {
		t.Fatal("ReadFile() expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
	if !strings.Contains(err.Error(), "open input") {
		t.Errorf("error should mention open input: %v", err)
	}
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    string
	}{
		{
			name:    "plain",
			records: [][]string{{"#", "S"}, {"0", "1"}},
			want:    "#\tS\r\n0\t1\r\n",
		},
		{
			name:    "quotes embedded tab",
			records: [][]string{{"a\tb", "c"}},
			want:    "\"a\tb\"\tc\r\n",
		},
		{
			name:    "doubles quotes",
			records: [][]string{{`say "hi"`}},
			want:    "\"say \"\"hi\"\"\"\r\n",
		},
		{
			name:    "parentheses and colon untouched",
			records: [][]string{{"Y(3:0)"}},
			want:    "Y(3:0)\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, tt.records); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Write() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	records := [][]string{
		{"#", "A", "note"},
		{"0", "1", "has\ttab"},
		{"1", "0", "line\nbreak"},
	}

	if err := WriteFile(path, records); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !reflect.DeepEqual(got.Header, records[0]) {
		t.Errorf("Header = %q, want %q", got.Header, records[0])
	}
	if !reflect.DeepEqual(got.Rows, records[1:]) {
		t.Errorf("Rows = %q, want %q", got.Rows, records[1:])
	}
}

func TestWriteFile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.tsv")
	err := WriteFile(path, [][]string{{"a"}})
	if err == nil {
		t.Fatal("WriteFile() expected error for missing directory")
	}
	if !strings.Contains(err.Error(), "write output") {
		t.Errorf("error should mention write output: %v", err)
	}
}

func TestReadWrite_LoneCRBecomesLF(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tsv")
	out := filepath.Join(dir, "out.tsv")
	if err := os.WriteFile(in, []byte("K\tV\n0\t\"x\ry\"\n"), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	first, err := ReadFile(in)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if err := WriteFile(out, append([][]string{first.Header}, first.Rows...)); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	second, err := ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got := second.Rows[0][1]; got != "x\ny" {
		t.Errorf("cell = %q, want %q", got, "x\ny")
	}
}
