package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Table is an in-memory, row-major numeric table.
// Rows appear in the order they were read.
type Table struct {
	Rows [][]float64
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Width returns the number of columns (0 for an empty table).
func (t *Table) Width() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Row returns row i. Panics if i is out of range.
func (t *Table) Row(i int) []float64 {
	return t.Rows[i]
}

// Column returns a copy of column i across all rows.
func (t *Table) Column(i int) ([]float64, error) {
	if i < 0 || i >= t.Width() {
		return nil, fmt.Errorf("column %d out of range (width %d)", i, t.Width())
	}
	col := make([]float64, len(t.Rows))
	for r, row := range t.Rows {
		col[r] = row[i]
	}
	return col, nil
}

// maxLineBytes bounds a single row of the results file.
const maxLineBytes = 16 * 1024 * 1024

// Parse reads a whitespace-delimited numeric table.
// Any malformed input yields a *FormatError; read errors from r are wrapped.
func Parse(r io.Reader) (*Table, error) {
	t := &Table{Rows: [][]float64{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	width := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for i, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, &FormatError{
					Line:    lineNo,
					Column:  i + 1,
					Token:   tok,
					Message: "non-numeric token",
				}
			}
			row[i] = v
		}

		if width == 0 {
			width = len(row)
		} else if len(row) != width {
			return nil, &FormatError{
				Line:    lineNo,
				Message: fmt.Sprintf("expected %d columns, got %d", width, len(row)),
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &FormatError{
				Line:    lineNo + 1,
				Message: fmt.Sprintf("line longer than %d bytes", maxLineBytes),
			}
		}
		return nil, fmt.Errorf("read table: %w", err)
	}

	if len(t.Rows) == 0 {
		return nil, &FormatError{Message: "no data rows"}
	}

	return t, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// WriteTo writes the table back out, one space-separated row per line.
// Values use the shortest decimal form that round-trips.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, row := range t.Rows {
		for i, v := range row {
			if i > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return n, err
				}
				n++
			}
			s := strconv.FormatFloat(v, 'g', -1, 64)
			m, err := bw.WriteString(s)
			n += int64(m)
			if err != nil {
				return n, err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}
