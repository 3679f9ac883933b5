package table

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ExactValuesInOrder(t *testing.T) {
	input := "1.0 0.9 0.0 -1.2 0.3\n2.0 0.7 0.0 -0.8 0.5\n"

	tbl, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	want := [][]float64{
		{1.0, 0.9, 0.0, -1.2, 0.3},
		{2.0, 0.7, 0.0, -0.8, 0.5},
	}
	if diff := cmp.Diff(want, tbl.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 5, tbl.Width())
}

func TestParse_RowsWithoutTrailingNewline(t *testing.T) {
	// Simulator output is appended without delimiters; a missing final
	// newline on the last run must still produce the last row.
	tbl, err := Parse(strings.NewReader("1 2 3\n4 5 6"))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, tbl.Rows)
}

func TestParse_SkipsBlankAndCommentLines(t *testing.T) {
	input := "# T m var e var\n\n1 2 3\n   \n# middle\n4 5 6\n"

	tbl, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}

func TestParse_TabsAndRepeatedSpaces(t *testing.T) {
	tbl, err := Parse(strings.NewReader("1\t2   3\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}}, tbl.Rows)
}

func TestParse_ScientificNotation(t *testing.T) {
	tbl, err := Parse(strings.NewReader("1e-3 -2.5E+2 inf\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.001, tbl.Rows[0][0])
	assert.Equal(t, -250.0, tbl.Rows[0][1])
}

func TestParse_NonNumericToken(t *testing.T) {
	_, err := Parse(strings.NewReader("1 2 3\n4 oops 6\n"))
	require.Error(t, err)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Line)
	assert.Equal(t, 2, fe.Column)
	assert.Equal(t, "oops", fe.Token)
	assert.Contains(t, err.Error(), `"oops"`)
}

func TestParse_InconsistentColumns(t *testing.T) {
	_, err := Parse(strings.NewReader("1 2 3\n4 5\n"))
	require.Error(t, err)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Line)
	assert.Contains(t, fe.Message, "expected 3 columns, got 2")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader("\n# only a comment\n"))
	require.Error(t, err)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "no data rows", fe.Message)
}

func TestParse_OverlongLine(t *testing.T) {
	input := "1 0.5 0 -1 0.2\n" + strings.Repeat("1 ", maxLineBytes/2+1) + "\n"

	_, err := Parse(strings.NewReader(input))
	require.Error(t, err)

	var fe *FormatError
	require.True(t, errors.As(err, &fe), "got %T", err)
	assert.Equal(t, 2, fe.Line)
	assert.Contains(t, fe.Message, "line longer than")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestParse_ReadErrorIsNotFormatError(t *testing.T) {
	_, err := Parse(failingReader{})
	require.Error(t, err)

	var fe *FormatError
	assert.False(t, errors.As(err, &fe))
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseFile_ReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "med_L_4")
	require.NoError(t, os.WriteFile(path, []byte("0.5 1 0 -2 0.1\n"), 0o644))

	tbl, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestColumn(t *testing.T) {
	tbl := &Table{Rows: [][]float64{{1, 2}, {3, 4}}}

	col, err := tbl.Column(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, col)

	_, err = tbl.Column(2)
	assert.Error(t, err)
	_, err = tbl.Column(-1)
	assert.Error(t, err)
}

func TestWriteTo_Golden(t *testing.T) {
	tbl, err := Parse(strings.NewReader("1.0 0.9 0.0 -1.2 0.3\n2.0 0.7 0.0 -0.8 0.5\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := tbl.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "two_rows", buf.Bytes())
}

func TestWriteTo_RoundTrips(t *testing.T) {
	orig := &Table{Rows: [][]float64{{0.1494949494949495, 1e-9, -3}}}

	var buf bytes.Buffer
	_, err := orig.WriteTo(&buf)
	require.NoError(t, err)

	back, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, orig.Rows, back.Rows)
}
