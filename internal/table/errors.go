package table

import "fmt"

// FormatError reports a results file that is not a rectangular numeric table.
// Line and Column are 1-based; Column is the field index, not a byte offset.
type FormatError struct {
	Line    int
	Column  int
	Token   string
	Message string
}

func (e *FormatError) Error() string {
	switch {
	case e.Token != "":
		return fmt.Sprintf("line %d, field %d: %s: %q", e.Line, e.Column, e.Message, e.Token)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	default:
		return e.Message
	}
}
