package sql

import (
	"fmt"
	"strings"

	"github.com/saneql/saneql/saneql"
)

// Writer collects generated SQL text and assigns names to IUs on first
// reference.
type Writer struct {
	out     strings.Builder
	iuNames map[*saneql.IU]string
}

func NewWriter() *Writer {
	return &Writer{iuNames: map[*saneql.IU]string{}}
}

// Write appends raw SQL text.
func (w *Writer) Write(s string) {
	w.out.WriteString(s)
}

// WriteIdentifier appends a quoted identifier.
func (w *Writer) WriteIdentifier(s string) {
	w.out.WriteByte('"')
	w.out.WriteString(strings.ReplaceAll(s, `"`, `""`))
	w.out.WriteByte('"')
}

// WriteIU appends the name of an IU, assigning v_1, v_2, ... on first
// reference.
func (w *Writer) WriteIU(iu *saneql.IU) {
	name, ok := w.iuNames[iu]
	if !ok {
		name = fmt.Sprintf("v_%d", len(w.iuNames)+1)
		w.iuNames[iu] = name
	}
	w.out.WriteString(name)
}

// WriteStringLiteral appends a quoted SQL string literal.
func (w *Writer) WriteStringLiteral(s string) {
	w.out.WriteByte('\'')
	w.out.WriteString(strings.ReplaceAll(s, "'", "''"))
	w.out.WriteByte('\'')
}

// WriteType appends the SQL spelling of a type.
func (w *Writer) WriteType(t saneql.Type) {
	switch t.Tag() {
	case saneql.TagUnknown:
		w.out.WriteString("unknown")
	case saneql.TagBool:
		w.out.WriteString("boolean")
	case saneql.TagInteger:
		w.out.WriteString("integer")
	case saneql.TagDecimal:
		fmt.Fprintf(&w.out, "decimal(%d,%d)", t.Precision(), t.Scale())
	case saneql.TagChar:
		fmt.Fprintf(&w.out, "char(%d)", t.Length())
	case saneql.TagVarchar:
		fmt.Fprintf(&w.out, "varchar(%d)", t.Length())
	case saneql.TagText:
		w.out.WriteString("text")
	case saneql.TagDate:
		w.out.WriteString("date")
	case saneql.TagInterval:
		w.out.WriteString("interval")
	default:
		panic("unexhaustive type tag match")
	}
}

// String returns the SQL generated so far.
func (w *Writer) String() string {
	return w.out.String()
}

// Take returns the text generated so far and clears the buffer. IU names
// stay assigned, so later output keeps referring to the same columns.
func (w *Writer) Take() string {
	s := w.out.String()
	w.out.Reset()
	return s
}

// IsSimpleIdentifier reports whether an identifier can be emitted without
// quotes.
func IsSimpleIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
