package schema

import (
	"github.com/saneql/saneql/saneql"
)

// Column is a named, typed table column.
type Column struct {
	Name string
	Type saneql.Type
}

// Table is a catalog table.
type Table struct {
	Columns []Column
}

// Schema is the table catalog queries compile against.
type Schema struct {
	tables map[string]Table
}

func New() *Schema {
	return &Schema{tables: map[string]Table{}}
}

// CreateTable adds a table to the catalog, replacing any previous
// definition with the same name.
func (s *Schema) CreateTable(name string, columns []Column) {
	s.tables[name] = Table{Columns: append([]Column(nil), columns...)}
}

// LookupTable finds a table by name.
func (s *Schema) LookupTable(name string) (*Table, bool) {
	t, ok := s.tables[name]
	if !ok {
		return nil, false
	}
	return &t, true
}

// TableNames returns the catalog table names in unspecified order.
func (s *Schema) TableNames() []string {
	out := make([]string, 0, len(s.tables))
	for name := range s.tables {
		out = append(out, name)
	}
	return out
}
