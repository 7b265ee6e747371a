package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saneql/saneql/saneql"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		text string
		typ  saneql.Type
	}{
		{"integer", saneql.IntegerType()},
		{"int", saneql.IntegerType()},
		{"boolean", saneql.BoolType()},
		{"bool", saneql.BoolType()},
		{"text", saneql.TextType()},
		{"date", saneql.DateType()},
		{"interval", saneql.IntervalType()},
		{"char(25)", saneql.CharType(25)},
		{"varchar(152)", saneql.VarcharType(152)},
		{"decimal(12,2)", saneql.DecimalType(12, 2)},
		{"numeric(12, 2)", saneql.DecimalType(12, 2)},
		{"DECIMAL(12,2)", saneql.DecimalType(12, 2)},
		{"integer null", saneql.IntegerType().AsNullable()},
		{"varchar(55) null", saneql.VarcharType(55).AsNullable()},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			typ, err := ParseType(test.text)
			require.NoError(t, err)
			assert.Equal(t, test.typ, typ)
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	tests := []struct {
		text string
		err  string
	}{
		{"money", "unknown type 'money'"},
		{"char(25", "malformed type 'char(25'"},
		{"integer(5)", "type 'integer' takes no arguments"},
		{"decimal(12)", "malformed type 'decimal(12)': expected 2 argument(s)"},
		{"char(abc)", "malformed type 'char(abc)': invalid argument 'abc'"},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			_, err := ParseType(test.text)
			require.Error(t, err)
			assert.Equal(t, test.err, err.Error())
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
cities:
  - name: city
    type: text
  - name: population
    type: integer null
`), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	table, ok := s.LookupTable("cities")
	require.True(t, ok)
	require.Len(t, table.Columns, 2)
	assert.Equal(t, "city", table.Columns[0].Name)
	assert.Equal(t, saneql.TextType(), table.Columns[0].Type)
	assert.Equal(t, "population", table.Columns[1].Name)
	assert.Equal(t, saneql.IntegerType().AsNullable(), table.Columns[1].Type)

	_, ok = s.LookupTable("nation")
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "schema.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
cities:
  - name: city
    type: money
`), 0644))
	_, err = Load(path)
	require.Error(t, err)
	assert.Equal(t, "couldn't parse type of column 'cities.city': unknown type 'money'", err.Error())
}

func TestTPCH(t *testing.T) {
	s := TPCH()
	for _, name := range []string{"part", "supplier", "partsupp", "customer", "orders", "lineitem", "nation", "region"} {
		_, ok := s.LookupTable(name)
		assert.True(t, ok, name)
	}

	lineitem, _ := s.LookupTable("lineitem")
	assert.Len(t, lineitem.Columns, 16)
	nation, _ := s.LookupTable("nation")
	require.Len(t, nation.Columns, 4)
	assert.Equal(t, "n_name", nation.Columns[1].Name)
	assert.Equal(t, saneql.CharType(25), nation.Columns[1].Type)
}
