package schema

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/saneql/saneql/saneql"
)

type yamlColumn struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Load reads a catalog from a YAML file. The file maps table names to
// column lists:
//
//	nation:
//	  - name: n_nationkey
//	    type: integer
//	  - name: n_name
//	    type: char(25)
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read schema file")
	}
	var raw map[string][]yamlColumn
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "couldn't parse schema file")
	}
	s := New()
	for tableName, rawColumns := range raw {
		columns := make([]Column, len(rawColumns))
		for i, c := range rawColumns {
			t, err := ParseType(c.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't parse type of column '%s.%s'", tableName, c.Name)
			}
			columns[i] = Column{Name: c.Name, Type: t}
		}
		s.CreateTable(tableName, columns)
	}
	return s, nil
}

// ParseType parses a SQL-style type string like "integer", "char(25)",
// "decimal(12,2)" or "varchar(55) null".
func ParseType(text string) (saneql.Type, error) {
	text = strings.TrimSpace(strings.ToLower(text))
	nullable := false
	if strings.HasSuffix(text, " null") {
		nullable = true
		text = strings.TrimSpace(strings.TrimSuffix(text, " null"))
	}
	name, args := text, ""
	if open := strings.IndexByte(text, '('); open >= 0 {
		if !strings.HasSuffix(text, ")") {
			return saneql.Type{}, errors.Errorf("malformed type '%s'", text)
		}
		name = strings.TrimSpace(text[:open])
		args = text[open+1 : len(text)-1]
	}

	var result saneql.Type
	switch name {
	case "boolean", "bool":
		result = saneql.BoolType()
	case "integer", "int":
		result = saneql.IntegerType()
	case "text":
		result = saneql.TextType()
	case "date":
		result = saneql.DateType()
	case "interval":
		result = saneql.IntervalType()
	case "char":
		n, err := parseTypeArgs(args, 1)
		if err != nil {
			return saneql.Type{}, errors.Wrapf(err, "malformed type '%s'", text)
		}
		result = saneql.CharType(n[0])
	case "varchar":
		n, err := parseTypeArgs(args, 1)
		if err != nil {
			return saneql.Type{}, errors.Wrapf(err, "malformed type '%s'", text)
		}
		result = saneql.VarcharType(n[0])
	case "decimal", "numeric":
		n, err := parseTypeArgs(args, 2)
		if err != nil {
			return saneql.Type{}, errors.Wrapf(err, "malformed type '%s'", text)
		}
		result = saneql.DecimalType(n[0], n[1])
	default:
		return saneql.Type{}, errors.Errorf("unknown type '%s'", name)
	}
	if args != "" && name != "char" && name != "varchar" && name != "decimal" && name != "numeric" {
		return saneql.Type{}, errors.Errorf("type '%s' takes no arguments", name)
	}
	return result.WithNullable(nullable), nil
}

func parseTypeArgs(args string, count int) ([]int, error) {
	parts := strings.Split(args, ",")
	if len(parts) != count {
		return nil, errors.Errorf("expected %d argument(s)", count)
	}
	out := make([]int, count)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, errors.Errorf("invalid argument '%s'", strings.TrimSpace(part))
		}
		out[i] = n
	}
	return out, nil
}
