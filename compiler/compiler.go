package compiler

import (
	"strconv"
	"strings"

	"github.com/saneql/saneql/algebra"
	"github.com/saneql/saneql/parser"
	"github.com/saneql/saneql/schema"
	"github.com/saneql/saneql/semantic"
	"github.com/saneql/saneql/sql"
)

// Result is a compiled query: the generated SQL plus the analyzed form
// for inspection.
type Result struct {
	SQL      string
	IsScalar bool
	Columns  []semantic.Column
	Table    algebra.Operator
	Scalar   algebra.Expression
}

// Compile translates a query into a single SQL statement against the
// given schema.
func Compile(s *schema.Schema, query string) (*Result, error) {
	parsed, err := parser.Parse(query)
	if err != nil {
		return nil, err
	}
	analysis := semantic.NewAnalysis(s)
	result, err := analysis.AnalyzeQuery(parsed)
	if err != nil {
		return nil, err
	}

	out := sql.NewWriter()
	if result.IsScalar() {
		out.Write("select ")
		result.Scalar().Generate(out)
		return &Result{SQL: out.String(), IsScalar: true, Scalar: result.Scalar()}, nil
	}

	// An outermost sort becomes the order by of the final select, which
	// keeps the result order observable.
	tree := result.Table()
	var sort *algebra.Sort
	if top, ok := tree.(*algebra.Sort); ok {
		sort = top
		tree = top.Input
	}

	out.Write("select ")
	columns := result.Binding().Columns()
	first := true
	for _, c := range columns {
		// Generated symbols stay internal.
		if strings.HasPrefix(c.Name, " ") {
			continue
		}
		if !first {
			out.Write(", ")
		}
		first = false
		out.WriteIU(c.IU)
		out.Write(" as ")
		if sql.IsSimpleIdentifier(c.Name) {
			out.Write(c.Name)
		} else {
			out.WriteIdentifier(c.Name)
		}
	}
	if first {
		out.Write("*")
	}
	out.Write(" from ")
	tree.Generate(out)
	out.Write(" s")
	if sort != nil {
		if len(sort.Order) > 0 {
			out.Write(" order by ")
			for i, o := range sort.Order {
				if i > 0 {
					out.Write(", ")
				}
				o.Value.Generate(out)
				if o.Descending {
					out.Write(" desc")
				}
			}
		}
		if sort.Limit != nil {
			out.Write(" limit ")
			out.Write(strconv.FormatUint(*sort.Limit, 10))
		}
		if sort.Offset != nil {
			out.Write(" offset ")
			out.Write(strconv.FormatUint(*sort.Offset, 10))
		}
	}
	return &Result{SQL: out.String(), Columns: columns, Table: result.Table()}, nil
}
