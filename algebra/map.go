package algebra

import (
	"github.com/saneql/saneql/sql"
)

// Map adds computed columns to its input.
type Map struct {
	Input        Operator
	Computations []Entry
}

func NewMap(input Operator, computations []Entry) *Map {
	return &Map{Input: input, Computations: computations}
}

func (op *Map) Generate(out *sql.Writer) {
	out.Write("(select *")
	for _, c := range op.Computations {
		out.Write(", ")
		c.Value.Generate(out)
		out.Write(" as ")
		out.WriteIU(c.IU)
	}
	out.Write(" from ")
	op.Input.Generate(out)
	out.Write(" s)")
}
