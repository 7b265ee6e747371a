package algebra

import (
	"github.com/saneql/saneql/sql"
)

// Select filters its input by a condition.
type Select struct {
	Input     Operator
	Condition Expression
}

func NewSelect(input Operator, condition Expression) *Select {
	return &Select{Input: input, Condition: condition}
}

func (op *Select) Generate(out *sql.Writer) {
	out.Write("(select * from ")
	op.Input.Generate(out)
	out.Write(" s where ")
	op.Condition.Generate(out)
	out.Write(")")
}
