package algebra

import (
	"strconv"

	"github.com/saneql/saneql/sql"
)

// SortEntry is one order by criterion.
type SortEntry struct {
	Value      Expression
	Collate    Collate
	Descending bool
}

// Sort orders its input and optionally restricts it to a row window.
type Sort struct {
	Input         Operator
	Order         []SortEntry
	Limit, Offset *uint64
}

func NewSort(input Operator, order []SortEntry, limit, offset *uint64) *Sort {
	return &Sort{Input: input, Order: order, Limit: limit, Offset: offset}
}

func (op *Sort) Generate(out *sql.Writer) {
	out.Write("(select * from ")
	op.Input.Generate(out)
	out.Write(" s")
	if len(op.Order) > 0 {
		out.Write(" order by ")
		for i, o := range op.Order {
			if i > 0 {
				out.Write(", ")
			}
			o.Value.Generate(out)
			if o.Descending {
				out.Write(" desc")
			}
		}
	}
	if op.Limit != nil {
		out.Write(" limit ")
		out.Write(strconv.FormatUint(*op.Limit, 10))
	}
	if op.Offset != nil {
		out.Write(" offset ")
		out.Write(strconv.FormatUint(*op.Offset, 10))
	}
	out.Write(")")
}
