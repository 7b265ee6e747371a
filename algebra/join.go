package algebra

import (
	"github.com/saneql/saneql/sql"
)

type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeftOuter
	JoinRightOuter
	JoinFullOuter
	JoinLeftSemi
	JoinRightSemi
	JoinLeftAnti
	JoinRightAnti
)

// Join combines two inputs. Semi and anti joins render as correlated
// exists subqueries because they only keep one side's columns.
type Join struct {
	Left, Right Operator
	Condition   Expression
	JoinType    JoinType
}

func NewJoin(left, right Operator, condition Expression, joinType JoinType) *Join {
	return &Join{Left: left, Right: right, Condition: condition, JoinType: joinType}
}

func (op *Join) Generate(out *sql.Writer) {
	switch op.JoinType {
	case JoinInner:
		op.generatePlain(out, "inner join")
	case JoinLeftOuter:
		op.generatePlain(out, "left outer join")
	case JoinRightOuter:
		op.generatePlain(out, "right outer join")
	case JoinFullOuter:
		op.generatePlain(out, "full outer join")
	case JoinLeftSemi:
		op.generateExists(out, op.Left, "l", op.Right, "r", false)
	case JoinRightSemi:
		op.generateExists(out, op.Right, "r", op.Left, "l", false)
	case JoinLeftAnti:
		op.generateExists(out, op.Left, "l", op.Right, "r", true)
	case JoinRightAnti:
		op.generateExists(out, op.Right, "r", op.Left, "l", true)
	default:
		panic("unexhaustive join type match")
	}
}

func (op *Join) generatePlain(out *sql.Writer, keyword string) {
	out.Write("(select * from ")
	op.Left.Generate(out)
	out.Write(" l ")
	out.Write(keyword)
	out.Write(" ")
	op.Right.Generate(out)
	out.Write(" r on ")
	op.Condition.Generate(out)
	out.Write(")")
}

func (op *Join) generateExists(out *sql.Writer, keep Operator, keepAlias string, other Operator, otherAlias string, anti bool) {
	out.Write("(select * from ")
	keep.Generate(out)
	out.Write(" ")
	out.Write(keepAlias)
	if anti {
		out.Write(" where not exists(select * from ")
	} else {
		out.Write(" where exists(select * from ")
	}
	other.Generate(out)
	out.Write(" ")
	out.Write(otherAlias)
	out.Write(" where ")
	op.Condition.Generate(out)
	out.Write("))")
}
