package algebra

import (
	"github.com/saneql/saneql/saneql"
	"github.com/saneql/saneql/sql"
)

// Expression is a typed scalar expression that can render itself as SQL.
type Expression interface {
	ResultType() saneql.Type
	Generate(out *sql.Writer)
}

// generateOperand renders an expression in a form usable as an operand.
// IU references and constants are self-delimiting, everything else gets
// wrapped in parentheses.
func generateOperand(out *sql.Writer, e Expression) {
	switch e.(type) {
	case *IURef, *Const:
		e.Generate(out)
	default:
		out.Write("(")
		e.Generate(out)
		out.Write(")")
	}
}

// IURef references a column introduced elsewhere in the tree.
type IURef struct {
	IU *saneql.IU
}

func NewIURef(iu *saneql.IU) *IURef {
	return &IURef{IU: iu}
}

func (e *IURef) ResultType() saneql.Type { return e.IU.Type }

func (e *IURef) Generate(out *sql.Writer) {
	out.WriteIU(e.IU)
}

// Const is a typed literal. The raw value is kept in source spelling and
// rendered with an explicit cast for non-string types.
type Const struct {
	Value string
	Null  bool
	typ   saneql.Type
}

func NewConst(value string, t saneql.Type) *Const {
	return &Const{Value: value, typ: t}
}

func NewNullConst(t saneql.Type) *Const {
	return &Const{Null: true, typ: t}
}

func (e *Const) ResultType() saneql.Type { return e.typ }

func (e *Const) Generate(out *sql.Writer) {
	if e.Null {
		out.Write("NULL")
		return
	}
	if !e.typ.IsText() {
		out.Write("cast(")
		out.WriteStringLiteral(e.Value)
		out.Write(" as ")
		out.WriteType(e.typ)
		out.Write(")")
	} else {
		out.WriteStringLiteral(e.Value)
	}
}

// Cast casts its input to a target type.
type Cast struct {
	Input Expression
	typ   saneql.Type
}

func NewCast(input Expression, t saneql.Type) *Cast {
	return &Cast{Input: input, typ: t}
}

func (e *Cast) ResultType() saneql.Type { return e.typ }

func (e *Cast) Generate(out *sql.Writer) {
	out.Write("cast(")
	e.Input.Generate(out)
	out.Write(" as ")
	out.WriteType(e.typ)
	out.Write(")")
}

type ComparisonMode int

const (
	CompareEqual ComparisonMode = iota
	CompareNotEqual
	CompareIs
	CompareIsNot
	CompareLess
	CompareLessOrEqual
	CompareGreater
	CompareGreaterOrEqual
	CompareLike
)

// Comparison compares two values. Is/IsNot use the null-aware distinct
// predicates and never return NULL themselves.
type Comparison struct {
	Left, Right Expression
	Mode        ComparisonMode
	Collate     Collate
	typ         saneql.Type
}

func NewComparison(left, right Expression, mode ComparisonMode, collate Collate) *Comparison {
	nullable := mode != CompareIs && mode != CompareIsNot &&
		(left.ResultType().IsNullable() || right.ResultType().IsNullable())
	return &Comparison{
		Left:    left,
		Right:   right,
		Mode:    mode,
		Collate: collate,
		typ:     saneql.BoolType().WithNullable(nullable),
	}
}

func (e *Comparison) ResultType() saneql.Type { return e.typ }

func (e *Comparison) Generate(out *sql.Writer) {
	generateOperand(out, e.Left)
	switch e.Mode {
	case CompareEqual:
		out.Write(" = ")
	case CompareNotEqual:
		out.Write(" <> ")
	case CompareIs:
		out.Write(" is not distinct from ")
	case CompareIsNot:
		out.Write(" is distinct from ")
	case CompareLess:
		out.Write(" < ")
	case CompareLessOrEqual:
		out.Write(" <= ")
	case CompareGreater:
		out.Write(" > ")
	case CompareGreaterOrEqual:
		out.Write(" >= ")
	case CompareLike:
		out.Write(" like ")
	default:
		panic("unexhaustive comparison mode match")
	}
	generateOperand(out, e.Right)
}

// Between checks containment in an inclusive range.
type Between struct {
	Base, Lower, Upper Expression
	Collate            Collate
	typ                saneql.Type
}

func NewBetween(base, lower, upper Expression, collate Collate) *Between {
	nullable := base.ResultType().IsNullable() || lower.ResultType().IsNullable() || upper.ResultType().IsNullable()
	return &Between{Base: base, Lower: lower, Upper: upper, Collate: collate, typ: saneql.BoolType().WithNullable(nullable)}
}

func (e *Between) ResultType() saneql.Type { return e.typ }

func (e *Between) Generate(out *sql.Writer) {
	generateOperand(out, e.Base)
	out.Write(" between ")
	generateOperand(out, e.Lower)
	out.Write(" and ")
	generateOperand(out, e.Upper)
}

// In checks membership in a value list.
type In struct {
	Probe   Expression
	Values  []Expression
	Collate Collate
	typ     saneql.Type
}

func NewIn(probe Expression, values []Expression, collate Collate) *In {
	nullable := probe.ResultType().IsNullable()
	for _, v := range values {
		nullable = nullable || v.ResultType().IsNullable()
	}
	return &In{Probe: probe, Values: values, Collate: collate, typ: saneql.BoolType().WithNullable(nullable)}
}

func (e *In) ResultType() saneql.Type { return e.typ }

func (e *In) Generate(out *sql.Writer) {
	generateOperand(out, e.Probe)
	out.Write(" in (")
	for i, v := range e.Values {
		if i > 0 {
			out.Write(", ")
		}
		v.Generate(out)
	}
	out.Write(")")
}

type BinaryOp int

const (
	BinaryPlus BinaryOp = iota
	BinaryMinus
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryPower
	BinaryConcat
	BinaryAnd
	BinaryOr
)

// Binary applies an infix operation; the result type is computed by the
// analyzer.
type Binary struct {
	Left, Right Expression
	Op          BinaryOp
	typ         saneql.Type
}

func NewBinary(left, right Expression, resultType saneql.Type, op BinaryOp) *Binary {
	return &Binary{Left: left, Right: right, Op: op, typ: resultType}
}

func (e *Binary) ResultType() saneql.Type { return e.typ }

func (e *Binary) Generate(out *sql.Writer) {
	generateOperand(out, e.Left)
	switch e.Op {
	case BinaryPlus:
		out.Write(" + ")
	case BinaryMinus:
		out.Write(" - ")
	case BinaryMul:
		out.Write(" * ")
	case BinaryDiv:
		out.Write(" / ")
	case BinaryMod:
		out.Write(" % ")
	case BinaryPower:
		out.Write(" ^ ")
	case BinaryConcat:
		out.Write(" || ")
	case BinaryAnd:
		out.Write(" and ")
	case BinaryOr:
		out.Write(" or ")
	default:
		panic("unexhaustive binary operation match")
	}
	generateOperand(out, e.Right)
}

type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
)

type Unary struct {
	Input Expression
	Op    UnaryOp
	typ   saneql.Type
}

func NewUnary(input Expression, resultType saneql.Type, op UnaryOp) *Unary {
	return &Unary{Input: input, Op: op, typ: resultType}
}

func (e *Unary) ResultType() saneql.Type { return e.typ }

func (e *Unary) Generate(out *sql.Writer) {
	switch e.Op {
	case UnaryPlus:
		out.Write("+")
	case UnaryMinus:
		out.Write("-")
	case UnaryNot:
		out.Write(" not ")
	default:
		panic("unexhaustive unary operation match")
	}
	generateOperand(out, e.Input)
}

type ExtractPart int

const (
	ExtractYear ExtractPart = iota
	ExtractMonth
	ExtractDay
)

// Extract pulls a date part out of a date value.
type Extract struct {
	Input Expression
	Part  ExtractPart
	typ   saneql.Type
}

func NewExtract(input Expression, part ExtractPart) *Extract {
	return &Extract{Input: input, Part: part, typ: saneql.IntegerType().WithNullable(input.ResultType().IsNullable())}
}

func (e *Extract) ResultType() saneql.Type { return e.typ }

func (e *Extract) Generate(out *sql.Writer) {
	out.Write("extract(")
	switch e.Part {
	case ExtractYear:
		out.Write("year")
	case ExtractMonth:
		out.Write("month")
	case ExtractDay:
		out.Write("day")
	default:
		panic("unexhaustive extract part match")
	}
	out.Write(" from ")
	generateOperand(out, e.Input)
	out.Write(")")
}

// Substr extracts a substring. From and Len may be nil.
type Substr struct {
	Value, From, Len Expression
	typ              saneql.Type
}

func NewSubstr(value, from, len Expression) *Substr {
	nullable := value.ResultType().IsNullable()
	if from != nil {
		nullable = nullable || from.ResultType().IsNullable()
	}
	if len != nil {
		nullable = nullable || len.ResultType().IsNullable()
	}
	return &Substr{Value: value, From: from, Len: len, typ: value.ResultType().WithNullable(nullable)}
}

func (e *Substr) ResultType() saneql.Type { return e.typ }

func (e *Substr) Generate(out *sql.Writer) {
	out.Write("substring(")
	e.Value.Generate(out)
	if e.From != nil {
		out.Write(" from ")
		e.From.Generate(out)
	}
	if e.Len != nil {
		out.Write(" for ")
		e.Len.Generate(out)
	}
	out.Write(")")
}

// CaseEntry is one when/then pair of a case expression.
type CaseEntry struct {
	Condition Expression
	Value     Expression
}

// SimpleCase compares a value against the case conditions.
type SimpleCase struct {
	Value        Expression
	Cases        []CaseEntry
	DefaultValue Expression
}

func NewSimpleCase(value Expression, cases []CaseEntry, defaultValue Expression) *SimpleCase {
	return &SimpleCase{Value: value, Cases: cases, DefaultValue: defaultValue}
}

func (e *SimpleCase) ResultType() saneql.Type { return e.DefaultValue.ResultType() }

func (e *SimpleCase) Generate(out *sql.Writer) {
	out.Write("case ")
	generateOperand(out, e.Value)
	for _, c := range e.Cases {
		out.Write(" when ")
		c.Condition.Generate(out)
		out.Write(" then ")
		c.Value.Generate(out)
	}
	out.Write(" else ")
	e.DefaultValue.Generate(out)
	out.Write(" end")
}

// SearchedCase evaluates boolean conditions in order.
type SearchedCase struct {
	Cases        []CaseEntry
	DefaultValue Expression
}

func NewSearchedCase(cases []CaseEntry, defaultValue Expression) *SearchedCase {
	return &SearchedCase{Cases: cases, DefaultValue: defaultValue}
}

func (e *SearchedCase) ResultType() saneql.Type { return e.DefaultValue.ResultType() }

func (e *SearchedCase) Generate(out *sql.Writer) {
	out.Write("case")
	for _, c := range e.Cases {
		out.Write(" when ")
		c.Condition.Generate(out)
		out.Write(" then ")
		c.Value.Generate(out)
	}
	out.Write(" else ")
	e.DefaultValue.Generate(out)
	out.Write(" end")
}

type CallType int

const (
	CallFunction CallType = iota
	CallLeftAssocOperator
	CallRightAssocOperator
)

// ForeignCall calls a function or operator the catalog knows nothing
// about; the caller declared its result type.
type ForeignCall struct {
	Name      string
	Arguments []Expression
	CallType  CallType
	typ       saneql.Type
}

func NewForeignCall(name string, returnType saneql.Type, arguments []Expression, callType CallType) *ForeignCall {
	return &ForeignCall{Name: name, Arguments: arguments, CallType: callType, typ: returnType}
}

func (e *ForeignCall) ResultType() saneql.Type { return e.typ }

func (e *ForeignCall) Generate(out *sql.Writer) {
	switch e.CallType {
	case CallFunction:
		out.Write(e.Name)
		out.Write("(")
		for i, a := range e.Arguments {
			if i > 0 {
				out.Write(", ")
			}
			a.Generate(out)
		}
		out.Write(")")
	case CallLeftAssocOperator:
		// ((a op b) op c) op d
		for i := 0; i < len(e.Arguments)-2; i++ {
			out.Write("(")
		}
		generateOperand(out, e.Arguments[0])
		for i := 1; i < len(e.Arguments); i++ {
			out.Write(" ")
			out.Write(e.Name)
			out.Write(" ")
			generateOperand(out, e.Arguments[i])
			if i != len(e.Arguments)-1 {
				out.Write(")")
			}
		}
	case CallRightAssocOperator:
		// a op (b op (c op d))
		generateOperand(out, e.Arguments[0])
		for i := 1; i < len(e.Arguments); i++ {
			out.Write(" ")
			out.Write(e.Name)
			out.Write(" ")
			if i != len(e.Arguments)-1 {
				out.Write("(")
			}
			generateOperand(out, e.Arguments[i])
		}
		for i := 0; i < len(e.Arguments)-2; i++ {
			out.Write(")")
		}
	default:
		panic("unexhaustive call type match")
	}
}
