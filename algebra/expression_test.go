package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saneql/saneql/saneql"
	"github.com/saneql/saneql/sql"
)

func generate(e Expression) string {
	out := sql.NewWriter()
	e.Generate(out)
	return out.String()
}

func intConst(value string) *Const {
	return NewConst(value, saneql.IntegerType())
}

func TestConstGenerate(t *testing.T) {
	assert.Equal(t, "cast('42' as integer)", generate(intConst("42")))
	assert.Equal(t, "'it''s'", generate(NewConst("it's", saneql.TextType())))
	assert.Equal(t, "NULL", generate(NewNullConst(saneql.TextType().AsNullable())))
	assert.Equal(t, "cast('4.25' as decimal(3,2))", generate(NewConst("4.25", saneql.DecimalType(3, 2))))
}

func TestCastGenerate(t *testing.T) {
	cast := NewCast(NewConst("1998-09-02", saneql.TextType()), saneql.DateType())
	assert.Equal(t, "cast('1998-09-02' as date)", generate(cast))
	assert.Equal(t, saneql.DateType(), cast.ResultType())
}

func TestComparisonGenerate(t *testing.T) {
	tests := []struct {
		mode ComparisonMode
		sql  string
	}{
		{CompareEqual, "cast('1' as integer) = cast('2' as integer)"},
		{CompareNotEqual, "cast('1' as integer) <> cast('2' as integer)"},
		{CompareIs, "cast('1' as integer) is not distinct from cast('2' as integer)"},
		{CompareIsNot, "cast('1' as integer) is distinct from cast('2' as integer)"},
		{CompareLess, "cast('1' as integer) < cast('2' as integer)"},
		{CompareLessOrEqual, "cast('1' as integer) <= cast('2' as integer)"},
		{CompareGreater, "cast('1' as integer) > cast('2' as integer)"},
		{CompareGreaterOrEqual, "cast('1' as integer) >= cast('2' as integer)"},
	}
	for _, test := range tests {
		t.Run(test.sql, func(t *testing.T) {
			cmp := NewComparison(intConst("1"), intConst("2"), test.mode, CollateNone)
			assert.Equal(t, test.sql, generate(cmp))
			assert.Equal(t, saneql.BoolType(), cmp.ResultType())
		})
	}
}

func TestComparisonNullability(t *testing.T) {
	nullable := NewIURef(saneql.NewIU(saneql.IntegerType().AsNullable()))
	cmp := NewComparison(nullable, intConst("1"), CompareEqual, CollateNone)
	assert.True(t, cmp.ResultType().IsNullable())

	is := NewComparison(nullable, intConst("1"), CompareIs, CollateNone)
	assert.False(t, is.ResultType().IsNullable())
}

func TestBinaryOperandParentheses(t *testing.T) {
	sum := NewBinary(intConst("1"), intConst("2"), saneql.IntegerType(), BinaryPlus)
	product := NewBinary(sum, intConst("3"), saneql.IntegerType(), BinaryMul)
	assert.Equal(t, "(cast('1' as integer) + cast('2' as integer)) * cast('3' as integer)", generate(product))
}

func TestBetweenGenerate(t *testing.T) {
	between := NewBetween(intConst("5"), intConst("1"), intConst("10"), CollateNone)
	assert.Equal(t, "cast('5' as integer) between cast('1' as integer) and cast('10' as integer)", generate(between))
}

func TestInGenerate(t *testing.T) {
	in := NewIn(intConst("1"), []Expression{intConst("1"), intConst("2")}, CollateNone)
	assert.Equal(t, "cast('1' as integer) in (cast('1' as integer), cast('2' as integer))", generate(in))
}

func TestExtractGenerate(t *testing.T) {
	date := NewCast(NewConst("1998-09-02", saneql.TextType()), saneql.DateType())
	assert.Equal(t, "extract(year from (cast('1998-09-02' as date)))", generate(NewExtract(date, ExtractYear)))
	assert.Equal(t, "extract(month from (cast('1998-09-02' as date)))", generate(NewExtract(date, ExtractMonth)))
}

func TestSubstrGenerate(t *testing.T) {
	s := NewSubstr(NewConst("hello", saneql.TextType()), intConst("2"), intConst("3"))
	assert.Equal(t, "substring('hello' from cast('2' as integer) for cast('3' as integer))", generate(s))

	noLen := NewSubstr(NewConst("hello", saneql.TextType()), intConst("2"), nil)
	assert.Equal(t, "substring('hello' from cast('2' as integer))", generate(noLen))
}

func TestCaseGenerate(t *testing.T) {
	cond := NewComparison(intConst("1"), intConst("1"), CompareEqual, CollateNone)
	searched := NewSearchedCase(
		[]CaseEntry{{Condition: cond, Value: NewConst("one", saneql.TextType())}},
		NewConst("many", saneql.TextType()))
	assert.Equal(t,
		"case when cast('1' as integer) = cast('1' as integer) then 'one' else 'many' end",
		generate(searched))

	simple := NewSimpleCase(intConst("2"),
		[]CaseEntry{{Condition: intConst("1"), Value: NewConst("one", saneql.TextType())}},
		NewConst("many", saneql.TextType()))
	assert.Equal(t,
		"case cast('2' as integer) when cast('1' as integer) then 'one' else 'many' end",
		generate(simple))
}

func TestForeignCallGenerate(t *testing.T) {
	args := []Expression{intConst("7"), intConst("3")}
	call := NewForeignCall("mod", saneql.IntegerType(), args, CallFunction)
	assert.Equal(t, "mod(cast('7' as integer), cast('3' as integer))", generate(call))

	texts := []Expression{
		NewConst("a", saneql.TextType()),
		NewConst("b", saneql.TextType()),
		NewConst("c", saneql.TextType()),
	}
	left := NewForeignCall("||", saneql.TextType(), texts, CallLeftAssocOperator)
	assert.Equal(t, "('a' || 'b') || 'c'", generate(left))
	right := NewForeignCall("||", saneql.TextType(), texts, CallRightAssocOperator)
	assert.Equal(t, "'a' || ('b' || 'c')", generate(right))
}

func TestTableScanGenerate(t *testing.T) {
	key := saneql.NewIU(saneql.IntegerType())
	name := saneql.NewIU(saneql.CharType(25))
	scan := NewTableScan("nation", []TableScanColumn{
		{Name: "n_nationkey", IU: key},
		{Name: "n_name", IU: name},
	})
	out := sql.NewWriter()
	scan.Generate(out)
	assert.Equal(t, `(select "n_nationkey" as v_1, "n_name" as v_2 from "nation")`, out.String())
}

func TestSelectGenerate(t *testing.T) {
	key := saneql.NewIU(saneql.IntegerType())
	scan := NewTableScan("region", []TableScanColumn{{Name: "r_regionkey", IU: key}})
	filter := NewSelect(scan, NewComparison(NewIURef(key), intConst("1"), CompareEqual, CollateNone))
	out := sql.NewWriter()
	filter.Generate(out)
	assert.Equal(t,
		`(select * from (select "r_regionkey" as v_1 from "region") s where v_1 = cast('1' as integer))`,
		out.String())
}
