package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saneql/saneql/ast"
)

func TestParsePipeline(t *testing.T) {
	query, err := Parse("lineitem.filter(l_shipdate < '1998-09-02').groupby({l_returnflag}, {count: count()})")
	require.NoError(t, err)
	assert.Empty(t, query.Lets)

	call, ok := query.Body.(*ast.Call)
	require.True(t, ok)
	access, ok := call.Func.(*ast.Access)
	require.True(t, ok)
	assert.Equal(t, "groupby", access.Part.AsString())
	require.Len(t, call.Args, 2)
	assert.Nil(t, call.Args[0].Name)
	assert.Nil(t, call.Args[1].Name)

	inner, ok := access.Base.(*ast.Call)
	require.True(t, ok)
	innerAccess, ok := inner.Func.(*ast.Access)
	require.True(t, ok)
	assert.Equal(t, "filter", innerAccess.Part.AsString())
	base, ok := innerAccess.Base.(*ast.Token)
	require.True(t, ok)
	assert.Equal(t, "lineitem", base.AsString())

	require.Len(t, inner.Args, 1)
	cmp, ok := inner.Args[0].Value.(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, ast.BinaryLess, cmp.Op)
	lit, ok := cmp.Right.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.LiteralString, lit.Kind)
	assert.Equal(t, "1998-09-02", lit.Value)
}

func TestParseLets(t *testing.T) {
	query, err := Parse(`
let cheap := 10,
let pricey(item, markup := 2) := item * markup,
pricey(cheap)`)
	require.NoError(t, err)
	require.Len(t, query.Lets, 2)

	assert.Equal(t, "cheap", query.Lets[0].Name.AsString())
	assert.Nil(t, query.Lets[0].Args)

	fn := query.Lets[1]
	assert.Equal(t, "pricey", fn.Name.AsString())
	require.Len(t, fn.Args, 2)
	assert.Equal(t, "item", fn.Args[0].Name.AsString())
	assert.Nil(t, fn.Args[0].Default)
	assert.Equal(t, "markup", fn.Args[1].Name.AsString())
	assert.NotNil(t, fn.Args[1].Default)

	call, ok := query.Body.(*ast.Call)
	require.True(t, ok)
	name, ok := call.Func.(*ast.Token)
	require.True(t, ok)
	assert.Equal(t, "pricey", name.AsString())
}

func TestParseLetArgTypes(t *testing.T) {
	query, err := Parse("let double(input: table) := input, double(nation)")
	require.NoError(t, err)
	require.Len(t, query.Lets, 1)
	require.Len(t, query.Lets[0].Args, 1)
	assert.Equal(t, "table", query.Lets[0].Args[0].Type.AsString())
}

func TestParseNamedArguments(t *testing.T) {
	query, err := Parse("orders.orderby({o_orderdate}, limit := 10, offset := 2)")
	require.NoError(t, err)
	call, ok := query.Body.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 3)
	assert.Nil(t, call.Args[0].Name)
	assert.Equal(t, "limit", call.Args[1].Name.AsString())
	assert.Equal(t, "offset", call.Args[2].Name.AsString())
}

func TestParseLists(t *testing.T) {
	query, err := Parse("nation.map({doubled: n_nationkey * 2, n_name})")
	require.NoError(t, err)
	call := query.Body.(*ast.Call)
	list, ok := call.Args[0].Value.(*ast.List)
	require.True(t, ok)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "doubled", list.Entries[0].Name.AsString())
	assert.Nil(t, list.Entries[0].Case)
	assert.Nil(t, list.Entries[1].Name)
}

func TestParseCaseEntries(t *testing.T) {
	query, err := Parse("x.case({1 => 'one', 2 => 'two'}, else := 'many')")
	require.NoError(t, err)
	call := query.Body.(*ast.Call)
	list, ok := call.Args[0].Value.(*ast.List)
	require.True(t, ok)
	require.Len(t, list.Entries, 2)
	assert.NotNil(t, list.Entries[0].Case)
	assert.NotNil(t, list.Entries[0].Value)
	assert.Equal(t, "else", call.Args[1].Name.AsString())
}

func TestParseCast(t *testing.T) {
	query, err := Parse("'1998-09-02'::date")
	require.NoError(t, err)
	cast, ok := query.Body.(*ast.Cast)
	require.True(t, ok)
	assert.Equal(t, "date", cast.Type.Name.AsString())
	lit, ok := cast.Value.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.LiteralString, lit.Kind)
}

func TestParsePrecedence(t *testing.T) {
	query, err := Parse("1 + 2 * 3 = 7 && true || false")
	require.NoError(t, err)

	or, ok := query.Body.(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, ast.BinaryOr, or.Op)
	and, ok := or.Left.(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, ast.BinaryAnd, and.Op)
	eq, ok := and.Left.(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, ast.BinaryEquals, eq.Op)
	plus, ok := eq.Left.(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, ast.BinaryPlus, plus.Op)
	mul, ok := plus.Right.(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, ast.BinaryMul, mul.Op)
}

func TestParsePowerRightAssociative(t *testing.T) {
	query, err := Parse("2 ^ 3 ^ 4")
	require.NoError(t, err)
	outer, ok := query.Body.(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, ast.BinaryPower, outer.Op)
	_, ok = outer.Left.(*ast.Literal)
	assert.True(t, ok)
	inner, ok := outer.Right.(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, ast.BinaryPower, inner.Op)
}

func TestParseUnary(t *testing.T) {
	query, err := Parse("-2 + !flag")
	require.NoError(t, err)
	plus := query.Body.(*ast.BinaryExpression)
	neg, ok := plus.Left.(*ast.UnaryExpression)
	require.True(t, ok)
	assert.Equal(t, ast.UnaryMinus, neg.Op)
	not, ok := plus.Right.(*ast.UnaryExpression)
	require.True(t, ok)
	assert.Equal(t, ast.UnaryNot, not.Op)
}

func TestParseQuotedIdentifier(t *testing.T) {
	query, err := Parse(`nation.map({"Mixed Case": n_name})`)
	require.NoError(t, err)
	call := query.Body.(*ast.Call)
	list := call.Args[0].Value.(*ast.List)
	assert.Equal(t, ast.EncodingIdentifierLiteral, list.Entries[0].Name.Encoding)
	assert.Equal(t, "Mixed Case", list.Entries[0].Name.AsString())
}

func TestParseComments(t *testing.T) {
	query, err := Parse(`
-- leading comment
nation /* inline */ .filter(true)`)
	require.NoError(t, err)
	_, ok := query.Body.(*ast.Call)
	assert.True(t, ok)
}

func TestParseStringEscapes(t *testing.T) {
	query, err := Parse("'it''s'")
	require.NoError(t, err)
	lit := query.Body.(*ast.Literal)
	assert.Equal(t, "it's", lit.Value)
}

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.LiteralKind
	}{
		{"42", ast.LiteralInteger},
		{"4.2", ast.LiteralFloat},
		{"1e10", ast.LiteralFloat},
		{"2.5e-3", ast.LiteralFloat},
	}
	for _, test := range tests {
		query, err := Parse(test.input)
		require.NoError(t, err, test.input)
		lit, ok := query.Body.(*ast.Literal)
		require.True(t, ok, test.input)
		assert.Equal(t, test.kind, lit.Kind, test.input)
		assert.Equal(t, test.input, lit.Value, test.input)
	}
}

func TestParseDefun(t *testing.T) {
	query, err := Parse("defun taxed(rate) := l_extendedprice * rate")
	require.NoError(t, err)
	def, ok := query.Body.(*ast.DefineFunction)
	require.True(t, ok)
	assert.Equal(t, "taxed", def.Name.AsString())
	require.Len(t, def.Args, 1)
	assert.NotNil(t, def.Body)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		err   string
	}{
		{"", "1:1: expected expression, got end of input"},
		{"nation.filter(", "1:15: expected expression, got end of input"},
		{"nation.filter(true", "1:19: expected ')', got end of input"},
		{"nation.", "1:8: expected member name, got end of input"},
		{"let := 1, nation", "1:5: expected let name, got ':='"},
		{"let x 1, nation", "1:7: expected ':=', got '1'"},
		{"nation extra", "1:8: expected end of input, got 'extra'"},
		{"nation.map({a: })", "1:16: expected expression, got '}'"},
		{"1 ::", "1:5: expected type name, got end of input"},
		{"'open", "1:1: unterminated string literal"},
		{"/* open", "1:1: unterminated block comment"},
		{"a ? b", "1:3: unexpected character \"?\""},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			_, err := Parse(test.input)
			require.Error(t, err)
			assert.Equal(t, test.err, err.Error())
		})
	}
}
