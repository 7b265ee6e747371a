package semantic

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/saneql/saneql/algebra"
	"github.com/saneql/saneql/ast"
	"github.com/saneql/saneql/saneql"
	"github.com/saneql/saneql/schema"
)

// ExpressionResult is the outcome of analyzing one expression: either a
// scalar expression with ordering information or an operator tree with
// its column bindings.
type ExpressionResult struct {
	expr     algebra.Expression
	ordering OrderingInfo
	op       algebra.Operator
	binding  *BindingInfo
}

func scalarResult(expr algebra.Expression, ordering OrderingInfo) *ExpressionResult {
	return &ExpressionResult{expr: expr, ordering: ordering}
}

func tableResult(op algebra.Operator, binding *BindingInfo) *ExpressionResult {
	return &ExpressionResult{op: op, binding: binding}
}

// IsScalar reports whether the result is a scalar expression.
func (r *ExpressionResult) IsScalar() bool { return r.op == nil }

// IsTable reports whether the result is a table.
func (r *ExpressionResult) IsTable() bool { return r.op != nil }

// Scalar returns the scalar expression tree.
func (r *ExpressionResult) Scalar() algebra.Expression { return r.expr }

// Table returns the operator tree.
func (r *ExpressionResult) Table() algebra.Operator { return r.op }

// Binding returns the column bindings of a table result.
func (r *ExpressionResult) Binding() *BindingInfo { return r.binding }

// Ordering returns the ordering info of a scalar result.
func (r *ExpressionResult) Ordering() OrderingInfo { return r.ordering }

// letInfo describes a user-defined function.
type letInfo struct {
	signature     *signature
	defaultValues []ast.Expression
	body          ast.Expression
}

// Analysis holds the state of one compilation: the schema, the
// registered lets and the symbol generator.
type Analysis struct {
	schema *schema.Schema

	lets          []letInfo
	letLookup     map[string]int
	letScopeLimit int
	nextSymbolID  int
}

// NewAnalysis creates an analyzer over the given schema.
func NewAnalysis(s *schema.Schema) *Analysis {
	return &Analysis{
		schema:        s,
		letLookup:     make(map[string]int),
		letScopeLimit: int(^uint(0) >> 1),
		nextSymbolID:  1,
	}
}

// getInternalName maps a user-visible name to its lookup key. Names with
// a leading space are reserved for generated symbols; bit stuffing keeps
// user names out of that namespace.
func getInternalName(name string) string {
	if strings.HasPrefix(name, " ") {
		return " " + name
	}
	return name
}

// extractString reads the decoded spelling of a token.
func extractString(tok *ast.Token) string {
	return tok.AsString()
}

// extractRawSymbol reads a symbol name without argument substitution.
func extractRawSymbol(tok *ast.Token) string {
	return getInternalName(tok.AsString())
}

// extractSymbol resolves a symbol, substituting bound symbol arguments
// and expanding gensym calls.
func (a *Analysis) extractSymbol(scope *BindingInfo, exp ast.Expression) (string, error) {
	if sym, ok, err := a.recognizeGensym(exp); err != nil {
		return "", err
	} else if ok {
		return sym, nil
	}
	tok, ok := exp.(*ast.Token)
	if !ok {
		return "", errors.New("symbol expected")
	}
	name := extractRawSymbol(tok)
	if scope != nil {
		if info, ok := scope.lookupArgument(name); ok && info.kind == argumentSymbol {
			return info.symbol, nil
		}
	}
	return name, nil
}

// recognizeGensym detects gensym calls in symbol position and mints a
// fresh name for them.
func (a *Analysis) recognizeGensym(exp ast.Expression) (string, bool, error) {
	call, ok := exp.(*ast.Call)
	if !ok {
		return "", false, nil
	}
	tok, ok := call.Func.(*ast.Token)
	if !ok || tok.AsString() != "gensym" {
		return "", false, nil
	}
	name := "sym"
	if len(call.Args) > 1 {
		return "", false, errors.New("too many parameters in call to 'gensym'")
	}
	if len(call.Args) == 1 {
		arg := call.Args[0]
		if arg.Name != nil && arg.Name.AsString() != "name" {
			return "", false, errors.Errorf("parameter '%s' not found in call to 'gensym'", arg.Name.AsString())
		}
		switch v := arg.Value.(type) {
		case *ast.Token:
			name = v.AsString()
		case *ast.Literal:
			if v.Kind != ast.LiteralString {
				return "", false, errors.New("parameter 'name' requires a symbol in call to 'gensym'")
			}
			name = v.Value
		default:
			return "", false, errors.New("parameter 'name' requires a symbol in call to 'gensym'")
		}
	}
	sym := " " + name + " " + strconv.Itoa(a.nextSymbolID)
	a.nextSymbolID++
	return sym, true, nil
}

// AnalyzeQuery analyzes a parsed query and returns its result.
func (a *Analysis) AnalyzeQuery(query *ast.QueryBody) (*ExpressionResult, error) {
	for _, l := range query.Lets {
		if err := a.analyzeLet(l); err != nil {
			return nil, err
		}
	}
	return a.analyzeExpression(newBinding(), query.Body)
}

// analyzeExpression dispatches over the expression forms.
func (a *Analysis) analyzeExpression(scope *BindingInfo, exp ast.Expression) (*ExpressionResult, error) {
	switch e := exp.(type) {
	case *ast.Access:
		return a.analyzeAccess(scope, e)
	case *ast.BinaryExpression:
		return a.analyzeBinaryExpression(scope, e)
	case *ast.Call:
		return a.analyzeCall(scope, e)
	case *ast.Cast:
		return a.analyzeCast(scope, e)
	case *ast.Literal:
		return a.analyzeLiteral(e)
	case *ast.Token:
		return a.analyzeToken(scope, e)
	case *ast.UnaryExpression:
		return a.analyzeUnaryExpression(scope, e)
	case *ast.DefineFunction:
		return nil, errors.New("defun not implemented yet")
	default:
		return nil, errors.New("invalid AST")
	}
}

// analyzeLiteral types a literal constant.
func (a *Analysis) analyzeLiteral(literal *ast.Literal) (*ExpressionResult, error) {
	var exp algebra.Expression
	switch literal.Kind {
	case ast.LiteralInteger:
		exp = algebra.NewConst(literal.Value, saneql.IntegerType())
	case ast.LiteralFloat:
		t, err := decimalTypeFor(literal.Value)
		if err != nil {
			return nil, err
		}
		exp = algebra.NewConst(literal.Value, t)
	case ast.LiteralString:
		exp = algebra.NewConst(literal.Value, saneql.TextType())
	case ast.LiteralTrue:
		exp = algebra.NewConst("true", saneql.BoolType())
	case ast.LiteralFalse:
		exp = algebra.NewConst("false", saneql.BoolType())
	case ast.LiteralNull:
		exp = algebra.NewNullConst(saneql.UnknownType().AsNullable())
	default:
		return nil, errors.New("invalid AST")
	}
	return scalarResult(exp, defaultOrder()), nil
}

// decimalTypeFor derives the decimal type of a float literal from its
// digit counts.
func decimalTypeFor(text string) (saneql.Type, error) {
	mantissa := text
	if idx := strings.IndexAny(mantissa, "eE"); idx >= 0 {
		mantissa = mantissa[:idx]
	}
	before, after := mantissa, ""
	if idx := strings.IndexByte(mantissa, '.'); idx >= 0 {
		before, after = mantissa[:idx], mantissa[idx+1:]
	}
	precision := len(before) + len(after)
	if precision > 38 {
		return saneql.Type{}, errors.New("decimal precision overflow")
	}
	return saneql.DecimalType(precision, len(after)), nil
}

// analyzeToken resolves a bare name: a column, a bound argument, a
// zero-argument let, or a table scan.
func (a *Analysis) analyzeToken(scope *BindingInfo, tok *ast.Token) (*ExpressionResult, error) {
	if tok.Encoding == ast.EncodingParameter {
		return nil, errors.New("query parameters not implemented yet")
	}
	name := getInternalName(tok.AsString())
	return a.resolveName(scope, name)
}

func (a *Analysis) resolveName(scope *BindingInfo, name string) (*ExpressionResult, error) {
	if iu := scope.lookup(name); iu != nil {
		if iu == ambiguousIU {
			return nil, errors.Errorf("'%s' is ambiguous", name)
		}
		return scalarResult(algebra.NewIURef(iu), defaultOrder()), nil
	}

	if info, ok := scope.lookupArgument(name); ok {
		if info.kind == argumentValue {
			return a.analyzeExpression(info.valueScope, info.value)
		}
		return a.resolveName(scope, info.symbol)
	}

	if idx, ok := a.letLookup[name]; ok && idx < a.letScopeLimit && len(a.lets[idx].signature.arguments) == 0 {
		restore := a.setLetScopeLimit(idx)
		defer restore()
		return a.analyzeExpression(scope, a.lets[idx].body)
	}

	table, ok := a.schema.LookupTable(name)
	if !ok {
		return nil, errors.Errorf("unknown table '%s'", name)
	}
	binding := newBinding()
	resultScope := binding.addScope(getInternalName(name))
	columns := make([]algebra.TableScanColumn, 0, len(table.Columns))
	for _, c := range table.Columns {
		iu := saneql.NewIU(c.Type)
		columns = append(columns, algebra.TableScanColumn{Name: c.Name, IU: iu})
		binding.addBinding(resultScope, getInternalName(c.Name), iu)
	}
	return tableResult(algebra.NewTableScan(name, columns), binding), nil
}

func (a *Analysis) setLetScopeLimit(limit int) func() {
	old := a.letScopeLimit
	a.letScopeLimit = limit
	return func() { a.letScopeLimit = old }
}

// analyzeAccess resolves a scope-qualified column reference.
func (a *Analysis) analyzeAccess(scope *BindingInfo, access *ast.Access) (*ExpressionResult, error) {
	name, err := a.extractSymbol(scope, access.Part)
	if err != nil {
		return nil, err
	}
	baseTok, ok := access.Base.(*ast.Token)
	if !ok {
		return nil, errors.Errorf("invalid access to column '%s'", name)
	}
	base, err := a.extractSymbol(scope, baseTok)
	if err != nil {
		return nil, err
	}

	iu := scope.lookupScoped(base, name)
	if iu == ambiguousIU {
		return nil, errors.Errorf("'%s' is ambiguous", name)
	}
	if iu == ambiguousScope {
		return nil, errors.Errorf("'%s' is ambiguous", base)
	}
	if iu == nil {
		return nil, errors.Errorf("'%s.%s' not found", base, name)
	}
	return scalarResult(algebra.NewIURef(iu), defaultOrder()), nil
}

// enforceComparable makes two scalar values comparable, casting untyped
// NULLs to the other side's type.
func enforceComparable(left, right *ExpressionResult) error {
	lt, rt := left.expr.ResultType(), right.expr.ResultType()
	if lt.Tag() == saneql.TagUnknown {
		if rt.Tag() == saneql.TagUnknown {
			return nil
		}
		left.expr = algebra.NewCast(left.expr, rt.AsNullable())
	} else if rt.Tag() == saneql.TagUnknown {
		right.expr = algebra.NewCast(right.expr, lt.AsNullable())
	}

	lt, rt = left.expr.ResultType(), right.expr.ResultType()
	check := func(ok bool) error {
		if !ok {
			return errors.Errorf("cannot compare '%s' and '%s'", lt.Name(), rt.Name())
		}
		return nil
	}
	switch lt.Tag() {
	case saneql.TagUnknown:
		return nil
	case saneql.TagBool:
		return check(rt.Tag() == saneql.TagBool)
	case saneql.TagInteger, saneql.TagDecimal:
		return check(rt.IsNumeric())
	case saneql.TagChar, saneql.TagVarchar, saneql.TagText:
		return check(rt.IsText())
	case saneql.TagDate:
		return check(rt.Tag() == saneql.TagDate)
	case saneql.TagInterval:
		return check(rt.Tag() == saneql.TagInterval)
	default:
		panic("unexhaustive type tag match")
	}
}

// analyzeBinaryExpression types an infix operation.
func (a *Analysis) analyzeBinaryExpression(scope *BindingInfo, exp *ast.BinaryExpression) (*ExpressionResult, error) {
	left, err := a.analyzeExpression(scope, exp.Left)
	if err != nil {
		return nil, err
	}
	right, err := a.analyzeExpression(scope, exp.Right)
	if err != nil {
		return nil, err
	}

	doArithmetic := func(name string, op algebra.BinaryOp) (*ExpressionResult, error) {
		if !left.IsScalar() || !right.IsScalar() {
			return nil, errors.Errorf("scalar value required in operator '%s'", name)
		}
		lt, rt := left.expr.ResultType(), right.expr.ResultType()
		nullable := lt.IsNullable() || rt.IsNullable()
		switch {
		case lt.IsNumeric() && rt.IsNumeric():
			wider := lt
			if lt.Tag() < rt.Tag() {
				wider = rt
			}
			return scalarResult(algebra.NewBinary(left.expr, right.expr, wider.WithNullable(nullable), op), defaultOrder()), nil
		case op == algebra.BinaryPlus && lt.IsText() && rt.IsText():
			return scalarResult(algebra.NewBinary(left.expr, right.expr, saneql.TextType().WithNullable(nullable), algebra.BinaryConcat), defaultOrder()), nil
		case lt.Tag() == saneql.TagDate && rt.Tag() == saneql.TagInterval && (op == algebra.BinaryPlus || op == algebra.BinaryMinus):
			return scalarResult(algebra.NewBinary(left.expr, right.expr, saneql.DateType().WithNullable(nullable), op), defaultOrder()), nil
		default:
			return nil, errors.Errorf("'%s' requires numerical arguments", name)
		}
	}
	doComparison := func(name string, mode algebra.ComparisonMode) (*ExpressionResult, error) {
		if !left.IsScalar() || !right.IsScalar() {
			return nil, errors.Errorf("scalar value required in operator '%s'", name)
		}
		if err := enforceComparable(left, right); err != nil {
			return nil, err
		}
		order, err := unifyCollate(left.ordering, right.ordering)
		if err != nil {
			return nil, err
		}
		return scalarResult(algebra.NewComparison(left.expr, right.expr, mode, order.getCollate()), defaultOrder()), nil
	}
	doLogic := func(name string, op algebra.BinaryOp) (*ExpressionResult, error) {
		if !left.IsScalar() || !right.IsScalar() {
			return nil, errors.Errorf("scalar value required in operator '%s'", name)
		}
		if left.expr.ResultType().Tag() == saneql.TagUnknown {
			left.expr = algebra.NewCast(left.expr, saneql.BoolType().AsNullable())
		}
		if right.expr.ResultType().Tag() == saneql.TagUnknown {
			right.expr = algebra.NewCast(right.expr, saneql.BoolType().AsNullable())
		}
		lt, rt := left.expr.ResultType(), right.expr.ResultType()
		if lt.Tag() != saneql.TagBool || rt.Tag() != saneql.TagBool {
			return nil, errors.Errorf("'%s' requires boolean arguments", name)
		}
		resultType := saneql.BoolType().WithNullable(lt.IsNullable() || rt.IsNullable())
		return scalarResult(algebra.NewBinary(left.expr, right.expr, resultType, op), defaultOrder()), nil
	}

	switch exp.Op {
	case ast.BinaryPlus:
		return doArithmetic("+", algebra.BinaryPlus)
	case ast.BinaryMinus:
		return doArithmetic("-", algebra.BinaryMinus)
	case ast.BinaryMul:
		return doArithmetic("*", algebra.BinaryMul)
	case ast.BinaryDiv:
		return doArithmetic("/", algebra.BinaryDiv)
	case ast.BinaryMod:
		return doArithmetic("%", algebra.BinaryMod)
	case ast.BinaryPower:
		return doArithmetic("^", algebra.BinaryPower)
	case ast.BinaryLess:
		return doComparison("<", algebra.CompareLess)
	case ast.BinaryGreater:
		return doComparison(">", algebra.CompareGreater)
	case ast.BinaryEquals:
		return doComparison("=", algebra.CompareEqual)
	case ast.BinaryNotEquals:
		return doComparison("<>", algebra.CompareNotEqual)
	case ast.BinaryLessOrEqual:
		return doComparison("<=", algebra.CompareLessOrEqual)
	case ast.BinaryGreaterOrEqual:
		return doComparison(">=", algebra.CompareGreaterOrEqual)
	case ast.BinaryAnd:
		return doLogic("&&", algebra.BinaryAnd)
	case ast.BinaryOr:
		return doLogic("||", algebra.BinaryOr)
	default:
		panic("unexhaustive binary op match")
	}
}

// analyzeUnaryExpression types a prefix operation.
func (a *Analysis) analyzeUnaryExpression(scope *BindingInfo, exp *ast.UnaryExpression) (*ExpressionResult, error) {
	value, err := a.analyzeExpression(scope, exp.Input)
	if err != nil {
		return nil, err
	}

	doArithmetic := func(name string, op algebra.UnaryOp) (*ExpressionResult, error) {
		if !value.IsScalar() {
			return nil, errors.Errorf("scalar value required in operator '%s'", name)
		}
		vt := value.expr.ResultType()
		if !vt.IsNumeric() && vt.Tag() != saneql.TagInterval {
			return nil, errors.Errorf("'%s' requires numerical arguments", name)
		}
		return scalarResult(algebra.NewUnary(value.expr, vt, op), defaultOrder()), nil
	}

	switch exp.Op {
	case ast.UnaryPlus:
		return doArithmetic("+", algebra.UnaryPlus)
	case ast.UnaryMinus:
		return doArithmetic("-", algebra.UnaryMinus)
	case ast.UnaryNot:
		if !value.IsScalar() {
			return nil, errors.New("scalar value required in operator '!'")
		}
		vt := value.expr.ResultType()
		if vt.Tag() != saneql.TagBool {
			return nil, errors.New("'!' requires boolean arguments")
		}
		return scalarResult(algebra.NewUnary(value.expr, vt, algebra.UnaryNot), defaultOrder()), nil
	default:
		panic("unexhaustive unary op match")
	}
}

// parseSimpleTypeName resolves a type name used in casts and foreign
// call signatures.
func parseSimpleTypeName(name string) (saneql.Type, error) {
	switch name {
	case "integer":
		return saneql.IntegerType(), nil
	case "boolean":
		return saneql.BoolType(), nil
	case "date":
		return saneql.DateType(), nil
	case "interval":
		return saneql.IntervalType(), nil
	case "text":
		return saneql.TextType(), nil
	default:
		return saneql.Type{}, errors.Errorf("unknown type '%s'", name)
	}
}

// analyzeCast types an explicit cast.
func (a *Analysis) analyzeCast(scope *BindingInfo, cast *ast.Cast) (*ExpressionResult, error) {
	value, err := a.analyzeExpression(scope, cast.Value)
	if err != nil {
		return nil, err
	}
	if !value.IsScalar() {
		return nil, errors.New("casts require scalar values")
	}
	t, err := parseSimpleTypeName(cast.Type.Name.AsString())
	if err != nil {
		return nil, err
	}
	return scalarResult(algebra.NewCast(value.expr, t), value.ordering), nil
}

// analyzeLet registers a user-defined function.
func (a *Analysis) analyzeLet(let *ast.LetEntry) error {
	var args []argumentSpec
	var defaults []ast.Expression
	seen := make(map[string]bool)
	for _, arg := range let.Args {
		name := extractRawSymbol(arg.Name)
		if seen[name] {
			return errors.Errorf("duplicate function argument '%s'", name)
		}
		seen[name] = true
		category := categoryScalar
		if arg.Type != nil {
			switch arg.Type.AsString() {
			case "table":
				category = categoryTable
			case "expression":
				category = categoryExpression
			default:
				return errors.Errorf("unsupported argument type '%s'", arg.Type.AsString())
			}
		}
		args = append(args, argumentSpec{name: name, category: category, hasDefault: arg.Default != nil})
		defaults = append(defaults, arg.Default)
	}

	name := extractRawSymbol(let.Name)
	if _, ok := a.letLookup[name]; ok {
		return errors.Errorf("duplicate let '%s'", name)
	}
	a.lets = append(a.lets, letInfo{
		signature:     &signature{builtin: builtinLet, arguments: args},
		defaultValues: defaults,
		body:          let.Body,
	})
	a.letLookup[name] = len(a.lets) - 1
	return nil
}
