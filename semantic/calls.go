package semantic

import (
	"github.com/pkg/errors"

	"github.com/saneql/saneql/algebra"
	"github.com/saneql/saneql/ast"
	"github.com/saneql/saneql/saneql"
)

// expressionArg is one entry of an expression list argument.
type expressionArg struct {
	name  string
	value *ExpressionResult
}

// symbolArgument resolves an argument that must be a symbol.
func (a *Analysis) symbolArgument(scope *BindingInfo, funcName, argName string, arg *ast.FuncArg) (string, error) {
	if sym, ok, err := a.recognizeGensym(arg.Value); err != nil {
		return "", err
	} else if ok {
		return sym, nil
	}
	tok, ok := arg.Value.(*ast.Token)
	if !ok {
		return "", errors.Errorf("parameter '%s' requires a symbol in call to '%s'", argName, funcName)
	}
	name := extractRawSymbol(tok)
	if scope != nil {
		if info, ok := scope.lookupArgument(name); ok && info.kind == argumentSymbol {
			return info.symbol, nil
		}
	}
	return name, nil
}

// constBoolArgument resolves an argument that must be a boolean constant.
func constBoolArgument(funcName, argName string, arg *ast.FuncArg) (bool, error) {
	if l, ok := arg.Value.(*ast.Literal); ok {
		switch l.Kind {
		case ast.LiteralTrue:
			return true, nil
		case ast.LiteralFalse:
			return false, nil
		}
	}
	return false, errors.Errorf("parameter '%s' requires a constant boolean in call to '%s'", argName, funcName)
}

// constStringArgument resolves an argument that must be a string constant.
func constStringArgument(funcName, argName string, arg *ast.FuncArg) (string, error) {
	if l, ok := arg.Value.(*ast.Literal); ok && l.Kind == ast.LiteralString {
		return l.Value, nil
	}
	return "", errors.Errorf("parameter '%s' requires a constant string in call to '%s'", argName, funcName)
}

// scalarArgument analyzes an argument that must produce a scalar value.
func (a *Analysis) scalarArgument(scope *BindingInfo, funcName, argName string, arg *ast.FuncArg) (*ExpressionResult, error) {
	r, err := a.analyzeExpression(scope, arg.Value)
	if err != nil {
		return nil, err
	}
	if !r.IsScalar() {
		return nil, errors.Errorf("parameter '%s' requires a scalar in call to '%s'", argName, funcName)
	}
	return r, nil
}

// scalarArgumentList analyzes an argument that is a list of scalar values.
func (a *Analysis) scalarArgumentList(scope *BindingInfo, funcName, argName string, arg *ast.FuncArg) ([]*ExpressionResult, error) {
	var result []*ExpressionResult
	if list, ok := arg.Value.(*ast.List); ok {
		for _, e := range list.Entries {
			if e.Case != nil {
				return nil, errors.New("nested expression list not allowed here")
			}
			r, err := a.analyzeExpression(scope, e.Value)
			if err != nil {
				return nil, err
			}
			if !r.IsScalar() {
				return nil, errors.Errorf("parameter '%s' requires scalar values in call to '%s'", argName, funcName)
			}
			result = append(result, r)
		}
		return result, nil
	}
	r, err := a.analyzeExpression(scope, arg.Value)
	if err != nil {
		return nil, err
	}
	if !r.IsScalar() {
		return nil, errors.Errorf("parameter '%s' requires scalar values in call to '%s'", argName, funcName)
	}
	return append(result, r), nil
}

// tableArgument analyzes an argument that must produce a table.
func (a *Analysis) tableArgument(scope *BindingInfo, funcName, argName string, arg *ast.FuncArg) (*ExpressionResult, error) {
	r, err := a.analyzeExpression(scope, arg.Value)
	if err != nil {
		return nil, err
	}
	if !r.IsTable() {
		return nil, errors.Errorf("parameter '%s' requires a table in call to '%s'", argName, funcName)
	}
	return r, nil
}

// inferName derives a column name from an expression.
func inferName(exp ast.Expression) string {
	switch e := exp.(type) {
	case *ast.Token:
		return getInternalName(e.AsString())
	case *ast.Access:
		return getInternalName(e.Part.AsString())
	}
	return ""
}

// expressionListArgument analyzes an expression list argument. A single
// expression is accepted as a one-element list for convenience, and
// aliases expand to the columns they captured.
func (a *Analysis) expressionListArgument(scope *BindingInfo, arg *ast.FuncArg) ([]expressionArg, error) {
	var result []expressionArg

	expandAlias := func(exp ast.Expression) (bool, error) {
		tok, ok := exp.(*ast.Token)
		if !ok {
			return false, nil
		}
		alias := scope.lookupAlias(getInternalName(tok.AsString()))
		if alias == nil {
			return false, nil
		}
		if alias.ambiguous {
			return false, errors.Errorf("'%s' is ambiguous", tok.AsString())
		}
		for _, iu := range alias.columns {
			result = append(result, expressionArg{value: scalarResult(algebra.NewIURef(iu), defaultOrder())})
		}
		return true, nil
	}

	if list, ok := arg.Value.(*ast.List); ok {
		for _, e := range list.Entries {
			if e.Case != nil {
				return nil, errors.New("nested expression list not allowed here")
			}
			if e.Name == nil {
				if done, err := expandAlias(e.Value); err != nil {
					return nil, err
				} else if done {
					continue
				}
			}
			v, err := a.analyzeExpression(scope, e.Value)
			if err != nil {
				return nil, err
			}
			var name string
			if e.Name != nil {
				name, err = a.extractSymbol(scope, e.Name)
				if err != nil {
					return nil, err
				}
			} else {
				name = inferName(e.Value)
			}
			result = append(result, expressionArg{name: name, value: v})
		}
		return result, nil
	}

	if done, err := expandAlias(arg.Value); err != nil {
		return nil, err
	} else if done {
		return result, nil
	}
	v, err := a.analyzeExpression(scope, arg.Value)
	if err != nil {
		return nil, err
	}
	return append(result, expressionArg{name: inferName(arg.Value), value: v}), nil
}

// assignArguments maps call arguments onto the formal parameters of a
// signature.
func assignArguments(name string, sig *signature, callArgs []*ast.FuncArg) ([]*ast.FuncArg, error) {
	args := make([]*ast.FuncArg, 0, len(sig.arguments))
	hadNamed := false
	for _, arg := range callArgs {
		if arg.Name != nil {
			if !hadNamed {
				padded := make([]*ast.FuncArg, len(sig.arguments))
				copy(padded, args)
				args = padded
				hadNamed = true
			}
			argName := arg.Name.AsString()
			slot := -1
			for i := range sig.arguments {
				if sig.arguments[i].name == argName {
					slot = i
					break
				}
			}
			if slot < 0 {
				return nil, errors.Errorf("parameter '%s' not found in call to '%s'", argName, name)
			}
			if args[slot] != nil {
				return nil, errors.Errorf("parameter '%s' provided more than once", argName)
			}
			args[slot] = arg
		} else {
			if hadNamed {
				return nil, errors.Errorf("positional parameters cannot be used after named parameters in call to '%s'", name)
			}
			if len(args) >= len(sig.arguments) {
				return nil, errors.Errorf("too many parameters in call to '%s'", name)
			}
			args = append(args, arg)
		}
	}
	if !hadNamed {
		padded := make([]*ast.FuncArg, len(sig.arguments))
		copy(padded, args)
		args = padded
	}
	for i := range sig.arguments {
		if args[i] == nil && !sig.arguments[i].hasDefault {
			return nil, errors.Errorf("parameter '%s' missing in call to '%s'", sig.arguments[i].name, name)
		}
	}
	return args, nil
}

// analyzeCall resolves a function call and dispatches to the builtin or
// let implementation.
func (a *Analysis) analyzeCall(scope *BindingInfo, call *ast.Call) (*ExpressionResult, error) {
	var base *ExpressionResult
	var sig *signature
	var name string
	letIdx := -1

	switch f := call.Func.(type) {
	case *ast.Access:
		b, err := a.analyzeExpression(scope, f.Base)
		if err != nil {
			return nil, err
		}
		base = b
		name = extractString(f.Part)
		var typeName string
		var funcs *functionRegistry
		if base.IsScalar() {
			t := base.expr.ResultType()
			typeName = t.Name()
			funcs = functionsForType(t)
		} else {
			typeName = "table"
			funcs = tableFunctions
		}
		sig = funcs.lookup(name)
		if sig == nil {
			return nil, errors.Errorf("'%s' not found for '%s'", name, typeName)
		}
	case *ast.Token:
		name = f.AsString()
		if idx, ok := a.letLookup[getInternalName(name)]; ok && idx < a.letScopeLimit {
			letIdx = idx
			sig = a.lets[idx].signature
		} else {
			sig = freeFunctions.lookup(name)
			if sig == nil {
				return nil, errors.Errorf("function '%s' not found", name)
			}
		}
	default:
		return nil, errors.New("invalid function name")
	}

	// Table construction takes each positional list as one row, which
	// does not fit the generic parameter assignment.
	if letIdx < 0 && sig.builtin == builtinTable {
		return a.analyzeTableConstruction(scope, call.Args)
	}

	args, err := assignArguments(name, sig, call.Args)
	if err != nil {
		return nil, err
	}

	if letIdx >= 0 {
		return a.analyzeLetCall(scope, letIdx, args)
	}

	if base != nil && base.IsTable() {
		// Thread the calling scope so that let arguments stay visible
		// while sub-expressions are analyzed in the table's binding.
		base.binding.parentScope = scope
	}

	switch sig.builtin {
	case builtinAsc:
		if !base.IsScalar() {
			return nil, errors.New("scalar value required in 'asc'")
		}
		base.ordering.markAscending()
		return base, nil
	case builtinDesc:
		if !base.IsScalar() {
			return nil, errors.New("scalar value required in 'desc'")
		}
		base.ordering.markDescending()
		return base, nil
	case builtinCollate:
		sym, err := a.symbolArgument(scope, name, "collate", args[0])
		if err != nil {
			return nil, err
		}
		collate, err := lookupCollate(sym)
		if err != nil {
			return nil, err
		}
		base.ordering.setCollate(collate)
		return base, nil
	case builtinIs:
		return a.analyzeIs(scope, base, args)
	case builtinBetween:
		return a.analyzeBetween(scope, base, args)
	case builtinIn:
		return a.analyzeIn(scope, base, args)
	case builtinLike:
		return a.analyzeLike(scope, base, args)
	case builtinSubstr:
		return a.analyzeSubstr(scope, base, args)
	case builtinExtract:
		return a.analyzeExtract(scope, base, args)
	case builtinFilter:
		cond, err := a.scalarArgument(base.binding, "filter", "condition", args[0])
		if err != nil {
			return nil, err
		}
		if cond.expr.ResultType().Tag() != saneql.TagBool {
			return nil, errors.New("'filter' requires a boolean filter condition")
		}
		return tableResult(algebra.NewSelect(base.op, cond.expr), base.binding), nil
	case builtinJoin:
		return a.analyzeJoin(scope, base, args)
	case builtinGroupBy:
		return a.analyzeGroupBy(scope, base, args)
	case builtinAggregate:
		return a.analyzeAggregate(scope, base, args)
	case builtinDistinct:
		return a.analyzeDistinct(base)
	case builtinOrderBy:
		return a.analyzeOrderBy(base, args)
	case builtinMap:
		return a.analyzeMap(scope, base, args, false)
	case builtinProject:
		return a.analyzeMap(scope, base, args, true)
	case builtinProjectOut:
		return a.analyzeProjectOut(base, args)
	case builtinUnion, builtinExcept, builtinIntersect:
		return a.analyzeSetOperation(scope, sig.builtin, name, base, args)
	case builtinWindow:
		return a.analyzeWindow(base, args)
	case builtinAs:
		sym, err := a.symbolArgument(scope, "as", "name", args[0])
		if err != nil {
			return nil, err
		}
		base.binding.renameScopes(sym)
		return base, nil
	case builtinAlias:
		sym, err := a.symbolArgument(scope, "alias", "name", args[0])
		if err != nil {
			return nil, err
		}
		ius := make([]*saneql.IU, 0, len(base.binding.columns))
		for _, c := range base.binding.columns {
			ius = append(ius, c.IU)
		}
		base.binding.addAlias(sym, ius)
		return base, nil
	case builtinAggCount:
		op := algebra.AggCountStar
		if args[0] != nil {
			op = algebra.AggCount
		}
		return a.handleAggregate(scope, name, op, args)
	case builtinAggSum:
		return a.handleAggregate(scope, name, algebra.AggSum, args)
	case builtinAggAvg:
		return a.handleAggregate(scope, name, algebra.AggAvg, args)
	case builtinAggMin:
		return a.handleAggregate(scope, name, algebra.AggMin, args)
	case builtinAggMax:
		return a.handleAggregate(scope, name, algebra.AggMax, args)
	case builtinWindowRowNumber, builtinWindowRank, builtinWindowDenseRank, builtinWindowNTile,
		builtinWindowLead, builtinWindowLag, builtinWindowFirstValue, builtinWindowLastValue:
		return a.handleWindowFunction(scope, name, sig.builtin, args)
	case builtinCase:
		return a.analyzeCase(scope, args)
	case builtinGensym:
		return nil, errors.New("'gensym' can only be used where a symbol is expected")
	case builtinForeignCall:
		return a.analyzeForeignCall(scope, args)
	default:
		return nil, errors.Errorf("call to '%s' not implemented yet", name)
	}
}

// analyzeLetCall expands a user-defined function by capturing its
// arguments and re-analyzing the body.
func (a *Analysis) analyzeLetCall(scope *BindingInfo, idx int, args []*ast.FuncArg) (*ExpressionResult, error) {
	let := &a.lets[idx]
	child := newBinding()
	child.parentScope = scope
	for i, formal := range let.signature.arguments {
		value := let.defaultValues[i]
		if args[i] != nil {
			value = args[i].Value
		}
		if sym, ok, err := a.recognizeGensym(value); err != nil {
			return nil, err
		} else if ok {
			child.registerSymbolArgument(formal.name, sym)
			continue
		}
		child.registerArgument(formal.name, value, scope)
	}
	restore := a.setLetScopeLimit(idx)
	defer restore()
	return a.analyzeExpression(child, let.body)
}

// handleAggregate records an aggregate computation in the innermost
// group by scope and yields a reference to its result.
func (a *Analysis) handleAggregate(scope *BindingInfo, name string, op algebra.AggregationOp, args []*ast.FuncArg) (*ExpressionResult, error) {
	gbs := scope.getGroupByScope()
	if gbs == nil {
		return nil, errors.Errorf("aggregate '%s' can only be used in group by computations", name)
	}

	if len(args) > 1 && args[1] != nil {
		if args[0] == nil {
			return nil, errors.Errorf("parameter 'value' missing in call to '%s'", name)
		}
		distinct, err := constBoolArgument(name, "distinct", args[1])
		if err != nil {
			return nil, err
		}
		if distinct {
			switch op {
			case algebra.AggCount:
				op = algebra.AggCountDistinct
			case algebra.AggSum:
				op = algebra.AggSumDistinct
			case algebra.AggAvg:
				op = algebra.AggAvgDistinct
			}
		}
	}

	var value algebra.Expression
	resultType := saneql.IntegerType()
	if op != algebra.AggCountStar {
		exp, err := a.scalarArgument(gbs.pre, name, "value", args[0])
		if err != nil {
			return nil, err
		}
		et := exp.expr.ResultType()
		needsNumeric := op != algebra.AggMin && op != algebra.AggMax &&
			op != algebra.AggCount && op != algebra.AggCountDistinct
		if needsNumeric && !et.IsNumeric() {
			return nil, errors.Errorf("aggregate '%s' requires a numerical argument", name)
		}
		value = exp.expr
		resultType = et
		if op == algebra.AggCount || op == algebra.AggCountDistinct {
			resultType = saneql.IntegerType()
		}
	}

	iu := saneql.NewIU(resultType)
	*gbs.aggregations = append(*gbs.aggregations, algebra.Aggregation{Value: value, IU: iu, Op: op})
	return scalarResult(algebra.NewIURef(iu), defaultOrder()), nil
}

// handleWindowFunction records a window computation in the innermost
// window scope.
func (a *Analysis) handleWindowFunction(scope *BindingInfo, name string, b builtin, args []*ast.FuncArg) (*ExpressionResult, error) {
	gbs := scope.getGroupByScope()
	if gbs == nil || !gbs.window {
		return nil, errors.Errorf("window function '%s' can only be used in window computations", name)
	}

	var value algebra.Expression
	var parameters []algebra.Expression
	var op algebra.AggregationOp
	resultType := saneql.IntegerType()

	analyzeValue := func(argName string, arg *ast.FuncArg) (saneql.Type, error) {
		exp, err := a.scalarArgument(gbs.pre, name, argName, arg)
		if err != nil {
			return saneql.Type{}, err
		}
		value = exp.expr
		return exp.expr.ResultType(), nil
	}

	switch b {
	case builtinWindowRowNumber:
		op = algebra.AggRowNumber
	case builtinWindowRank:
		op = algebra.AggRank
		if _, err := analyzeValue("value", args[0]); err != nil {
			return nil, err
		}
	case builtinWindowDenseRank:
		op = algebra.AggDenseRank
		if _, err := analyzeValue("value", args[0]); err != nil {
			return nil, err
		}
	case builtinWindowNTile:
		op = algebra.AggNTile
		vt, err := analyzeValue("parts", args[0])
		if err != nil {
			return nil, err
		}
		if vt.Tag() != saneql.TagInteger {
			return nil, errors.New("'ntile' requires an integer argument")
		}
	case builtinWindowLead, builtinWindowLag:
		if b == builtinWindowLead {
			op = algebra.AggLead
		} else {
			op = algebra.AggLag
		}
		vt, err := analyzeValue("value", args[0])
		if err != nil {
			return nil, err
		}
		resultType = vt.AsNullable()
		if args[1] != nil {
			offset, err := a.scalarArgument(gbs.pre, name, "offset", args[1])
			if err != nil {
				return nil, err
			}
			if offset.expr.ResultType().Tag() != saneql.TagInteger {
				return nil, errors.Errorf("'%s' requires an integer offset", name)
			}
			parameters = append(parameters, offset.expr)
		}
		if args[2] != nil {
			if args[1] == nil {
				parameters = append(parameters, algebra.NewConst("1", saneql.IntegerType()))
			}
			def, err := a.scalarArgument(gbs.pre, name, "default", args[2])
			if err != nil {
				return nil, err
			}
			valueResult := scalarResult(value, defaultOrder())
			if err := enforceComparable(valueResult, def); err != nil {
				return nil, err
			}
			value = valueResult.expr
			parameters = append(parameters, def.expr)
			resultType = vt.WithNullable(vt.IsNullable() || def.expr.ResultType().IsNullable())
		}
	case builtinWindowFirstValue, builtinWindowLastValue:
		if b == builtinWindowFirstValue {
			op = algebra.AggFirstValue
		} else {
			op = algebra.AggLastValue
		}
		vt, err := analyzeValue("value", args[0])
		if err != nil {
			return nil, err
		}
		resultType = vt
	default:
		panic("unexhaustive window builtin match")
	}

	iu := saneql.NewIU(resultType)
	*gbs.aggregations = append(*gbs.aggregations, algebra.Aggregation{Value: value, IU: iu, Op: op, Parameters: parameters})
	return scalarResult(algebra.NewIURef(iu), defaultOrder()), nil
}

// analyzeIs handles the null-aware equality check.
func (a *Analysis) analyzeIs(scope *BindingInfo, base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	arg, err := a.scalarArgument(scope, "is", "other", args[0])
	if err != nil {
		return nil, err
	}
	if err := enforceComparable(base, arg); err != nil {
		return nil, err
	}
	order, err := unifyCollate(base.ordering, arg.ordering)
	if err != nil {
		return nil, err
	}
	return scalarResult(algebra.NewComparison(base.expr, arg.expr, algebra.CompareIs, order.getCollate()), defaultOrder()), nil
}

// analyzeBetween handles the inclusive range check.
func (a *Analysis) analyzeBetween(scope *BindingInfo, base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	lower, err := a.scalarArgument(scope, "between", "lower", args[0])
	if err != nil {
		return nil, err
	}
	upper, err := a.scalarArgument(scope, "between", "upper", args[1])
	if err != nil {
		return nil, err
	}
	if err := enforceComparable(base, lower); err != nil {
		return nil, err
	}
	if err := enforceComparable(base, upper); err != nil {
		return nil, err
	}
	order, err := unifyCollate(base.ordering, lower.ordering)
	if err != nil {
		return nil, err
	}
	order, err = unifyCollate(order, upper.ordering)
	if err != nil {
		return nil, err
	}
	return scalarResult(algebra.NewBetween(base.expr, lower.expr, upper.expr, order.getCollate()), defaultOrder()), nil
}

// analyzeIn handles list membership. An empty list folds to false.
func (a *Analysis) analyzeIn(scope *BindingInfo, base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	values, err := a.scalarArgumentList(scope, "in", "values", args[0])
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return scalarResult(algebra.NewConst("false", saneql.BoolType()), defaultOrder()), nil
	}
	order := base.ordering
	exprs := make([]algebra.Expression, 0, len(values))
	for _, v := range values {
		if err := enforceComparable(base, v); err != nil {
			return nil, err
		}
		order, err = unifyCollate(order, v.ordering)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, v.expr)
	}
	return scalarResult(algebra.NewIn(base.expr, exprs, order.getCollate()), defaultOrder()), nil
}

// analyzeLike handles the like predicate.
func (a *Analysis) analyzeLike(scope *BindingInfo, base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	pattern, err := a.scalarArgument(scope, "like", "pattern", args[0])
	if err != nil {
		return nil, err
	}
	if !base.expr.ResultType().IsText() || !pattern.expr.ResultType().IsText() {
		return nil, errors.New("'like' requires string arguments")
	}
	order, err := unifyCollate(base.ordering, pattern.ordering)
	if err != nil {
		return nil, err
	}
	return scalarResult(algebra.NewComparison(base.expr, pattern.expr, algebra.CompareLike, order.getCollate()), defaultOrder()), nil
}

// analyzeSubstr handles substring extraction.
func (a *Analysis) analyzeSubstr(scope *BindingInfo, base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	if args[0] == nil && args[1] == nil {
		return nil, errors.New("'substr' requires at least one argument")
	}
	var from, length algebra.Expression
	if args[0] != nil {
		f, err := a.scalarArgument(scope, "substr", "from", args[0])
		if err != nil {
			return nil, err
		}
		if !f.expr.ResultType().IsNumeric() {
			return nil, errors.New("'substr' requires numerical arguments")
		}
		from = f.expr
	}
	if args[1] != nil {
		l, err := a.scalarArgument(scope, "substr", "for", args[1])
		if err != nil {
			return nil, err
		}
		if !l.expr.ResultType().IsNumeric() {
			return nil, errors.New("'substr' requires numerical arguments")
		}
		length = l.expr
	}
	return scalarResult(algebra.NewSubstr(base.expr, from, length), defaultOrder()), nil
}

// analyzeExtract handles date part extraction.
func (a *Analysis) analyzeExtract(scope *BindingInfo, base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	part, err := a.symbolArgument(scope, "extract", "part", args[0])
	if err != nil {
		return nil, err
	}
	var p algebra.ExtractPart
	switch part {
	case "year":
		p = algebra.ExtractYear
	case "month":
		p = algebra.ExtractMonth
	case "day":
		p = algebra.ExtractDay
	default:
		return nil, errors.Errorf("unknown date part '%s'", part)
	}
	return scalarResult(algebra.NewExtract(base.expr, p), defaultOrder()), nil
}

// analyzeCase handles searched and simple case expressions.
func (a *Analysis) analyzeCase(scope *BindingInfo, args []*ast.FuncArg) (*ExpressionResult, error) {
	list, ok := args[0].Value.(*ast.List)
	if !ok {
		return nil, errors.New("'case' requires a list of 'condition => result' pairs")
	}

	var search *ExpressionResult
	if args[2] != nil {
		s, err := a.scalarArgument(scope, "case", "search", args[2])
		if err != nil {
			return nil, err
		}
		search = s
	}

	var entries []algebra.CaseEntry
	var branchTypes []saneql.Type
	for _, e := range list.Entries {
		if e.Case == nil {
			return nil, errors.New("'case' requires a list of 'condition => result' pairs")
		}
		cond, err := a.analyzeExpression(scope, e.Case)
		if err != nil {
			return nil, err
		}
		if !cond.IsScalar() {
			return nil, errors.New("'case' requires scalar conditions")
		}
		if search != nil {
			if err := enforceComparable(search, cond); err != nil {
				return nil, err
			}
		} else if cond.expr.ResultType().Tag() != saneql.TagBool {
			return nil, errors.New("'case' requires boolean conditions")
		}
		value, err := a.analyzeExpression(scope, e.Value)
		if err != nil {
			return nil, err
		}
		if !value.IsScalar() {
			return nil, errors.New("'case' requires scalar results")
		}
		entries = append(entries, algebra.CaseEntry{Condition: cond.expr, Value: value.expr})
		branchTypes = append(branchTypes, value.expr.ResultType())
	}
	if len(entries) == 0 {
		return nil, errors.New("'case' requires at least one case")
	}

	var defaultValue algebra.Expression
	if args[1] != nil {
		d, err := a.scalarArgument(scope, "case", "else", args[1])
		if err != nil {
			return nil, err
		}
		defaultValue = d.expr
		branchTypes = append(branchTypes, d.expr.ResultType())
	}

	// The branches unify to the first typed branch, mismatched tags cast.
	resultType := saneql.UnknownType()
	for _, t := range branchTypes {
		if t.Tag() != saneql.TagUnknown {
			resultType = t
			break
		}
	}
	nullable := resultType.IsNullable() || args[1] == nil
	for _, t := range branchTypes {
		if t.Tag() == saneql.TagUnknown || t.IsNullable() {
			nullable = true
		}
	}
	resultType = resultType.WithNullable(nullable)

	castBranch := func(e algebra.Expression) algebra.Expression {
		if e.ResultType().Tag() != resultType.Tag() {
			return algebra.NewCast(e, resultType.WithNullable(true))
		}
		return e
	}
	for i := range entries {
		entries[i].Value = castBranch(entries[i].Value)
	}
	if defaultValue != nil {
		defaultValue = castBranch(defaultValue)
	} else {
		defaultValue = algebra.NewNullConst(resultType)
	}

	if search != nil {
		return scalarResult(algebra.NewSimpleCase(search.expr, entries, defaultValue), defaultOrder()), nil
	}
	return scalarResult(algebra.NewSearchedCase(entries, defaultValue), defaultOrder()), nil
}

// analyzeForeignCall emits a call to a function or operator outside the
// catalog.
func (a *Analysis) analyzeForeignCall(scope *BindingInfo, args []*ast.FuncArg) (*ExpressionResult, error) {
	name, err := constStringArgument("foreigncall", "name", args[0])
	if err != nil {
		return nil, err
	}
	returnsName, err := a.symbolArgument(scope, "foreigncall", "returns", args[1])
	if err != nil {
		return nil, err
	}
	returnType, err := parseSimpleTypeName(returnsName)
	if err != nil {
		return nil, err
	}

	var arguments []algebra.Expression
	if args[2] != nil {
		g, err := a.expressionListArgument(scope, args[2])
		if err != nil {
			return nil, err
		}
		for _, e := range g {
			if !e.value.IsScalar() {
				return nil, errors.New("'foreigncall' requires scalar arguments")
			}
			arguments = append(arguments, e.value.expr)
		}
	}

	callType := algebra.CallFunction
	if args[3] != nil {
		sym, err := a.symbolArgument(scope, "foreigncall", "type", args[3])
		if err != nil {
			return nil, err
		}
		switch sym {
		case "function":
			callType = algebra.CallFunction
		case "operator", "leftassoc":
			callType = algebra.CallLeftAssocOperator
		case "rightassoc":
			callType = algebra.CallRightAssocOperator
		default:
			return nil, errors.Errorf("unknown foreigncall call type '%s'", sym)
		}
	}
	if callType != algebra.CallFunction && len(arguments) < 2 {
		return nil, errors.New("foreigncall operators require at least two arguments")
	}

	return scalarResult(algebra.NewForeignCall(name, returnType, arguments, callType), defaultOrder()), nil
}
