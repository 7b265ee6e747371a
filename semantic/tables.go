package semantic

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/saneql/saneql/algebra"
	"github.com/saneql/saneql/ast"
	"github.com/saneql/saneql/saneql"
)

// analyzeJoin handles the join table function.
func (a *Analysis) analyzeJoin(scope *BindingInfo, base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	joinType := algebra.JoinInner
	leftOnly, rightOnly := false, false
	if args[2] != nil {
		sym, err := a.symbolArgument(scope, "join", "type", args[2])
		if err != nil {
			return nil, err
		}
		switch sym {
		case "inner":
		case "left", "leftouter":
			joinType = algebra.JoinLeftOuter
		case "right", "rightouter":
			joinType = algebra.JoinRightOuter
		case "full", "fullouter":
			joinType = algebra.JoinFullOuter
		case "leftsemi", "exists":
			joinType = algebra.JoinLeftSemi
			leftOnly = true
		case "rightsemi":
			joinType = algebra.JoinRightSemi
			rightOnly = true
		case "leftanti", "notexists":
			joinType = algebra.JoinLeftAnti
			leftOnly = true
		case "rightanti":
			joinType = algebra.JoinRightAnti
			rightOnly = true
		default:
			return nil, errors.Errorf("unknown join type '%s'", sym)
		}
	}

	otherScope := newBinding()
	otherScope.parentScope = scope
	other, err := a.tableArgument(otherScope, "join", "table", args[0])
	if err != nil {
		return nil, err
	}

	// Semi and anti joins keep only one side's columns, but the join
	// condition still sees both.
	var condScope, resultBinding *BindingInfo
	switch {
	case leftOnly:
		condScope = base.binding.clone()
		condScope.join(other.binding)
		resultBinding = base.binding
	case rightOnly:
		condScope = base.binding.clone()
		condScope.join(other.binding)
		resultBinding = other.binding
	default:
		base.binding.join(other.binding)
		condScope = base.binding
		resultBinding = base.binding
	}
	condScope.parentScope = scope

	cond, err := a.scalarArgument(condScope, "join", "on", args[1])
	if err != nil {
		return nil, err
	}
	if cond.expr.ResultType().Tag() != saneql.TagBool {
		return nil, errors.New("join condition must be a boolean")
	}

	return tableResult(algebra.NewJoin(base.op, other.op, cond.expr, joinType), resultBinding), nil
}

// analyzeGroupBy handles the groupby table function.
func (a *Analysis) analyzeGroupBy(scope *BindingInfo, base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	if args[2] != nil || args[3] != nil {
		return nil, errors.New("grouping sets not implemented yet")
	}

	resultBinding := newBinding()
	resultBinding.parentScope = scope
	s := resultBinding.addScope("groupby")

	g, err := a.expressionListArgument(base.binding, args[0])
	if err != nil {
		return nil, err
	}
	var groupBy []algebra.Entry
	for _, e := range g {
		if !e.value.IsScalar() {
			return nil, errors.New("groupby requires scalar groups")
		}
		iu := saneql.NewIU(e.value.expr.ResultType())
		groupBy = append(groupBy, algebra.Entry{Value: e.value.expr, IU: iu})
		name := e.name
		if name == "" {
			name = strconv.Itoa(len(s.columns) + 1)
		}
		resultBinding.addBinding(s, name, iu)
	}

	var aggregates []algebra.Aggregation
	var results []algebra.Entry
	if args[1] != nil {
		_, restore := installGroupByScope(resultBinding, base.binding, &aggregates, false)
		ag, err := a.expressionListArgument(resultBinding, args[1])
		restore()
		if err != nil {
			return nil, err
		}
		for _, e := range ag {
			if !e.value.IsScalar() {
				return nil, errors.New("groupby requires scalar aggregates")
			}
			name := e.name
			if name == "" {
				name = strconv.Itoa(len(s.columns) + 1)
			}
			// An aggregate that is a plain reference needs no extra
			// computation, the binding points at the original IU.
			if ref, ok := e.value.expr.(*algebra.IURef); ok {
				resultBinding.addBinding(s, name, ref.IU)
				continue
			}
			iu := saneql.NewIU(e.value.expr.ResultType())
			results = append(results, algebra.Entry{Value: e.value.expr, IU: iu})
			resultBinding.addBinding(s, name, iu)
		}
	}

	var tree algebra.Operator = algebra.NewGroupBy(base.op, groupBy, aggregates)
	if len(results) > 0 {
		tree = algebra.NewMap(tree, results)
	}
	return tableResult(tree, resultBinding), nil
}

// analyzeAggregate handles the aggregate table function, which reduces a
// table to a single scalar.
func (a *Analysis) analyzeAggregate(scope *BindingInfo, base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	resultBinding := newBinding()
	resultBinding.parentScope = scope

	var aggregates []algebra.Aggregation
	_, restore := installGroupByScope(resultBinding, base.binding, &aggregates, false)
	exp, err := a.scalarArgument(resultBinding, "aggregate", "aggregate", args[0])
	restore()
	if err != nil {
		return nil, err
	}

	return scalarResult(algebra.NewAggregate(base.op, aggregates, exp.expr), defaultOrder()), nil
}

// analyzeDistinct handles the distinct table function by grouping on
// every column.
func (a *Analysis) analyzeDistinct(base *ExpressionResult) (*ExpressionResult, error) {
	binding := newBinding()
	binding.parentScope = base.binding.parentScope
	s := binding.addScope("distinct")

	var groupBy []algebra.Entry
	for _, c := range base.binding.columns {
		iu := saneql.NewIU(c.IU.Type)
		groupBy = append(groupBy, algebra.Entry{Value: algebra.NewIURef(c.IU), IU: iu})
		binding.addBinding(s, c.Name, iu)
	}
	return tableResult(algebra.NewGroupBy(base.op, groupBy, nil), binding), nil
}

// sortConstant extracts an integer constant for limit or offset.
func sortConstant(name string, arg *ast.FuncArg) (*uint64, error) {
	if l, ok := arg.Value.(*ast.Literal); ok && l.Kind == ast.LiteralInteger {
		v, err := strconv.ParseUint(l.Value, 10, 64)
		if err == nil {
			return &v, nil
		}
	}
	return nil, errors.Errorf("'%s' requires an integer constant", name)
}

// analyzeOrderBy handles the orderby table function.
func (a *Analysis) analyzeOrderBy(base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	g, err := a.expressionListArgument(base.binding, args[0])
	if err != nil {
		return nil, err
	}
	var order []algebra.SortEntry
	for _, e := range g {
		if !e.value.IsScalar() {
			return nil, errors.New("orderby requires scalar order values")
		}
		order = append(order, algebra.SortEntry{
			Value:      e.value.expr,
			Collate:    e.value.ordering.getCollate(),
			Descending: e.value.ordering.isDescending(),
		})
	}

	var limit, offset *uint64
	if args[1] != nil {
		if limit, err = sortConstant("limit", args[1]); err != nil {
			return nil, err
		}
	}
	if args[2] != nil {
		if offset, err = sortConstant("offset", args[2]); err != nil {
			return nil, err
		}
	}
	return tableResult(algebra.NewSort(base.op, order, limit, offset), base.binding), nil
}

// analyzeMap handles the map and project table functions. Map adds the
// computed columns to the existing binding, project replaces it.
func (a *Analysis) analyzeMap(scope *BindingInfo, base *ExpressionResult, args []*ast.FuncArg, project bool) (*ExpressionResult, error) {
	name := "map"
	if project {
		name = "project"
	}

	g, err := a.expressionListArgument(base.binding, args[0])
	if err != nil {
		return nil, err
	}

	resultBinding := base.binding
	if project {
		resultBinding = newBinding()
		resultBinding.parentScope = scope
	}
	s := resultBinding.addScope(name)

	var results []algebra.Entry
	for _, e := range g {
		if !e.value.IsScalar() {
			return nil, errors.Errorf("'%s' requires scalar values", name)
		}
		colName := e.name
		if colName == "" {
			colName = strconv.Itoa(len(s.columns) + 1)
		}
		if ref, ok := e.value.expr.(*algebra.IURef); ok {
			resultBinding.addBinding(s, colName, ref.IU)
			continue
		}
		iu := saneql.NewIU(e.value.expr.ResultType())
		results = append(results, algebra.Entry{Value: e.value.expr, IU: iu})
		resultBinding.addBinding(s, colName, iu)
	}

	tree := base.op
	if len(results) > 0 {
		// A projection after an explicit sort computes below the sort,
		// keeping limit and offset on top.
		if sort, ok := tree.(*algebra.Sort); ok && project {
			sort.Input = algebra.NewMap(sort.Input, results)
		} else {
			tree = algebra.NewMap(tree, results)
		}
	}
	return tableResult(tree, resultBinding), nil
}

// analyzeProjectOut handles the projectout table function.
func (a *Analysis) analyzeProjectOut(base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	g, err := a.expressionListArgument(base.binding, args[0])
	if err != nil {
		return nil, err
	}
	dropped := make(map[*saneql.IU]bool)
	for _, e := range g {
		if !e.value.IsScalar() {
			return nil, errors.New("projectout requires column references")
		}
		ref, ok := e.value.expr.(*algebra.IURef)
		if !ok {
			return nil, errors.New("projectout requires column references")
		}
		dropped[ref.IU] = true
	}
	base.binding.removeColumns(dropped)
	return tableResult(base.op, base.binding), nil
}

// analyzeSetOperation handles union, except and intersect.
func (a *Analysis) analyzeSetOperation(scope *BindingInfo, b builtin, name string, base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	otherScope := newBinding()
	otherScope.parentScope = scope
	other, err := a.tableArgument(otherScope, name, "table", args[0])
	if err != nil {
		return nil, err
	}

	all := false
	if args[1] != nil {
		if all, err = constBoolArgument(name, "all", args[1]); err != nil {
			return nil, err
		}
	}
	var op algebra.SetOperationOp
	switch b {
	case builtinUnion:
		op = algebra.SetUnion
		if all {
			op = algebra.SetUnionAll
		}
	case builtinExcept:
		op = algebra.SetExcept
		if all {
			op = algebra.SetExceptAll
		}
	case builtinIntersect:
		op = algebra.SetIntersect
		if all {
			op = algebra.SetIntersectAll
		}
	default:
		panic("unexhaustive set operation match")
	}

	lcols := base.binding.Columns()
	rcols := other.binding.Columns()
	if len(lcols) != len(rcols) {
		return nil, errors.Errorf("'%s' requires tables with the same number of columns", name)
	}

	binding := newBinding()
	binding.parentScope = scope
	s := binding.addScope(name)
	leftColumns := make([]algebra.Expression, 0, len(lcols))
	rightColumns := make([]algebra.Expression, 0, len(rcols))
	resultColumns := make([]*saneql.IU, 0, len(lcols))
	for i := range lcols {
		lt, rt := lcols[i].IU.Type, rcols[i].IU.Type
		if lt.WithNullable(false) != rt.WithNullable(false) {
			return nil, errors.Errorf("type mismatch in column %d of '%s'", i+1, name)
		}
		iu := saneql.NewIU(lt.WithNullable(lt.IsNullable() || rt.IsNullable()))
		leftColumns = append(leftColumns, algebra.NewIURef(lcols[i].IU))
		rightColumns = append(rightColumns, algebra.NewIURef(rcols[i].IU))
		resultColumns = append(resultColumns, iu)
		binding.addBinding(s, lcols[i].Name, iu)
	}

	return tableResult(algebra.NewSetOperation(base.op, other.op, leftColumns, rightColumns, resultColumns, op), binding), nil
}

// analyzeWindow handles the window table function.
func (a *Analysis) analyzeWindow(base *ExpressionResult, args []*ast.FuncArg) (*ExpressionResult, error) {
	if args[3] != nil || args[4] != nil || args[5] != nil {
		return nil, errors.New("window frames not implemented yet")
	}

	var partitionBy []algebra.Expression
	if args[1] != nil {
		g, err := a.expressionListArgument(base.binding, args[1])
		if err != nil {
			return nil, err
		}
		for _, e := range g {
			if !e.value.IsScalar() {
				return nil, errors.New("window requires scalar partition values")
			}
			partitionBy = append(partitionBy, e.value.expr)
		}
	}
	var orderBy []algebra.SortEntry
	if args[2] != nil {
		g, err := a.expressionListArgument(base.binding, args[2])
		if err != nil {
			return nil, err
		}
		for _, e := range g {
			if !e.value.IsScalar() {
				return nil, errors.New("window requires scalar order values")
			}
			orderBy = append(orderBy, algebra.SortEntry{
				Value:      e.value.expr,
				Collate:    e.value.ordering.getCollate(),
				Descending: e.value.ordering.isDescending(),
			})
		}
	}

	resultBinding := base.binding
	s := resultBinding.addScope("window")

	var aggregates []algebra.Aggregation
	_, restore := installGroupByScope(resultBinding, base.binding, &aggregates, true)
	g, err := a.expressionListArgument(resultBinding, args[0])
	restore()
	if err != nil {
		return nil, err
	}

	var results []algebra.Entry
	for _, e := range g {
		if !e.value.IsScalar() {
			return nil, errors.New("window requires scalar values")
		}
		name := e.name
		if name == "" {
			name = strconv.Itoa(len(s.columns) + 1)
		}
		if ref, ok := e.value.expr.(*algebra.IURef); ok {
			resultBinding.addBinding(s, name, ref.IU)
			continue
		}
		iu := saneql.NewIU(e.value.expr.ResultType())
		results = append(results, algebra.Entry{Value: e.value.expr, IU: iu})
		resultBinding.addBinding(s, name, iu)
	}

	var tree algebra.Operator = algebra.NewWindow(base.op, aggregates, partitionBy, orderBy)
	if len(results) > 0 {
		tree = algebra.NewMap(tree, results)
	}
	return tableResult(tree, resultBinding), nil
}

// analyzeTableConstruction handles the table free function. Each
// positional argument is one row given as a tuple list.
func (a *Analysis) analyzeTableConstruction(scope *BindingInfo, callArgs []*ast.FuncArg) (*ExpressionResult, error) {
	if len(callArgs) == 0 {
		return nil, errors.New("'table' requires a tuple list")
	}

	var columnNames []string
	var columnTypes []saneql.Type
	var values []algebra.Expression
	rowCount := 0

	for _, arg := range callArgs {
		list, ok := arg.Value.(*ast.List)
		if arg.Name != nil || !ok {
			return nil, errors.New("'table' requires a tuple list")
		}
		first := rowCount == 0
		count := 0
		for _, e := range list.Entries {
			if e.Case != nil {
				return nil, errors.New("'table' requires a tuple list")
			}
			if first {
				name := ""
				if e.Name != nil {
					name = extractRawSymbol(e.Name)
				} else {
					name = strconv.Itoa(len(columnNames) + 1)
				}
				columnNames = append(columnNames, name)
			}
			v, err := a.analyzeExpression(scope, e.Value)
			if err != nil {
				return nil, err
			}
			if !v.IsScalar() {
				return nil, errors.New("inline tables require scalar values")
			}
			vt := v.expr.ResultType()
			if first {
				columnTypes = append(columnTypes, vt)
			} else {
				if count >= len(columnNames) {
					return nil, errors.New("too many column values in inline table")
				}
				// Null columns take their type from the first typed row.
				if columnTypes[count].Tag() == saneql.TagUnknown && vt.Tag() != saneql.TagUnknown {
					columnTypes[count] = vt.AsNullable()
				}
			}
			values = append(values, v.expr)
			count++
		}
		if !first && count < len(columnNames) {
			return nil, errors.New("too few column values in inline table")
		}
		rowCount++
	}

	// Align value types with the column types across rows.
	for i, e := range values {
		colType := columnTypes[i%len(columnNames)]
		et := e.ResultType()
		if et.Tag() != colType.Tag() {
			values[i] = algebra.NewCast(e, colType.WithNullable(et.IsNullable()))
		}
	}

	binding := newBinding()
	binding.parentScope = scope
	s := binding.addScope("table")
	columns := make([]*saneql.IU, 0, len(columnNames))
	for i, name := range columnNames {
		iu := saneql.NewIU(columnTypes[i])
		columns = append(columns, iu)
		binding.addBinding(s, name, iu)
	}
	return tableResult(algebra.NewInlineTable(columns, values, rowCount), binding), nil
}
