package semantic

import (
	"github.com/saneql/saneql/algebra"
	"github.com/saneql/saneql/ast"
	"github.com/saneql/saneql/saneql"
)

// Sentinel IUs for ambiguous lookup results. Only compared by identity,
// never dereferenced.
var (
	ambiguousIU    = new(saneql.IU)
	ambiguousScope = new(saneql.IU)
)

// Column is one output column of a table expression.
type Column struct {
	Name string
	IU   *saneql.IU
}

type scopeInfo struct {
	columns   map[string]*saneql.IU
	ambiguous bool
}

type aliasInfo struct {
	columns   []*saneql.IU
	ambiguous bool
}

type argumentKind int

const (
	argumentValue argumentKind = iota
	argumentSymbol
)

// argumentInfo is a bound function argument: either a deferred value
// (AST plus the scope it was captured in) or a resolved symbol.
type argumentInfo struct {
	kind       argumentKind
	value      ast.Expression
	valueScope *BindingInfo
	symbol     string
}

// BindingInfo is the name environment visible at one point during
// analysis: the output columns in order, per-name and per-scope lookup
// tables, aliases, bound function arguments and the enclosing scope for
// let expansion.
type BindingInfo struct {
	columns      []Column
	columnLookup map[string]*saneql.IU
	scopes       map[string]*scopeInfo
	aliases      map[string]*aliasInfo
	arguments    map[string]argumentInfo
	parentScope  *BindingInfo
	gbs          *groupByScope
}

func newBinding() *BindingInfo {
	return &BindingInfo{
		columnLookup: make(map[string]*saneql.IU),
		scopes:       make(map[string]*scopeInfo),
	}
}

// Columns returns the output columns in left-to-right order.
func (b *BindingInfo) Columns() []Column { return b.columns }

// addScope registers a new named scope. A redeclared scope loses its
// columns and becomes ambiguous, signaled by a nil result.
func (b *BindingInfo) addScope(name string) *scopeInfo {
	if s, ok := b.scopes[name]; ok {
		s.columns = nil
		s.ambiguous = true
		return nil
	}
	s := &scopeInfo{columns: make(map[string]*saneql.IU)}
	b.scopes[name] = s
	return s
}

// addBinding makes a column visible under the given name. A name bound
// twice is marked ambiguous, raising only on use.
func (b *BindingInfo) addBinding(scope *scopeInfo, column string, iu *saneql.IU) {
	if scope != nil {
		if _, ok := scope.columns[column]; ok {
			scope.columns[column] = ambiguousIU
		} else {
			scope.columns[column] = iu
		}
	}
	if _, ok := b.columnLookup[column]; ok {
		b.columnLookup[column] = ambiguousIU
	} else {
		b.columnLookup[column] = iu
	}
	b.columns = append(b.columns, Column{Name: column, IU: iu})
}

// lookup resolves an unqualified column name. It returns nil when
// unknown and ambiguousIU when the name is not unique.
func (b *BindingInfo) lookup(name string) *saneql.IU {
	return b.columnLookup[name]
}

// lookupScoped resolves a scope-qualified column name. It returns
// ambiguousScope when the scope itself was redeclared.
func (b *BindingInfo) lookupScoped(binding, name string) *saneql.IU {
	if s, ok := b.scopes[binding]; ok {
		if s.ambiguous {
			return ambiguousScope
		}
		return s.columns[name]
	}
	return nil
}

// addAlias records the current column set under an alias name.
func (b *BindingInfo) addAlias(name string, columns []*saneql.IU) {
	if b.aliases == nil {
		b.aliases = make(map[string]*aliasInfo)
	}
	if a, ok := b.aliases[name]; ok {
		a.columns = nil
		a.ambiguous = true
		return
	}
	b.aliases[name] = &aliasInfo{columns: columns}
}

func (b *BindingInfo) lookupAlias(name string) *aliasInfo {
	return b.aliases[name]
}

// registerArgument binds a deferred-value argument for later
// re-analysis in the captured scope.
func (b *BindingInfo) registerArgument(name string, value ast.Expression, scope *BindingInfo) {
	if b.arguments == nil {
		b.arguments = make(map[string]argumentInfo)
	}
	b.arguments[name] = argumentInfo{kind: argumentValue, value: value, valueScope: scope}
}

// registerSymbolArgument binds a symbol argument to a fixed name.
func (b *BindingInfo) registerSymbolArgument(name, symbol string) {
	if b.arguments == nil {
		b.arguments = make(map[string]argumentInfo)
	}
	b.arguments[name] = argumentInfo{kind: argumentSymbol, symbol: symbol}
}

// lookupArgument walks the parent chain looking for a bound argument.
func (b *BindingInfo) lookupArgument(name string) (argumentInfo, bool) {
	for s := b; s != nil; s = s.parentScope {
		if info, ok := s.arguments[name]; ok {
			return info, true
		}
	}
	return argumentInfo{}, false
}

// join merges another binding after a join. Duplicate column names and
// duplicate scopes become ambiguous.
func (b *BindingInfo) join(other *BindingInfo) {
	b.columns = append(b.columns, other.columns...)
	for name, iu := range other.columnLookup {
		if _, ok := b.columnLookup[name]; ok {
			b.columnLookup[name] = ambiguousIU
		} else {
			b.columnLookup[name] = iu
		}
	}
	for name, s := range other.scopes {
		if existing, ok := b.scopes[name]; ok {
			existing.columns = nil
			existing.ambiguous = true
		} else {
			b.scopes[name] = &scopeInfo{columns: s.columns, ambiguous: s.ambiguous}
		}
	}
}

// clone copies the binding so that a semi or anti join can hand the
// joined scope to the condition while keeping one side's scope intact.
func (b *BindingInfo) clone() *BindingInfo {
	c := newBinding()
	c.columns = append([]Column(nil), b.columns...)
	for name, iu := range b.columnLookup {
		c.columnLookup[name] = iu
	}
	for name, s := range b.scopes {
		cols := make(map[string]*saneql.IU, len(s.columns))
		for n, iu := range s.columns {
			cols[n] = iu
		}
		c.scopes[name] = &scopeInfo{columns: cols, ambiguous: s.ambiguous}
	}
	for name, a := range b.aliases {
		if c.aliases == nil {
			c.aliases = make(map[string]*aliasInfo)
		}
		c.aliases[name] = &aliasInfo{columns: append([]*saneql.IU(nil), a.columns...), ambiguous: a.ambiguous}
	}
	for name, a := range b.arguments {
		if c.arguments == nil {
			c.arguments = make(map[string]argumentInfo)
		}
		c.arguments[name] = a
	}
	c.parentScope = b.parentScope
	c.gbs = b.gbs
	return c
}

// renameScopes replaces all named scopes with a single scope covering
// every visible column.
func (b *BindingInfo) renameScopes(name string) {
	b.scopes = make(map[string]*scopeInfo)
	s := b.addScope(name)
	for _, c := range b.columns {
		if _, ok := s.columns[c.Name]; ok {
			s.columns[c.Name] = ambiguousIU
		} else {
			s.columns[c.Name] = c.IU
		}
	}
}

// removeColumns drops the given IUs from the visible columns, rebuilding
// the lookup tables.
func (b *BindingInfo) removeColumns(dropped map[*saneql.IU]bool) {
	kept := b.columns[:0]
	for _, c := range b.columns {
		if !dropped[c.IU] {
			kept = append(kept, c)
		}
	}
	b.columns = kept
	b.columnLookup = make(map[string]*saneql.IU)
	for _, c := range b.columns {
		if _, ok := b.columnLookup[c.Name]; ok {
			b.columnLookup[c.Name] = ambiguousIU
		} else {
			b.columnLookup[c.Name] = c.IU
		}
	}
	for _, s := range b.scopes {
		for name, iu := range s.columns {
			if dropped[iu] {
				delete(s.columns, name)
			}
		}
	}
}

// groupByScope is installed on a binding while aggregate or window
// expressions are analyzed. Aggregate arguments see the pre-aggregation
// binding, the surrounding computation the post-aggregation one.
type groupByScope struct {
	post         *BindingInfo
	pre          *BindingInfo
	aggregations *[]algebra.Aggregation
	oldScope     *groupByScope
	window       bool
}

// installGroupByScope hooks a new group by scope into the binding. The
// caller must invoke the returned function when the context ends.
func installGroupByScope(post, pre *BindingInfo, aggregations *[]algebra.Aggregation, window bool) (*groupByScope, func()) {
	gbs := &groupByScope{post: post, pre: pre, aggregations: aggregations, oldScope: post.gbs, window: window}
	post.gbs = gbs
	return gbs, func() { post.gbs = gbs.oldScope }
}

func (b *BindingInfo) getGroupByScope() *groupByScope { return b.gbs }
