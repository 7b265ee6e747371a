package semantic

import (
	"github.com/saneql/saneql/saneql"
)

type builtin int

const (
	builtinAsc builtin = iota
	builtinDesc
	builtinCollate
	builtinIs
	builtinLike
	builtinSubstr
	builtinBetween
	builtinIn
	builtinExtract
	builtinCase
	builtinFilter
	builtinJoin
	builtinGensym
	builtinGroupBy
	builtinAggregate
	builtinDistinct
	builtinOrderBy
	builtinMap
	builtinProject
	builtinProjectOut
	builtinUnion
	builtinExcept
	builtinIntersect
	builtinWindow
	builtinAs
	builtinAlias
	builtinAggCount
	builtinAggSum
	builtinAggAvg
	builtinAggMin
	builtinAggMax
	builtinWindowRowNumber
	builtinWindowRank
	builtinWindowDenseRank
	builtinWindowNTile
	builtinWindowLead
	builtinWindowLag
	builtinWindowFirstValue
	builtinWindowLastValue
	builtinTable
	builtinForeignCall
	// builtinLet marks calls to user-defined functions.
	builtinLet
)

type typeCategory int

const (
	categoryScalar typeCategory = iota
	categoryTable
	categoryExpression
	categoryExpressionList
	categorySymbol
)

type argumentSpec struct {
	name       string
	category   typeCategory
	hasDefault bool
}

type signature struct {
	builtin   builtin
	arguments []argumentSpec
}

// functionRegistry is a set of named signatures with an optional parent
// to inherit from.
type functionRegistry struct {
	parent    *functionRegistry
	functions map[string]*signature
}

func (r *functionRegistry) lookup(name string) *signature {
	for iter := r; iter != nil; iter = iter.parent {
		if sig, ok := iter.functions[name]; ok {
			return sig
		}
	}
	return nil
}

// Functions defined on all scalar types.
var scalarFunctions = &functionRegistry{
	functions: map[string]*signature{
		"asc":     {builtin: builtinAsc},
		"desc":    {builtin: builtinDesc},
		"collate": {builtin: builtinCollate, arguments: []argumentSpec{{"collate", categorySymbol, false}}},
		"is":      {builtin: builtinIs, arguments: []argumentSpec{{"other", categoryScalar, false}}},
		"between": {builtin: builtinBetween, arguments: []argumentSpec{{"lower", categoryScalar, false}, {"upper", categoryScalar, false}}},
		"in":      {builtin: builtinIn, arguments: []argumentSpec{{"values", categoryExpressionList, false}}},
	},
}

// Functions defined on text types.
var textFunctions = &functionRegistry{
	parent: scalarFunctions,
	functions: map[string]*signature{
		"like":   {builtin: builtinLike, arguments: []argumentSpec{{"pattern", categoryScalar, false}}},
		"substr": {builtin: builtinSubstr, arguments: []argumentSpec{{"from", categoryScalar, true}, {"for", categoryScalar, true}}},
	},
}

// Functions defined on dates.
var dateFunctions = &functionRegistry{
	parent: scalarFunctions,
	functions: map[string]*signature{
		"extract": {builtin: builtinExtract, arguments: []argumentSpec{{"part", categorySymbol, false}}},
	},
}

// Functions defined on tables.
var tableFunctions = &functionRegistry{
	functions: map[string]*signature{
		"filter":     {builtin: builtinFilter, arguments: []argumentSpec{{"condition", categoryExpression, false}}},
		"join":       {builtin: builtinJoin, arguments: []argumentSpec{{"table", categoryTable, false}, {"on", categoryExpression, false}, {"type", categorySymbol, true}}},
		"groupby":    {builtin: builtinGroupBy, arguments: []argumentSpec{{"groups", categoryExpressionList, false}, {"aggregates", categoryExpressionList, true}, {"type", categorySymbol, true}, {"sets", categoryExpressionList, true}}},
		"aggregate":  {builtin: builtinAggregate, arguments: []argumentSpec{{"aggregate", categoryExpression, false}}},
		"distinct":   {builtin: builtinDistinct},
		"orderby":    {builtin: builtinOrderBy, arguments: []argumentSpec{{"expressions", categoryExpressionList, false}, {"limit", categoryExpression, true}, {"offset", categoryExpression, true}}},
		"map":        {builtin: builtinMap, arguments: []argumentSpec{{"expressions", categoryExpressionList, false}}},
		"project":    {builtin: builtinProject, arguments: []argumentSpec{{"expressions", categoryExpressionList, false}}},
		"projectout": {builtin: builtinProjectOut, arguments: []argumentSpec{{"columns", categoryExpressionList, false}}},
		"union":      {builtin: builtinUnion, arguments: []argumentSpec{{"table", categoryTable, false}, {"all", categoryExpression, true}}},
		"except":     {builtin: builtinExcept, arguments: []argumentSpec{{"table", categoryTable, false}, {"all", categoryExpression, true}}},
		"intersect":  {builtin: builtinIntersect, arguments: []argumentSpec{{"table", categoryTable, false}, {"all", categoryExpression, true}}},
		"window":     {builtin: builtinWindow, arguments: []argumentSpec{{"expressions", categoryExpressionList, false}, {"partitionby", categoryExpressionList, true}, {"orderby", categoryExpressionList, true}, {"framebegin", categoryExpression, true}, {"frameend", categoryExpression, true}, {"frametype", categorySymbol, true}}},
		"as":         {builtin: builtinAs, arguments: []argumentSpec{{"name", categorySymbol, false}}},
		"alias":      {builtin: builtinAlias, arguments: []argumentSpec{{"name", categorySymbol, false}}},
	},
}

// The free functions.
var freeFunctions = &functionRegistry{
	functions: map[string]*signature{
		"count":       {builtin: builtinAggCount, arguments: []argumentSpec{{"value", categoryExpression, true}, {"distinct", categoryExpression, true}}},
		"sum":         {builtin: builtinAggSum, arguments: []argumentSpec{{"value", categoryExpression, false}, {"distinct", categoryExpression, true}}},
		"avg":         {builtin: builtinAggAvg, arguments: []argumentSpec{{"value", categoryExpression, false}, {"distinct", categoryExpression, true}}},
		"min":         {builtin: builtinAggMin, arguments: []argumentSpec{{"value", categoryExpression, false}}},
		"max":         {builtin: builtinAggMax, arguments: []argumentSpec{{"value", categoryExpression, false}}},
		"row_number":  {builtin: builtinWindowRowNumber},
		"rank":        {builtin: builtinWindowRank, arguments: []argumentSpec{{"value", categoryExpression, false}}},
		"dense_rank":  {builtin: builtinWindowDenseRank, arguments: []argumentSpec{{"value", categoryExpression, false}}},
		"ntile":       {builtin: builtinWindowNTile, arguments: []argumentSpec{{"parts", categoryExpression, false}}},
		"lead":        {builtin: builtinWindowLead, arguments: []argumentSpec{{"value", categoryExpression, false}, {"offset", categoryExpression, true}, {"default", categoryExpression, true}}},
		"lag":         {builtin: builtinWindowLag, arguments: []argumentSpec{{"value", categoryExpression, false}, {"offset", categoryExpression, true}, {"default", categoryExpression, true}}},
		"first_value": {builtin: builtinWindowFirstValue, arguments: []argumentSpec{{"value", categoryExpression, false}}},
		"last_value":  {builtin: builtinWindowLastValue, arguments: []argumentSpec{{"value", categoryExpression, false}}},
		"table":       {builtin: builtinTable, arguments: []argumentSpec{{"values", categoryExpressionList, false}}},
		"case":        {builtin: builtinCase, arguments: []argumentSpec{{"cases", categoryExpressionList, false}, {"else", categoryExpression, true}, {"search", categoryExpression, true}}},
		"gensym":      {builtin: builtinGensym, arguments: []argumentSpec{{"name", categorySymbol, true}}},
		"foreigncall": {builtin: builtinForeignCall, arguments: []argumentSpec{{"name", categoryExpression, false}, {"returns", categorySymbol, false}, {"arguments", categoryExpressionList, true}, {"type", categorySymbol, true}}},
	},
}

// functionsForType finds the method registry for a scalar receiver.
func functionsForType(t saneql.Type) *functionRegistry {
	switch t.Tag() {
	case saneql.TagUnknown, saneql.TagBool, saneql.TagInteger, saneql.TagDecimal, saneql.TagInterval:
		return scalarFunctions
	case saneql.TagChar, saneql.TagVarchar, saneql.TagText:
		return textFunctions
	case saneql.TagDate:
		return dateFunctions
	default:
		panic("unexhaustive type tag match")
	}
}
