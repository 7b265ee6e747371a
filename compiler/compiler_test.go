package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saneql/saneql/schema"
)

func compile(t *testing.T, query string) *Result {
	t.Helper()
	result, err := Compile(schema.TPCH(), query)
	require.NoError(t, err)
	return result
}

func TestCompileScalar(t *testing.T) {
	tests := []struct {
		query string
		sql   string
	}{
		{"1 + 2", "select cast('1' as integer) + cast('2' as integer)"},
		{"'1998-09-02'::date", "select cast('1998-09-02' as date)"},
		{"case({1 = 1 => 'one'}, else := 'many')",
			"select case when cast('1' as integer) = cast('1' as integer) then 'one' else 'many' end"},
		{"case({1 => 'one'}, else := 'many', search := 2)",
			"select case cast('2' as integer) when cast('1' as integer) then 'one' else 'many' end"},
		{"'1998-09-02'::date.extract(year)", "select extract(year from (cast('1998-09-02' as date)))"},
		{"5 .between(1, 10)", "select cast('5' as integer) between cast('1' as integer) and cast('10' as integer)"},
		{"1 .in({1, 2})", "select cast('1' as integer) in (cast('1' as integer), cast('2' as integer))"},
		{"'abc'.like('a%')", "select 'abc' like 'a%'"},
		{"'hello'.substr(2, 3)", "select substring('hello' from cast('2' as integer) for cast('3' as integer))"},
		{"foreigncall('mod', returns := integer, arguments := {7, 3})",
			"select mod(cast('7' as integer), cast('3' as integer))"},
		{"foreigncall('||', returns := text, arguments := {'a', 'b', 'c'}, type := leftassoc)",
			"select ('a' || 'b') || 'c'"},
		{"let inc(x) := x + 1, inc(41)", "select cast('41' as integer) + cast('1' as integer)"},
	}
	for _, test := range tests {
		t.Run(test.query, func(t *testing.T) {
			result := compile(t, test.query)
			require.True(t, result.IsScalar)
			assert.Equal(t, test.sql, result.SQL)
		})
	}
}

func TestCompileTableScan(t *testing.T) {
	result := compile(t, "nation")
	require.False(t, result.IsScalar)
	assert.Equal(t,
		`select v_1 as n_nationkey, v_2 as n_name, v_3 as n_regionkey, v_4 as n_comment`+
			` from (select "n_nationkey" as v_1, "n_name" as v_2, "n_regionkey" as v_3, "n_comment" as v_4 from "nation") s`,
		result.SQL)
	require.Len(t, result.Columns, 4)
	assert.Equal(t, "n_nationkey", result.Columns[0].Name)
}

func TestCompileFilter(t *testing.T) {
	result := compile(t, "nation.filter(n_nationkey = 42)")
	assert.Equal(t,
		`select v_1 as n_nationkey, v_2 as n_name, v_3 as n_regionkey, v_4 as n_comment`+
			` from (select * from (select "n_nationkey" as v_1, "n_name" as v_2, "n_regionkey" as v_3, "n_comment" as v_4 from "nation") s`+
			` where v_1 = cast('42' as integer)) s`,
		result.SQL)
}

func TestCompileMap(t *testing.T) {
	result := compile(t, "region.map({double: r_regionkey * 2})")
	assert.Equal(t,
		`select v_1 as r_regionkey, v_2 as r_name, v_3 as r_comment, v_4 as double`+
			` from (select *, v_1 * cast('2' as integer) as v_4`+
			` from (select "r_regionkey" as v_1, "r_name" as v_2, "r_comment" as v_3 from "region") s) s`,
		result.SQL)
}

func TestCompileJoin(t *testing.T) {
	result := compile(t, "nation.join(region, n_regionkey = r_regionkey)")
	assert.Equal(t,
		`select v_1 as n_nationkey, v_2 as n_name, v_3 as n_regionkey, v_4 as n_comment, v_5 as r_regionkey, v_6 as r_name, v_7 as r_comment`+
			` from (select * from (select "n_nationkey" as v_1, "n_name" as v_2, "n_regionkey" as v_3, "n_comment" as v_4 from "nation") l`+
			` inner join (select "r_regionkey" as v_5, "r_name" as v_6, "r_comment" as v_7 from "region") r`+
			` on v_3 = v_5) s`,
		result.SQL)
}

func TestCompileSemiJoin(t *testing.T) {
	result := compile(t, "nation.join(region, n_regionkey = r_regionkey, type := exists)")
	assert.Equal(t,
		`select v_1 as n_nationkey, v_2 as n_name, v_3 as n_regionkey, v_4 as n_comment`+
			` from (select * from (select "n_nationkey" as v_1, "n_name" as v_2, "n_regionkey" as v_3, "n_comment" as v_4 from "nation") l`+
			` where exists(select * from (select "r_regionkey" as v_5, "r_name" as v_6, "r_comment" as v_7 from "region") r`+
			` where v_3 = v_5)) s`,
		result.SQL)
}

func TestCompileGroupBy(t *testing.T) {
	result := compile(t, "region.groupby({r_name}, {cnt: count()})")
	assert.Equal(t,
		`select v_1 as r_name, v_2 as cnt`+
			` from (select v_3 as v_1, count(*) as v_2`+
			` from (select "r_regionkey" as v_4, "r_name" as v_3, "r_comment" as v_5 from "region") s group by 1) s`,
		result.SQL)
}

func TestCompileDistinct(t *testing.T) {
	result := compile(t, "region.distinct()")
	assert.Equal(t,
		`select v_1 as r_regionkey, v_2 as r_name, v_3 as r_comment`+
			` from (select v_4 as v_1, v_5 as v_2, v_6 as v_3`+
			` from (select "r_regionkey" as v_4, "r_name" as v_5, "r_comment" as v_6 from "region") s group by 1, 2, 3) s`,
		result.SQL)
}

func TestCompileAggregate(t *testing.T) {
	result := compile(t, "region.aggregate(count())")
	require.True(t, result.IsScalar)
	assert.Equal(t,
		`select (select v_1 from (select count(*) as v_1`+
			` from (select "r_regionkey" as v_2, "r_name" as v_3, "r_comment" as v_4 from "region") s) s)`,
		result.SQL)
}

func TestCompileSetOperation(t *testing.T) {
	result := compile(t, "region.union(region)")
	assert.Equal(t,
		`select v_1 as r_regionkey, v_2 as r_name, v_3 as r_comment`+
			` from ((select v_4 as v_1, v_5 as v_2, v_6 as v_3`+
			` from (select "r_regionkey" as v_4, "r_name" as v_5, "r_comment" as v_6 from "region") l)`+
			` union (select v_7, v_8, v_9`+
			` from (select "r_regionkey" as v_7, "r_name" as v_8, "r_comment" as v_9 from "region") r)) s`,
		result.SQL)
}

func TestCompileOrderBy(t *testing.T) {
	result := compile(t, "region.orderby({r_name.desc()}, limit := 2)")
	assert.Equal(t,
		`select v_1 as r_regionkey, v_2 as r_name, v_3 as r_comment`+
			` from (select "r_regionkey" as v_1, "r_name" as v_2, "r_comment" as v_3 from "region") s`+
			` order by v_2 desc limit 2`,
		result.SQL)
}

func TestCompileProject(t *testing.T) {
	result := compile(t, "region.project({r_name})")
	assert.Equal(t,
		`select v_1 as r_name`+
			` from (select "r_regionkey" as v_2, "r_name" as v_1, "r_comment" as v_3 from "region") s`,
		result.SQL)
}

func TestCompileProjectOut(t *testing.T) {
	result := compile(t, "region.projectout({r_comment})")
	assert.Equal(t,
		`select v_1 as r_regionkey, v_2 as r_name`+
			` from (select "r_regionkey" as v_1, "r_name" as v_2, "r_comment" as v_3 from "region") s`,
		result.SQL)
}

func TestCompileWindow(t *testing.T) {
	result := compile(t, "region.window({rn: row_number()}, orderby := {r_regionkey})")
	assert.Equal(t,
		`select v_1 as r_regionkey, v_2 as r_name, v_3 as r_comment, v_4 as rn`+
			` from (select *, row_number() over (order by v_1) as v_4`+
			` from (select "r_regionkey" as v_1, "r_name" as v_2, "r_comment" as v_3 from "region") s) s`,
		result.SQL)
}

func TestCompileInlineTable(t *testing.T) {
	result := compile(t, "table({a: 1, b: 'x'})")
	assert.Equal(t,
		`select v_1 as a, v_2 as b`+
			` from (select * from (values(cast('1' as integer), 'x')) s(v_1, v_2)) s`,
		result.SQL)
}

func TestCompileLets(t *testing.T) {
	result := compile(t, "let big := 40 + 2, region.filter(r_regionkey < big)")
	assert.Equal(t,
		`select v_1 as r_regionkey, v_2 as r_name, v_3 as r_comment`+
			` from (select * from (select "r_regionkey" as v_1, "r_name" as v_2, "r_comment" as v_3 from "region") s`+
			` where v_1 < (cast('40' as integer) + cast('2' as integer))) s`,
		result.SQL)
}

func TestCompileScopedAccess(t *testing.T) {
	result := compile(t, "region.as(r).filter(r.r_name = 'ASIA')")
	assert.Equal(t,
		`select v_1 as r_regionkey, v_2 as r_name, v_3 as r_comment`+
			` from (select * from (select "r_regionkey" as v_1, "r_name" as v_2, "r_comment" as v_3 from "region") s`+
			` where v_2 = 'ASIA') s`,
		result.SQL)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		query string
		err   string
	}{
		{"nation.filter(", "1:15: expected expression, got end of input"},
		{"unknown_thing", "unknown table 'unknown_thing'"},
		{"nation.filter(n_nationkey)", "'filter' requires a boolean filter condition"},
	}
	for _, test := range tests {
		t.Run(test.query, func(t *testing.T) {
			_, err := Compile(schema.TPCH(), test.query)
			require.Error(t, err)
			assert.Equal(t, test.err, err.Error())
		})
	}
}
