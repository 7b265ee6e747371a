package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saneql/saneql/compiler"
	"github.com/saneql/saneql/schema"
)

func TestShow(t *testing.T) {
	scan := NewNode("table scan")
	scan.AddField("table", "region")
	scan.AddField("r_regionkey", "v_1")

	filter := NewNode("select")
	filter.AddField("condition", "v_1 = cast('1' as integer)")
	filter.AddChild("source", scan)

	out := Show(filter).String()
	assert.Contains(t, out, "rankdir=LR")
	assert.Contains(t, out, "select_0")
	assert.Contains(t, out, "table_scan_0")
	assert.Contains(t, out, "<f0> select")
	assert.Contains(t, out, "<condition> condition: v_1 = cast('1' as integer)")
	assert.Contains(t, out, "select_0:source")
}

func TestShowDuplicateNames(t *testing.T) {
	left := NewNode("table scan")
	right := NewNode("table scan")
	join := NewNode("join")
	join.AddChild("left", left)
	join.AddChild("right", right)

	out := Show(join).String()
	assert.Contains(t, out, "table_scan_0")
	assert.Contains(t, out, "table_scan_1")
}

func TestEscapeRecordText(t *testing.T) {
	assert.Equal(t, `v_1 \<\> cast(\"x\" as text)`, escapeRecordText(`v_1 <> cast("x" as text)`))
	assert.Equal(t, `\{a\|b\}`, escapeRecordText(`{a|b}`))
}

func describeQuery(t *testing.T, query string) *Node {
	t.Helper()
	result, err := compiler.Compile(schema.TPCH(), query)
	require.NoError(t, err)
	require.False(t, result.IsScalar)
	return Describe(result.Table)
}

func TestDescribeFilter(t *testing.T) {
	root := describeQuery(t, "region.filter(r_regionkey = 1)")
	assert.Equal(t, "select", root.Name)
	require.Len(t, root.Fields, 1)
	assert.Equal(t, "condition", root.Fields[0].Name)
	assert.Equal(t, "v_1 = cast('1' as integer)", root.Fields[0].Value)

	require.Len(t, root.Children, 1)
	scan := root.Children[0].Node
	assert.Equal(t, "source", root.Children[0].Name)
	assert.Equal(t, "table scan", scan.Name)
	require.Len(t, scan.Fields, 4)
	assert.Equal(t, Field{Name: "table", Value: "region"}, scan.Fields[0])
	assert.Equal(t, Field{Name: "r_regionkey", Value: "v_1"}, scan.Fields[1])
	assert.Equal(t, Field{Name: "r_name", Value: "v_2"}, scan.Fields[2])
	assert.Equal(t, Field{Name: "r_comment", Value: "v_3"}, scan.Fields[3])
}

func TestDescribeGroupBy(t *testing.T) {
	root := describeQuery(t, "region.groupby({r_name}, {cnt: count()})")
	assert.Equal(t, "group by", root.Name)
	require.Len(t, root.Fields, 2)
	assert.Equal(t, Field{Name: "v_1", Value: "v_2"}, root.Fields[0])
	assert.Equal(t, Field{Name: "v_3", Value: "count"}, root.Fields[1])

	scan := root.Children[0].Node
	assert.Equal(t, Field{Name: "r_name", Value: "v_2"}, scan.Fields[2])
}

func TestDescribeJoin(t *testing.T) {
	root := describeQuery(t, "nation.join(region, n_regionkey = r_regionkey)")
	assert.Equal(t, "join", root.Name)
	require.Len(t, root.Fields, 2)
	assert.Equal(t, Field{Name: "type", Value: "inner"}, root.Fields[0])
	assert.Equal(t, "condition", root.Fields[1].Name)

	require.Len(t, root.Children, 2)
	assert.Equal(t, "left", root.Children[0].Name)
	assert.Equal(t, "right", root.Children[1].Name)
	assert.Equal(t, "table scan", root.Children[0].Node.Name)
	assert.Equal(t, "table scan", root.Children[1].Node.Name)
}
