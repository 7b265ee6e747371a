package schema

import (
	"github.com/saneql/saneql/saneql"
)

// TPCH builds the TPC-H catalog.
func TPCH() *Schema {
	integer := saneql.IntegerType()
	date := saneql.DateType()
	money := saneql.DecimalType(12, 2)
	char := saneql.CharType
	varchar := saneql.VarcharType

	s := New()
	s.CreateTable("part", []Column{
		{"p_partkey", integer},
		{"p_name", varchar(55)},
		{"p_mfgr", char(25)},
		{"p_brand", char(10)},
		{"p_type", varchar(25)},
		{"p_size", integer},
		{"p_container", char(10)},
		{"p_retailprice", money},
		{"p_comment", varchar(23)},
	})
	s.CreateTable("region", []Column{
		{"r_regionkey", integer},
		{"r_name", char(25)},
		{"r_comment", varchar(152)},
	})
	s.CreateTable("nation", []Column{
		{"n_nationkey", integer},
		{"n_name", char(25)},
		{"n_regionkey", integer},
		{"n_comment", varchar(152)},
	})
	s.CreateTable("supplier", []Column{
		{"s_suppkey", integer},
		{"s_name", char(25)},
		{"s_address", varchar(40)},
		{"s_nationkey", integer},
		{"s_phone", char(15)},
		{"s_acctbal", money},
		{"s_comment", varchar(101)},
	})
	s.CreateTable("partsupp", []Column{
		{"ps_partkey", integer},
		{"ps_suppkey", integer},
		{"ps_availqty", integer},
		{"ps_supplycost", money},
		{"ps_comment", varchar(199)},
	})
	s.CreateTable("customer", []Column{
		{"c_custkey", integer},
		{"c_name", varchar(25)},
		{"c_address", varchar(40)},
		{"c_nationkey", integer},
		{"c_phone", char(15)},
		{"c_acctbal", money},
		{"c_mktsegment", char(10)},
		{"c_comment", varchar(117)},
	})
	s.CreateTable("orders", []Column{
		{"o_orderkey", integer},
		{"o_custkey", integer},
		{"o_orderstatus", char(1)},
		{"o_totalprice", money},
		{"o_orderdate", date},
		{"o_orderpriority", char(15)},
		{"o_clerk", char(15)},
		{"o_shippriority", integer},
		{"o_comment", varchar(79)},
	})
	s.CreateTable("lineitem", []Column{
		{"l_orderkey", integer},
		{"l_partkey", integer},
		{"l_suppkey", integer},
		{"l_linenumber", integer},
		{"l_quantity", money},
		{"l_extendedprice", money},
		{"l_discount", money},
		{"l_tax", money},
		{"l_returnflag", char(1)},
		{"l_linestatus", char(1)},
		{"l_shipdate", date},
		{"l_commitdate", date},
		{"l_receiptdate", date},
		{"l_shipinstruct", char(25)},
		{"l_shipmode", char(10)},
		{"l_comment", varchar(44)},
	})
	return s
}
