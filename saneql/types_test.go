package saneql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeModifiers(t *testing.T) {
	d := DecimalType(12, 2)
	assert.Equal(t, TagDecimal, d.Tag())
	assert.Equal(t, 12, d.Precision())
	assert.Equal(t, 2, d.Scale())
	assert.False(t, d.IsNullable())

	n := d.AsNullable()
	assert.True(t, n.IsNullable())
	assert.Equal(t, 12, n.Precision())
	assert.Equal(t, 2, n.Scale())
	assert.Equal(t, d, n.WithNullable(false))

	c := CharType(25).AsNullable()
	assert.Equal(t, 25, c.Length())
	assert.True(t, c.IsNullable())

	v := VarcharType(152)
	assert.Equal(t, 152, v.Length())
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		typ  Type
		name string
	}{
		{UnknownType(), "unknown"},
		{BoolType(), "boolean"},
		{IntegerType(), "integer"},
		{DecimalType(12, 2), "decimal"},
		{CharType(25), "char"},
		{VarcharType(152), "varchar"},
		{TextType(), "text"},
		{DateType(), "date"},
		{IntervalType(), "interval"},
	}
	for _, test := range tests {
		assert.Equal(t, test.name, test.typ.Name())
		assert.Equal(t, test.name, test.typ.AsNullable().Name())
	}
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, CharType(1).IsText())
	assert.True(t, VarcharType(1).IsText())
	assert.True(t, TextType().IsText())
	assert.False(t, IntegerType().IsText())

	assert.True(t, IntegerType().IsNumeric())
	assert.True(t, DecimalType(4, 1).IsNumeric())
	assert.False(t, TextType().IsNumeric())
	assert.False(t, DateType().IsNumeric())
}
