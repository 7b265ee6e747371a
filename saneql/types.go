package saneql

// TypeTag identifies the base type of a value.
type TypeTag int

const (
	TagUnknown TypeTag = iota
	TagBool
	TagInteger
	TagDecimal
	TagChar
	TagVarchar
	TagText
	TagDate
	TagInterval
)

// Type is a value type. It consists of a tag and a packed modifier that
// holds nullability and, depending on the tag, precision/scale or length.
type Type struct {
	tag      TypeTag
	modifier uint64
}

// Modifier layout. Bit 0 is the nullable flag. Decimal keeps the scale in
// bits 1..8 and the precision above, Char/Varchar keep the length above
// bit 0.
const (
	nullableBit  = 1
	scaleShift   = 1
	scaleBits    = 8
	scaleMask    = (1 << scaleBits) - 1
	decimalShift = scaleShift + scaleBits
	lengthShift  = 1
)

func UnknownType() Type  { return Type{tag: TagUnknown} }
func BoolType() Type     { return Type{tag: TagBool} }
func IntegerType() Type  { return Type{tag: TagInteger} }
func TextType() Type     { return Type{tag: TagText} }
func DateType() Type     { return Type{tag: TagDate} }
func IntervalType() Type { return Type{tag: TagInterval} }

func DecimalType(precision, scale int) Type {
	return Type{tag: TagDecimal, modifier: uint64(precision)<<decimalShift | uint64(scale)<<scaleShift}
}

func CharType(length int) Type {
	return Type{tag: TagChar, modifier: uint64(length) << lengthShift}
}

func VarcharType(length int) Type {
	return Type{tag: TagVarchar, modifier: uint64(length) << lengthShift}
}

func (t Type) Tag() TypeTag { return t.tag }

func (t Type) IsNullable() bool { return t.modifier&nullableBit != 0 }

// WithNullable returns the type with the nullable flag set accordingly.
func (t Type) WithNullable(nullable bool) Type {
	t.modifier &^= nullableBit
	if nullable {
		t.modifier |= nullableBit
	}
	return t
}

// AsNullable returns the nullable version of the type.
func (t Type) AsNullable() Type { return t.WithNullable(true) }

// Precision returns the precision of a decimal type.
func (t Type) Precision() int { return int(t.modifier >> decimalShift) }

// Scale returns the scale of a decimal type.
func (t Type) Scale() int { return int((t.modifier >> scaleShift) & scaleMask) }

// Length returns the length of a char or varchar type.
func (t Type) Length() int { return int(t.modifier >> lengthShift) }

// Name returns the type name for error reporting.
func (t Type) Name() string {
	switch t.tag {
	case TagUnknown:
		return "unknown"
	case TagBool:
		return "boolean"
	case TagInteger:
		return "integer"
	case TagDecimal:
		return "decimal"
	case TagChar:
		return "char"
	case TagVarchar:
		return "varchar"
	case TagText:
		return "text"
	case TagDate:
		return "date"
	case TagInterval:
		return "interval"
	}
	panic("unexhaustive type tag match")
}

// IsText reports whether the type is one of the string types.
func (t Type) IsText() bool {
	return t.tag == TagChar || t.tag == TagVarchar || t.tag == TagText
}

// IsNumeric reports whether the type is integer or decimal.
func (t Type) IsNumeric() bool {
	return t.tag == TagInteger || t.tag == TagDecimal
}
