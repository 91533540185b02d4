package prefseditor

import (
	"strconv"
)

// Value is the current or default value of an Entry.
// It is a closed set of variants; use a type switch to dispatch on it.
type Value interface {
	// Type reports the type tag matching this variant.
	Type() PrefType
	isValue()
}

// BoolValue is the value of a TypeBool entry.
type BoolValue bool

// UintValue is the value of a TypeUint entry.
type UintValue uint32

// StringValue is the value of a TypeString entry.
type StringValue string

// EnumValue is the identifier of the selected Choice of a TypeEnum entry.
type EnumValue int

// FilenameValue is the value of a TypeFilename entry.
type FilenameValue string

// RangeValue is the value of a TypeRange entry.
type RangeValue Range

// ColorValue is the value of a TypeColor entry.
type ColorValue Color

func (BoolValue) Type() PrefType     { return TypeBool }
func (UintValue) Type() PrefType     { return TypeUint }
func (StringValue) Type() PrefType   { return TypeString }
func (EnumValue) Type() PrefType     { return TypeEnum }
func (FilenameValue) Type() PrefType { return TypeFilename }
func (RangeValue) Type() PrefType    { return TypeRange }
func (ColorValue) Type() PrefType    { return TypeColor }

func (BoolValue) isValue()     {}
func (UintValue) isValue()     {}
func (StringValue) isValue()   {}
func (EnumValue) isValue()     {}
func (FilenameValue) isValue() {}
func (RangeValue) isValue()    {}
func (ColorValue) isValue()    {}

// cloneValue returns a copy of v that shares no memory with it.
func cloneValue(v Value) Value {
	if r, ok := v.(RangeValue); ok {
		return RangeValue(Range(r).Clone())
	}
	return v
}

// valuesEqual compares two values of any variant.
// RangeValue is a slice and must not reach the interface comparison below.
func valuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, aok := a.(RangeValue)
	rb, bok := b.(RangeValue)
	if aok || bok {
		return aok && bok && Range(ra).Equal(Range(rb))
	}
	return a == b
}

func formatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func formatUint(v uint32, base int) string {
	switch base {
	case 16:
		return "0x" + strconv.FormatUint(uint64(v), 16)
	case 8:
		if v == 0 {
			return "0"
		}
		return "0" + strconv.FormatUint(uint64(v), 8)
	default:
		return strconv.FormatUint(uint64(v), 10)
	}
}
