// validation.go
package prefseditor

import (
	"fmt"
	"math"
	"strings"
)

// validName reports whether s is a legal module or entry name:
// non-empty, lowercase ASCII letters, digits, '_', '-' and '.', not starting or ending with '.'.
func validName(s string) bool {
	if s == "" || s[0] == '.' || s[len(s)-1] == '.' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-', c == '.':
		default:
			return false
		}
	}
	return true
}

// normalizeDefinition fills defaults and checks the definition for consistency.
func normalizeDefinition(def *Definition) error {
	if !validName(def.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, def.Name)
	}
	if !isValidType(def.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidType, def.Type)
	}

	switch def.Type {
	case TypeUint:
		if def.Base == 0 {
			def.Base = 10
		}
		if def.Base != 8 && def.Base != 10 && def.Base != 16 {
			return fmt.Errorf("%w: unsupported base %d", ErrInvalidInput, def.Base)
		}
	case TypeRange:
		if def.MaxValue == 0 {
			def.MaxValue = math.MaxUint32
		}
	case TypeEnum:
		if len(def.Choices) == 0 {
			return fmt.Errorf("%w: enum %q has no choices", ErrInvalidInput, def.Name)
		}
		seen := make(map[int]bool, len(def.Choices))
		for i, c := range def.Choices {
			if c.Name == "" || seen[c.Value] {
				return fmt.Errorf("%w: enum %q has an unnamed or duplicate choice", ErrInvalidInput, def.Name)
			}
			seen[c.Value] = true
			// Names are matched case-insensitively when parsing.
			for _, prev := range def.Choices[:i] {
				if strings.EqualFold(prev.Name, c.Name) {
					return fmt.Errorf("%w: enum %q has two choices named %q", ErrInvalidInput, def.Name, c.Name)
				}
			}
		}
	}

	if !def.Type.hasValue() {
		def.Default = nil
		return nil
	}
	if def.Default == nil {
		def.Default = zeroValue(def)
	}
	return checkValue(def.Type, def.Default, def.Choices, def.MaxValue)
}

// zeroValue is the default used when a definition leaves Default unset.
func zeroValue(def *Definition) Value {
	switch def.Type {
	case TypeBool:
		return BoolValue(false)
	case TypeUint:
		return UintValue(0)
	case TypeString:
		return StringValue("")
	case TypeEnum:
		return EnumValue(def.Choices[0].Value)
	case TypeFilename:
		return FilenameValue("")
	case TypeRange:
		return RangeValue(Range{})
	case TypeColor:
		return ColorValue(Color{})
	}
	return nil
}

// validateValue checks that v may be stored in e.
func validateValue(e *Entry, v Value) error {
	if !e.typ.hasValue() {
		return fmt.Errorf("%w: %s (%s)", ErrReadOnly, e.fullName, e.typ)
	}
	return checkValue(e.typ, v, e.choices, e.maxValue)
}

func checkValue(t PrefType, v Value, choices []Choice, maxValue uint32) error {
	if v == nil {
		return fmt.Errorf("%w: nil value", ErrInvalidValue)
	}
	if v.Type() != t {
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidValue, t, v.Type())
	}

	switch val := v.(type) {
	case EnumValue:
		for _, c := range choices {
			if c.Value == int(val) {
				return nil
			}
		}
		return fmt.Errorf("%w: %d is not one of the allowed choices", ErrInvalidValue, int(val))
	case RangeValue:
		for _, sr := range val {
			if sr.Low > sr.High {
				return fmt.Errorf("%w: subrange %d-%d is reversed", ErrInvalidValue, sr.Low, sr.High)
			}
			if sr.High > maxValue {
				return fmt.Errorf("%w: %d exceeds maximum %d", ErrInvalidValue, sr.High, maxValue)
			}
		}
	}
	return nil
}
