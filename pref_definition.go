package prefseditor

import (
	"fmt"
	"strings"
)

// PrefType is the type tag of a preference entry.
// It is fixed when the entry is defined and never changes afterwards.
type PrefType string

// Type tags for preference entries.
const (
	// TypeBool is a TRUE/FALSE toggle.
	TypeBool PrefType = "bool"
	// TypeUint is an unsigned 32-bit integer shown in base 8, 10 or 16.
	TypeUint PrefType = "uint"
	// TypeString is free text.
	TypeString PrefType = "string"
	// TypeEnum is one of a fixed list of choices.
	TypeEnum PrefType = "enum"
	// TypeFilename is a path to a file.
	TypeFilename PrefType = "filename"
	// TypeRange is a list of unsigned integer ranges bounded by a maximum.
	TypeRange PrefType = "range"
	// TypeColor is an RGB color with 16 bits per channel.
	TypeColor PrefType = "color"
	// TypeUAT is a table edited elsewhere; it carries no value here.
	TypeUAT PrefType = "uat"
	// TypeStaticText is a label only.
	TypeStaticText PrefType = "static_text"
	// TypeObsolete marks an entry kept so old configuration still parses.
	TypeObsolete PrefType = "obsolete"
)

var validTypes = map[PrefType]bool{
	TypeBool:       true,
	TypeUint:       true,
	TypeString:     true,
	TypeEnum:       true,
	TypeFilename:   true,
	TypeRange:      true,
	TypeColor:      true,
	TypeUAT:        true,
	TypeStaticText: true,
	TypeObsolete:   true,
}

func isValidType(t PrefType) bool {
	return validTypes[t]
}

// hasValue reports whether entries of this type carry a value.
func (t PrefType) hasValue() bool {
	switch t {
	case TypeUAT, TypeStaticText, TypeObsolete:
		return false
	}
	return true
}

// Editable reports whether entries of this type are listed by the walker.
func (t PrefType) Editable() bool {
	return t != TypeStaticText && t != TypeObsolete
}

// Choice is one option of an enumeration entry.
type Choice struct {
	// Name is the identifier used in the serialized form.
	Name string `json:"name"`
	// Description is the human readable label.
	Description string `json:"description"`
	// Value is the numeric identifier stored in an EnumValue.
	Value int `json:"value"`
}

// Definition describes an entry to be added to a Module with Registry.Define.
type Definition struct {
	// Name is the local name, unique within the module. Lowercase letters, digits, '_' and '.'.
	Name string `json:"name"`
	// Title is the short human readable label.
	Title string `json:"title,omitempty"`
	// Description is the longer help text; it is searched by the editor.
	Description string `json:"description,omitempty"`
	// Type is the entry's type tag.
	Type PrefType `json:"type"`
	// Default is the default value. It must match Type and is ignored for types without a value.
	Default Value `json:"-"`
	// Choices lists the options of a TypeEnum entry.
	Choices []Choice `json:"choices,omitempty"`
	// Base is the display and parse base of a TypeUint entry: 8, 10 or 16. Zero means 10.
	Base int `json:"base,omitempty"`
	// MaxValue bounds a TypeRange entry. Zero means the full uint32 range.
	MaxValue uint32 `json:"max_value,omitempty"`
	// Sensitive entries are encrypted at rest when the registry has an Encryptor.
	Sensitive bool `json:"sensitive,omitempty"`
}

// typeName returns the short display name of a type tag, or "" for tags that are not listed.
func typeName(t PrefType) string {
	switch t {
	case TypeBool:
		return "Boolean"
	case TypeUint:
		return "Unsigned integer"
	case TypeString:
		return "String"
	case TypeEnum:
		return "Choice"
	case TypeFilename:
		return "Filename"
	case TypeRange:
		return "Range"
	case TypeColor:
		return "Color"
	case TypeUAT:
		return "UAT"
	default:
		return ""
	}
}

func typeDescription(e *Entry) string {
	switch e.typ {
	case TypeBool:
		return "TRUE or FALSE (case-insensitive)"
	case TypeUint:
		switch e.base {
		case 8:
			return "An octal unsigned integer"
		case 16:
			return "A hexadecimal unsigned integer"
		default:
			return "A decimal unsigned integer"
		}
	case TypeString:
		return "A string"
	case TypeEnum:
		names := make([]string, 0, len(e.choices))
		for _, c := range e.choices {
			names = append(names, c.Name)
		}
		return fmt.Sprintf("One of: %s\n(case-insensitive).", strings.Join(names, ", "))
	case TypeFilename:
		return "A path to a file"
	case TypeRange:
		return fmt.Sprintf("A string denoting a positive integer range (e.g., \"1-20,30-40\"), at most %d", e.maxValue)
	case TypeColor:
		return "A six-digit hexadecimal RGB color triplet (e.g. fce94f)"
	case TypeUAT:
		return "Configuration data stored in its own table"
	default:
		return ""
	}
}
