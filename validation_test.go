package prefseditor

import (
	"errors"
	"math"
	"testing"
)

func TestIsValidType(t *testing.T) {
	valid := []PrefType{TypeBool, TypeUint, TypeString, TypeEnum, TypeFilename, TypeRange,
		TypeColor, TypeUAT, TypeStaticText, TypeObsolete}
	invalid := []PrefType{"invalid", "list", "", "boolean", "number"}

	for _, tt := range valid {
		if !isValidType(tt) {
			t.Errorf("Expected type '%s' to be valid", tt)
		}
	}
	for _, tt := range invalid {
		if isValidType(tt) {
			t.Errorf("Expected type '%s' to be invalid", tt)
		}
	}
}

func TestPrefType_HasValue(t *testing.T) {
	for _, tt := range []PrefType{TypeUAT, TypeStaticText, TypeObsolete} {
		if tt.hasValue() {
			t.Errorf("Expected %s to carry no value", tt)
		}
	}
	if !TypeColor.hasValue() {
		t.Error("Expected color to carry a value")
	}
	if TypeObsolete.Editable() || TypeStaticText.Editable() {
		t.Error("Expected obsolete and static text to be hidden")
	}
	if !TypeUAT.Editable() {
		t.Error("Expected uat to be listed")
	}
}

func TestValidName(t *testing.T) {
	valid := []string{"gui", "tcp.check_checksum", "ip-v4", "a1"}
	invalid := []string{"", "Gui", "has space", ".lead", "trail.", "ünïcode"}

	for _, s := range valid {
		if !validName(s) {
			t.Errorf("Expected name %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if validName(s) {
			t.Errorf("Expected name %q to be invalid", s)
		}
	}
}

func TestCheckValue(t *testing.T) {
	choices := []Choice{{Name: "a", Value: 1}, {Name: "b", Value: 2}}

	tests := []struct {
		name    string
		typ     PrefType
		value   Value
		wantErr bool
	}{
		{"bool", TypeBool, BoolValue(true), false},
		{"bool_wrong_variant", TypeBool, StringValue("true"), true},
		{"nil", TypeString, nil, true},
		{"uint", TypeUint, UintValue(math.MaxUint32), false},
		{"filename_not_string", TypeString, FilenameValue("/tmp"), true},
		{"enum_member", TypeEnum, EnumValue(2), false},
		{"enum_non_member", TypeEnum, EnumValue(3), true},
		{"range_ok", TypeRange, RangeValue(Range{{1, 10}}), false},
		{"range_reversed", TypeRange, RangeValue(Range{{10, 1}}), true},
		{"range_over_max", TypeRange, RangeValue(Range{{1, 101}}), true},
		{"range_empty", TypeRange, RangeValue(Range{}), false},
		{"color", TypeColor, ColorValue(Color{}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkValue(tt.typ, tt.value, choices, 100)
			if tt.wantErr && !errors.Is(err, ErrInvalidValue) {
				t.Errorf("Expected ErrInvalidValue, got: %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestNormalizeDefinition_DuplicateChoices(t *testing.T) {
	tests := []struct {
		name    string
		choices []Choice
	}{
		{"same_value", []Choice{{Name: "a", Value: 1}, {Name: "b", Value: 1}}},
		{"same_name", []Choice{{Name: "auto", Value: 1}, {Name: "auto", Value: 2}}},
		{"same_name_other_case", []Choice{{Name: "Auto", Value: 1}, {Name: "AUTO", Value: 2}}},
		{"unnamed", []Choice{{Name: "", Value: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := Definition{Name: "layout", Type: TypeEnum, Choices: tt.choices}
			if err := normalizeDefinition(&def); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got: %v", err)
			}
		})
	}
}

func TestValidateValue_ReadOnly(t *testing.T) {
	e := &Entry{fullName: "tls.keys_list", typ: TypeUAT}
	if err := validateValue(e, StringValue("x")); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Expected ErrReadOnly, got: %v", err)
	}
}
