package prefseditor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_FullNamesFollowModulePath(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "gui.auto_scroll", f.autoScroll.FullName())
	// The Protocols grouping module has no name, so TCP entries are not prefixed by it.
	assert.Equal(t, "tcp.ports", f.tcpPorts.FullName())
	assert.Equal(t, "tls.psk", f.psk.FullName())

	e, ok := f.reg.Lookup("tcp.window_scale")
	require.True(t, ok)
	assert.Same(t, f.tcpWindow, e)

	m, ok := f.reg.Module("tcp")
	require.True(t, ok)
	assert.Equal(t, "TCP", m.Title())
	assert.Equal(t, "Protocols", m.Parent().Title())
}

func TestRegistry_RegisterModuleErrors(t *testing.T) {
	reg := New(WithLogger(&MockLogger{}))

	_, err := reg.RegisterModule(nil, "", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = reg.RegisterModule(nil, "Bad Name", "", "")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = reg.RegisterModule(nil, "ip", "", "")
	require.NoError(t, err)
	_, err = reg.RegisterModule(nil, "ip", "", "")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRegistry_DefineErrors(t *testing.T) {
	reg := New(WithLogger(&MockLogger{}))
	m, err := reg.RegisterModule(nil, "ip", "IP", "")
	require.NoError(t, err)

	tests := []struct {
		name string
		def  Definition
		want error
	}{
		{"bad_name", Definition{Name: "Has Space", Type: TypeBool}, ErrInvalidName},
		{"bad_type", Definition{Name: "x", Type: "list"}, ErrInvalidType},
		{"wrong_default", Definition{Name: "x", Type: TypeBool, Default: StringValue("yes")}, ErrInvalidValue},
		{"enum_without_choices", Definition{Name: "x", Type: TypeEnum}, ErrInvalidInput},
		{"enum_duplicate_names", Definition{Name: "x", Type: TypeEnum,
			Choices: []Choice{{Name: "auto", Value: 1}, {Name: "Auto", Value: 2}}}, ErrInvalidInput},
		{"enum_default_not_choice", Definition{Name: "x", Type: TypeEnum, Default: EnumValue(9),
			Choices: []Choice{{Name: "a", Value: 1}}}, ErrInvalidValue},
		{"uint_bad_base", Definition{Name: "x", Type: TypeUint, Base: 2}, ErrInvalidInput},
		{"range_default_too_big", Definition{Name: "x", Type: TypeRange, MaxValue: 10,
			Default: RangeValue(Range{{Low: 1, High: 11}})}, ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Define(m, tt.def)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = reg.Define(nil, Definition{Name: "x", Type: TypeBool})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = reg.Define(m, Definition{Name: "dup", Type: TypeBool})
	require.NoError(t, err)
	_, err = reg.Define(m, Definition{Name: "dup", Type: TypeString})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRegistry_DefaultsFilledIn(t *testing.T) {
	reg := New(WithLogger(&MockLogger{}))
	m, _ := reg.RegisterModule(nil, "x", "", "")

	u, err := reg.Define(m, Definition{Name: "u", Type: TypeUint})
	require.NoError(t, err)
	assert.Equal(t, 10, u.Base())
	assert.Equal(t, UintValue(0), reg.Value(u))

	r, err := reg.Define(m, Definition{Name: "r", Type: TypeRange})
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), r.MaxValue())
	assert.Equal(t, "", reg.ToDisplayString(r, false))

	en, err := reg.Define(m, Definition{Name: "e", Type: TypeEnum, Choices: []Choice{{Name: "first", Value: 7}}})
	require.NoError(t, err)
	assert.Equal(t, EnumValue(7), reg.Value(en))

	uat, err := reg.Define(m, Definition{Name: "t", Type: TypeUAT, Default: StringValue("ignored")})
	require.NoError(t, err)
	assert.Nil(t, reg.Value(uat))
}

func TestRegistry_TypeNames(t *testing.T) {
	f := newFixture(t)
	reg := f.reg

	assert.Equal(t, "Boolean", reg.TypeName(f.autoScroll))
	assert.Equal(t, "Unsigned integer", reg.TypeName(f.recent))
	assert.Equal(t, "Choice", reg.TypeName(f.layout))
	assert.Equal(t, "Range", reg.TypeName(f.tcpPorts))
	assert.Equal(t, "UAT", reg.TypeName(f.keys))
	assert.Equal(t, "", reg.TypeName(f.oldTCP))
	assert.Equal(t, "", reg.TypeName(nil))

	assert.Equal(t, "A hexadecimal unsigned integer", reg.TypeDescription(f.tcpWindow))
	assert.Contains(t, reg.TypeDescription(f.layout), "stacked, side_by_side, single")
	assert.Contains(t, reg.TypeDescription(f.tcpPorts), "65535")
}

func TestRegistry_ToDisplayString(t *testing.T) {
	f := newFixture(t)
	reg := f.reg

	tests := []struct {
		entry *Entry
		want  string
	}{
		{f.autoScroll, "TRUE"},
		{f.checksum, "FALSE"},
		{f.recent, "10"},
		{f.tcpWindow, "0x10"},
		{f.layout, "stacked"},
		{f.openDir, "/tmp"},
		{f.markedFG, "ffffff"},
		{f.tcpPorts, "80"},
		{f.keys, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reg.ToDisplayString(tt.entry, false))
	}

	require.NoError(t, reg.SetValue(f.recent, UintValue(25)))
	assert.Equal(t, "25", reg.ToDisplayString(f.recent, false))
	assert.Equal(t, "10", reg.ToDisplayString(f.recent, true))
}

func TestRegistry_SetValueRejectsWithoutChange(t *testing.T) {
	f := newFixture(t)
	reg := f.reg

	tests := []struct {
		name  string
		entry *Entry
		value Value
		want  error
	}{
		{"wrong_variant", f.autoScroll, UintValue(1), ErrInvalidValue},
		{"nil_value", f.title, nil, ErrInvalidValue},
		{"unknown_choice", f.layout, EnumValue(42), ErrInvalidValue},
		{"range_over_max", f.tcpPorts, RangeValue(Range{{Low: 1, High: 70000}}), ErrInvalidValue},
		{"uat", f.keys, StringValue("x"), ErrReadOnly},
		{"nil_entry", nil, BoolValue(true), ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := reg.ToDisplayString(tt.entry, false)
			err := reg.SetValue(tt.entry, tt.value)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, reg.ToDisplayString(tt.entry, false))
		})
	}
}

func TestRegistry_ResetAlwaysDefault(t *testing.T) {
	f := newFixture(t)
	reg := f.reg

	require.NoError(t, reg.SetValue(f.autoScroll, BoolValue(false)))
	require.NoError(t, reg.SetValue(f.tcpPorts, RangeValue(Range{{Low: 1, High: 5}})))
	require.NoError(t, reg.SetValue(f.markedFG, ColorValue(Color{Red: 1})))

	for _, e := range reg.Entries() {
		reg.ResetToDefault(e)
		assert.True(t, reg.IsDefault(e), "%s not default after reset", e.FullName())
	}
	reg.ResetToDefault(nil)
	assert.True(t, reg.IsDefault(nil))
}

func TestRegistry_ValuesAreCopied(t *testing.T) {
	f := newFixture(t)
	reg := f.reg

	r := Range{{Low: 10, High: 20}}
	require.NoError(t, reg.SetValue(f.tcpPorts, RangeValue(r)))
	r[0].High = 30
	assert.Equal(t, "10-20", reg.ToDisplayString(f.tcpPorts, false))

	got := reg.Value(f.tcpPorts).(RangeValue)
	got[0].Low = 0
	assert.Equal(t, "10-20", reg.ToDisplayString(f.tcpPorts, false))
}

func TestRegistry_ParseValue(t *testing.T) {
	f := newFixture(t)
	reg := f.reg

	tests := []struct {
		name  string
		entry *Entry
		text  string
		want  Value
		err   error
	}{
		{"bool_lower", f.autoScroll, "false", BoolValue(false), nil},
		{"bool_mixed", f.autoScroll, " True ", BoolValue(true), nil},
		{"bool_bad", f.autoScroll, "yes", nil, ErrInvalidValue},
		{"uint", f.recent, "42", UintValue(42), nil},
		{"uint_clamped", f.recent, "99999999999", UintValue(math.MaxUint32), nil},
		{"uint_bad", f.recent, "4x", nil, ErrInvalidValue},
		{"uint_empty", f.recent, "", nil, ErrInvalidValue},
		{"uint_hex_prefix", f.tcpWindow, "0x1F", UintValue(31), nil},
		{"uint_hex_bare", f.tcpWindow, "ff", UintValue(255), nil},
		{"string_raw", f.title, "  spaced  ", StringValue("  spaced  "), nil},
		{"enum_name", f.layout, "SINGLE", EnumValue(3), nil},
		{"enum_description", f.layout, "side by side", EnumValue(2), nil},
		{"enum_id", f.layout, "2", EnumValue(2), nil},
		{"enum_bad", f.layout, "tabs", nil, ErrInvalidValue},
		{"filename", f.openDir, "/var/log", FilenameValue("/var/log"), nil},
		{"range", f.tcpPorts, "80, 443-444", RangeValue(Range{{80, 80}, {443, 444}}), nil},
		{"range_open_high", f.tcpPorts, "80-", RangeValue(Range{{80, 65535}}), nil},
		{"range_over", f.tcpPorts, "70000", nil, ErrInvalidValue},
		{"color", f.markedFG, "#102030", ColorValue(Color{0x1010, 0x2020, 0x3030}), nil},
		{"color_bad", f.markedFG, "blue", nil, ErrInvalidValue},
		{"uat", f.keys, "x", nil, ErrReadOnly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.ParseValue(tt.entry, tt.text)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.True(t, valuesEqual(tt.want, got), "got %#v, want %#v", got, tt.want)
		})
	}
}

func TestRegistry_DisplayStringRoundTrip(t *testing.T) {
	f := newFixture(t)
	reg := f.reg

	edits := map[*Entry]Value{
		f.autoScroll: BoolValue(false),
		f.recent:     UintValue(math.MaxUint32),
		f.title:      StringValue("capture: eth0"),
		f.layout:     EnumValue(3),
		f.openDir:    FilenameValue("/home/user/captures"),
		f.markedFG:   ColorValue(Color{Red: 0x1234, Green: 0xabcd, Blue: 0x00ff}),
		f.tcpPorts:   RangeValue(Range{{1, 20}, {80, 80}, {8000, 8080}}),
		f.tcpWindow:  UintValue(0),
	}
	for e, v := range edits {
		require.NoError(t, reg.SetValue(e, v))
		shown := reg.ToDisplayString(e, false)

		parsed, err := reg.ParseValue(e, shown)
		require.NoError(t, err, e.FullName())
		require.NoError(t, reg.SetValue(e, parsed))
		assert.Equal(t, shown, reg.ToDisplayString(e, false), e.FullName())
	}
}

func TestRegistry_EnumNameWinsOverDescription(t *testing.T) {
	reg := New(WithLogger(&MockLogger{}))
	m, err := reg.RegisterModule(nil, "dns", "DNS", "")
	require.NoError(t, err)

	// The first choice's description is spelled like the second choice's name.
	e, err := reg.Define(m, Definition{
		Name: "mode", Type: TypeEnum, Default: EnumValue(1),
		Choices: []Choice{
			{Name: "fast", Description: "cached", Value: 1},
			{Name: "cached", Description: "From the local cache", Value: 2},
		},
	})
	require.NoError(t, err)

	for _, id := range []int{1, 2} {
		require.NoError(t, reg.SetValue(e, EnumValue(id)))
		shown := reg.ToDisplayString(e, false)
		parsed, err := reg.ParseValue(e, shown)
		require.NoError(t, err)
		assert.Equal(t, EnumValue(id), parsed, "display %q", shown)
	}

	parsed, err := reg.ParseValue(e, "from the local cache")
	require.NoError(t, err)
	assert.Equal(t, EnumValue(2), parsed)
}

func TestRegistry_NilSafe(t *testing.T) {
	var reg *Registry
	assert.Nil(t, reg.Root())
	assert.Empty(t, (*Module)(nil).Entries())
	assert.Empty(t, (*Module)(nil).Submodules())
	assert.Equal(t, "", (*Module)(nil).Path())

	f := newFixture(t)
	_, err := f.reg.ParseValue(nil, "x")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
