// registry.go
package prefseditor

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Registry owns a tree of preference modules and the current values of their entries.
// Callers hold an explicit *Registry; there is no package-level registry.
type Registry struct {
	mu      sync.RWMutex
	config  *Config
	root    *Module
	modules map[string]*Module
	entries map[string]*Entry
}

// New creates an empty Registry configured by opts.
func New(opts ...Option) *Registry {
	cfg := &Config{
		logger:   NewDefaultLogger(),
		profile:  DefaultProfile,
		cacheTTL: 24 * time.Hour,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Registry{
		config:  cfg,
		root:    &Module{},
		modules: make(map[string]*Module),
		entries: make(map[string]*Entry),
	}
}

// Logger returns the registry's logger.
func (r *Registry) Logger() Logger {
	return r.config.logger
}

// Profile returns the configuration profile used for persistence.
func (r *Registry) Profile() string {
	return r.config.profile
}

// Root returns the unnamed root module. Top-level modules are its submodules.
func (r *Registry) Root() *Module {
	if r == nil {
		return nil
	}
	return r.root
}

// RegisterModule adds a module under parent, or under the root when parent is nil.
// An empty name creates a grouping module, which needs a title.
func (r *Registry) RegisterModule(parent *Module, name, title, description string) (*Module, error) {
	if name == "" && title == "" {
		return nil, fmt.Errorf("%w: grouping module needs a title", ErrInvalidInput)
	}
	if name != "" && !validName(name) {
		return nil, fmt.Errorf("%w: module %q", ErrInvalidName, name)
	}
	if title == "" {
		title = name
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if parent == nil {
		parent = r.root
	}
	m := &Module{
		name:        name,
		title:       title,
		description: description,
		parent:      parent,
	}
	if name != "" {
		path := m.Path()
		if _, exists := r.modules[path]; exists {
			return nil, fmt.Errorf("%w: module %q", ErrDuplicate, path)
		}
		r.modules[path] = m
	}
	parent.submodules = append(parent.submodules, m)
	return m, nil
}

// Module looks up a named module by its dotted path.
func (r *Registry) Module(path string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[path]
	return m, ok
}

// Define adds an entry described by def to module m.
// The entry's current value starts at its default.
func (r *Registry) Define(m *Module, def Definition) (*Entry, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil module", ErrInvalidInput)
	}
	if err := normalizeDefinition(&def); err != nil {
		return nil, err
	}

	fullName := def.Name
	if path := m.Path(); path != "" {
		fullName = path + "." + def.Name
	}

	e := &Entry{
		module:      m,
		name:        def.Name,
		fullName:    fullName,
		title:       def.Title,
		description: def.Description,
		typ:         def.Type,
		defaultVal:  cloneValue(def.Default),
		current:     cloneValue(def.Default),
		choices:     slices.Clone(def.Choices),
		base:        def.Base,
		maxValue:    def.MaxValue,
		sensitive:   def.Sensitive,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[fullName]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicate, fullName)
	}
	r.entries[fullName] = e
	m.entries = append(m.entries, e)
	return e, nil
}

// Lookup finds an entry by its full dotted name.
func (r *Registry) Lookup(fullName string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[fullName]
	return e, ok
}

// Entries returns every entry sorted by full name.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Entry) int { return strings.Compare(a.fullName, b.fullName) })
	return out
}

// Value returns a copy of the entry's current value, or nil for entries without one.
func (r *Registry) Value(e *Entry) Value {
	if e == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneValue(e.current)
}

// Default returns a copy of the entry's default value.
func (r *Registry) Default(e *Entry) Value {
	if e == nil {
		return nil
	}
	return cloneValue(e.defaultVal)
}

// TypeName returns the short display name of the entry's type.
func (r *Registry) TypeName(e *Entry) string {
	if e == nil {
		return ""
	}
	return typeName(e.typ)
}

// TypeDescription returns a sentence describing the values the entry accepts.
func (r *Registry) TypeDescription(e *Entry) string {
	if e == nil {
		return ""
	}
	return typeDescription(e)
}

// ToDisplayString serializes the entry's current value, or its default when useDefault is set.
// The result is accepted by ParseValue.
func (r *Registry) ToDisplayString(e *Entry, useDefault bool) string {
	if e == nil || !e.typ.hasValue() {
		return ""
	}
	if useDefault {
		return formatValue(e, e.defaultVal)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return formatValue(e, e.current)
}

// IsDefault reports whether the current value equals the default.
// Entries without a value are always at their default.
func (r *Registry) IsDefault(e *Entry) bool {
	if e == nil || !e.typ.hasValue() {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return valuesEqual(e.current, e.defaultVal)
}

// ResetToDefault restores the entry's default value.
func (r *Registry) ResetToDefault(e *Entry) {
	if e == nil || !e.typ.hasValue() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e.current = cloneValue(e.defaultVal)
}

// SetValue stores v as the entry's current value.
// On error the current value is left unchanged.
func (r *Registry) SetValue(e *Entry, v Value) error {
	if e == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidInput)
	}
	if err := validateValue(e, v); err != nil {
		return fmt.Errorf("%s: %w", e.fullName, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e.current = cloneValue(v)
	return nil
}

// ParseValue converts text in the entry's display format into a Value.
// Unsigned integers that overflow 32 bits are clamped to math.MaxUint32.
func (r *Registry) ParseValue(e *Entry, text string) (Value, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil entry", ErrInvalidInput)
	}

	switch e.typ {
	case TypeBool:
		switch {
		case strings.EqualFold(strings.TrimSpace(text), "true"):
			return BoolValue(true), nil
		case strings.EqualFold(strings.TrimSpace(text), "false"):
			return BoolValue(false), nil
		}
		return nil, fmt.Errorf("%w: %q is not TRUE or FALSE", ErrInvalidValue, text)
	case TypeUint:
		n, err := parseUint(text, e.base)
		if err != nil {
			return nil, err
		}
		return UintValue(n), nil
	case TypeString:
		return StringValue(text), nil
	case TypeEnum:
		return parseEnum(e, text)
	case TypeFilename:
		return FilenameValue(text), nil
	case TypeRange:
		rng, err := ParseRange(text, e.maxValue)
		if err != nil {
			return nil, err
		}
		return RangeValue(rng), nil
	case TypeColor:
		c, err := ParseColor(text)
		if err != nil {
			return nil, err
		}
		return ColorValue(c), nil
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrReadOnly, e.fullName, e.typ)
	}
}

func parseUint(text string, base int) (uint32, error) {
	t := strings.TrimSpace(text)
	if base == 16 {
		t = strings.TrimPrefix(strings.TrimPrefix(t, "0x"), "0X")
	}
	if t == "" {
		return 0, fmt.Errorf("%w: empty number", ErrInvalidValue)
	}
	n, err := strconv.ParseUint(t, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxUint32, nil
		}
		return 0, fmt.Errorf("%w: %q is not a base %d number", ErrInvalidValue, text, base)
	}
	if n > math.MaxUint32 {
		return math.MaxUint32, nil
	}
	return uint32(n), nil
}

func parseEnum(e *Entry, text string) (Value, error) {
	t := strings.TrimSpace(text)
	for _, c := range e.choices {
		if strings.EqualFold(c.Name, t) {
			return EnumValue(c.Value), nil
		}
	}
	for _, c := range e.choices {
		if c.Description != "" && strings.EqualFold(c.Description, t) {
			return EnumValue(c.Value), nil
		}
	}
	if id, err := strconv.Atoi(t); err == nil {
		if _, ok := e.choice(id); ok {
			return EnumValue(id), nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not one of the allowed choices", ErrInvalidValue, text)
}

func formatValue(e *Entry, v Value) string {
	switch val := v.(type) {
	case BoolValue:
		return formatBool(bool(val))
	case UintValue:
		return formatUint(uint32(val), e.base)
	case StringValue:
		return string(val)
	case EnumValue:
		if c, ok := e.choice(int(val)); ok {
			return c.Name
		}
		return strconv.Itoa(int(val))
	case FilenameValue:
		return string(val)
	case RangeValue:
		return Range(val).String()
	case ColorValue:
		return Color(val).String()
	default:
		return ""
	}
}
