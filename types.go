// types.go
package prefseditor

import (
	"strings"
	"time"
)

// Module is a named group of preference entries, optionally nested under a parent module.
// A module with an empty Name only groups its children; they inherit the parent's path.
type Module struct {
	name        string
	title       string
	description string
	parent      *Module
	submodules  []*Module
	entries     []*Entry
}

// Name is the module's local name, possibly empty.
func (m *Module) Name() string { return m.name }

// Title is the human readable title.
func (m *Module) Title() string { return m.title }

func (m *Module) Description() string { return m.description }

func (m *Module) Parent() *Module { return m.parent }

// Path is the dotted path of non-empty names from the root.
func (m *Module) Path() string {
	if m == nil {
		return ""
	}
	var parts []string
	for cur := m; cur != nil; cur = cur.parent {
		if cur.name != "" {
			parts = append(parts, cur.name)
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Submodules returns the child modules in registration order. A nil module has none.
func (m *Module) Submodules() []*Module {
	if m == nil {
		return nil
	}
	out := make([]*Module, len(m.submodules))
	copy(out, m.submodules)
	return out
}

// Entries returns the module's entries in registration order. A nil module has none.
func (m *Module) Entries() []*Entry {
	if m == nil {
		return nil
	}
	out := make([]*Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Entry is a single typed preference belonging to exactly one Module.
// Its current value is owned by the Registry that defined it; read it through the registry.
type Entry struct {
	module      *Module
	name        string
	fullName    string
	title       string
	description string
	typ         PrefType
	defaultVal  Value
	current     Value
	choices     []Choice
	base        int
	maxValue    uint32
	sensitive   bool
}

// Name is the local name within the module.
func (e *Entry) Name() string { return e.name }

// FullName is the module path joined with the local name, e.g. "tcp.check_checksum".
func (e *Entry) FullName() string { return e.fullName }

func (e *Entry) Title() string       { return e.title }
func (e *Entry) Description() string { return e.description }
func (e *Entry) Module() *Module     { return e.module }

// Type is the entry's type tag.
func (e *Entry) Type() PrefType { return e.typ }

// Choices returns the options of an enumeration entry.
func (e *Entry) Choices() []Choice {
	out := make([]Choice, len(e.choices))
	copy(out, e.choices)
	return out
}

// Base is the numeric base of an unsigned integer entry.
func (e *Entry) Base() int { return e.base }

// MaxValue is the upper bound of a range entry.
func (e *Entry) MaxValue() uint32 { return e.maxValue }

func (e *Entry) Sensitive() bool { return e.sensitive }

// choice finds the choice with the given identifier.
func (e *Entry) choice(id int) (Choice, bool) {
	for _, c := range e.choices {
		if c.Value == id {
			return c, true
		}
	}
	return Choice{}, false
}

// StoredValue is the persisted form of an entry's value for one profile.
// JSON tags are used by the cache layer.
type StoredValue struct {
	// Profile is the configuration profile the value belongs to.
	Profile string `json:"profile"`
	// Name is the entry's full dotted name.
	Name string `json:"name"`
	// Module is the path of the entry's module.
	Module string `json:"module"`
	// Type is the entry's type tag.
	Type string `json:"type"`
	// Value is the display-string serialization of the value, or ciphertext when Encrypted.
	Value string `json:"value"`
	// Encrypted is set when Value holds ciphertext.
	Encrypted bool `json:"encrypted,omitempty"`
	// UpdatedAt records when the value was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultProfile is the profile used when none is configured.
const DefaultProfile = "Default"

// Config holds the internal configuration for a Registry.
// It is populated by applying functional Options when a Registry is created with New.
type Config struct {
	// storage persists values per profile. Optional; Load and Save need it.
	storage Storage
	// cache fronts storage for single-entry reads.
	cache Cache
	logger Logger
	// encryptor protects sensitive values at rest.
	encryptor Encryptor
	profile   string
	cacheTTL  time.Duration
}

// Option configures a Registry.
type Option func(*Config)

// WithStorage sets the persistence backend used by Load and Save.
func WithStorage(s Storage) Option {
	return func(c *Config) {
		c.storage = s
	}
}

// WithCache sets an optional cache in front of the storage backend.
func WithCache(cache Cache) Option {
	return func(c *Config) {
		c.cache = cache
	}
}

// WithLogger sets the Logger. Without it a JSON logger on stderr is used.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

// WithEncryptor enables encryption at rest for sensitive entries.
func WithEncryptor(enc Encryptor) Option {
	return func(c *Config) {
		c.encryptor = enc
	}
}

// WithProfile selects the configuration profile values are loaded from and saved to.
func WithProfile(profile string) Option {
	return func(c *Config) {
		if profile != "" {
			c.profile = profile
		}
	}
}

// WithCacheTTL sets how long cached values live. Zero keeps the default of 24 hours.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Config) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}
