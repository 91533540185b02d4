package prefseditor

import (
	"context"
	"sync"
	"testing"
	"time"
)

// MockStorage implements Storage in memory with switchable failures.
type MockStorage struct {
	mu        sync.RWMutex
	data      map[string]map[string]*StoredValue
	closed    bool
	setErr    error
	getAllErr error
	sets      int
	deletes   int
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		data: make(map[string]map[string]*StoredValue),
	}
}

func (m *MockStorage) Get(_ context.Context, profile, name string) (*StoredValue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStorageUnavailable
	}
	if sv, ok := m.data[profile][name]; ok {
		svCopy := *sv
		return &svCopy, nil
	}
	return nil, ErrNotFound
}

func (m *MockStorage) Set(_ context.Context, v *StoredValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStorageUnavailable
	}
	if m.setErr != nil {
		return m.setErr
	}
	if _, ok := m.data[v.Profile]; !ok {
		m.data[v.Profile] = make(map[string]*StoredValue)
	}
	svCopy := *v
	m.data[v.Profile][v.Name] = &svCopy
	m.sets++
	return nil
}

func (m *MockStorage) Delete(_ context.Context, profile, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStorageUnavailable
	}
	if _, ok := m.data[profile][name]; !ok {
		return ErrNotFound
	}
	delete(m.data[profile], name)
	m.deletes++
	return nil
}

func (m *MockStorage) GetAll(_ context.Context, profile string) (map[string]*StoredValue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStorageUnavailable
	}
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	out := make(map[string]*StoredValue)
	for name, sv := range m.data[profile] {
		svCopy := *sv
		out[name] = &svCopy
	}
	return out, nil
}

func (m *MockStorage) GetByModule(ctx context.Context, profile, module string) (map[string]*StoredValue, error) {
	all, err := m.GetAll(ctx, profile)
	if err != nil {
		return nil, err
	}
	for name, sv := range all {
		if sv.Module != module {
			delete(all, name)
		}
	}
	return all, nil
}

func (m *MockStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// stored returns the saved value or nil.
func (m *MockStorage) stored(profile, name string) *StoredValue {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[profile][name]
}

// MockCache implements Cache with a plain map and no expiry.
type MockCache struct {
	mu   sync.Mutex
	data map[string]interface{}
	hits int
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string]interface{})}
}

func (m *MockCache) Get(_ context.Context, key string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	m.hits++
	return v, nil
}

func (m *MockCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCache) Close() error { return nil }

// MockLogger records messages by level.
type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *MockLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, level+": "+msg)
}

func (l *MockLogger) Debug(msg string, _ ...any) { l.record("DEBUG", msg) }
func (l *MockLogger) Info(msg string, _ ...any)  { l.record("INFO", msg) }
func (l *MockLogger) Warn(msg string, _ ...any)  { l.record("WARN", msg) }
func (l *MockLogger) Error(msg string, _ ...any) { l.record("ERROR", msg) }
func (l *MockLogger) SetLevel(LogLevel)          {}

func (l *MockLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.messages {
		if len(m) > len(level) && m[:len(level)] == level {
			n++
		}
	}
	return n
}

// MockPrompter answers prompts with canned responses.
type MockPrompter struct {
	filename    string
	color       RGB8
	accept      bool
	err         error
	lastTitle   string
	lastCurrent interface{}
	calls       int
}

func (p *MockPrompter) PromptFilename(_ context.Context, title, current string) (string, bool, error) {
	p.calls++
	p.lastTitle, p.lastCurrent = title, current
	return p.filename, p.accept, p.err
}

func (p *MockPrompter) PromptColor(_ context.Context, title string, current RGB8) (RGB8, bool, error) {
	p.calls++
	p.lastTitle, p.lastCurrent = title, current
	return p.color, p.accept, p.err
}

// fixture is a registry with one entry of every type, shaped like a small analyzer configuration.
type fixture struct {
	reg *Registry

	autoScroll *Entry // gui.auto_scroll, bool
	recent     *Entry // gui.recent_count, uint
	title      *Entry // gui.window_title, string
	layout     *Entry // gui.layout, enum
	openDir    *Entry // gui.fileopen_dir, filename
	markedFG   *Entry // gui.marked_fg, color
	tcpPorts   *Entry // tcp.ports, range
	tcpWindow  *Entry // tcp.window_scale, uint base 16
	checksum   *Entry // tcp.check_checksum, bool
	psk        *Entry // tls.psk, sensitive string
	keys       *Entry // tls.keys_list, uat
	oldTCP     *Entry // tcp.summary_in_tree, obsolete
}

func mustDefine(t *testing.T, reg *Registry, m *Module, def Definition) *Entry {
	t.Helper()
	e, err := reg.Define(m, def)
	if err != nil {
		t.Fatalf("Define(%s): %v", def.Name, err)
	}
	return e
}

func mustModule(t *testing.T, reg *Registry, parent *Module, name, title, desc string) *Module {
	t.Helper()
	m, err := reg.RegisterModule(parent, name, title, desc)
	if err != nil {
		t.Fatalf("RegisterModule(%s): %v", name, err)
	}
	return m
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	opts = append([]Option{WithLogger(&MockLogger{})}, opts...)
	reg := New(opts...)
	f := &fixture{reg: reg}

	gui := mustModule(t, reg, nil, "gui", "User Interface", "Layout and appearance")
	f.autoScroll = mustDefine(t, reg, gui, Definition{
		Name: "auto_scroll", Type: TypeBool, Default: BoolValue(true),
		Description: "Automatically scroll the packet list during live capture",
	})
	f.recent = mustDefine(t, reg, gui, Definition{
		Name: "recent_count", Type: TypeUint, Default: UintValue(10),
		Description: "Maximum number of recent files",
	})
	f.title = mustDefine(t, reg, gui, Definition{
		Name: "window_title", Type: TypeString, Default: StringValue(""),
		Description: "Custom window title",
	})
	f.layout = mustDefine(t, reg, gui, Definition{
		Name: "layout", Type: TypeEnum, Default: EnumValue(1),
		Description: "Pane layout",
		Choices: []Choice{
			{Name: "stacked", Description: "Stacked panes", Value: 1},
			{Name: "side_by_side", Description: "Side by side", Value: 2},
			{Name: "single", Description: "Single pane", Value: 3},
		},
	})
	f.openDir = mustDefine(t, reg, gui, Definition{
		Name: "fileopen_dir", Type: TypeFilename, Default: FilenameValue("/tmp"),
		Description: "Initial directory for open dialogs",
	})
	f.markedFG = mustDefine(t, reg, gui, Definition{
		Name: "marked_fg", Type: TypeColor, Default: ColorValue(ColorFromRGB8(RGB8{R: 0xff, G: 0xff, B: 0xff})),
		Description: "Color of marked packet text",
	})

	protocols := mustModule(t, reg, nil, "", "Protocols", "Protocol dissectors")
	tcp := mustModule(t, reg, protocols, "tcp", "TCP", "Transmission Control Protocol")
	f.tcpPorts = mustDefine(t, reg, tcp, Definition{
		Name: "ports", Type: TypeRange, Default: RangeValue(Range{{Low: 80, High: 80}}),
		MaxValue: 65535, Description: "Ports decoded as TCP",
	})
	f.tcpWindow = mustDefine(t, reg, tcp, Definition{
		Name: "window_scale", Type: TypeUint, Base: 16, Default: UintValue(0x10),
		Description: "Window scaling factor",
	})
	f.checksum = mustDefine(t, reg, tcp, Definition{
		Name: "check_checksum", Type: TypeBool, Default: BoolValue(false),
		Description: "Validate the TCP checksum if possible",
	})
	f.oldTCP = mustDefine(t, reg, tcp, Definition{
		Name: "summary_in_tree", Type: TypeObsolete,
	})
	mustDefine(t, reg, tcp, Definition{
		Name: "note", Type: TypeStaticText, Description: "Settings below apply to all streams",
	})

	tls := mustModule(t, reg, protocols, "tls", "TLS", "Transport Layer Security")
	f.psk = mustDefine(t, reg, tls, Definition{
		Name: "psk", Type: TypeString, Sensitive: true,
		Description: "Pre-shared key as hex",
	})
	f.keys = mustDefine(t, reg, tls, Definition{
		Name: "keys_list", Type: TypeUAT,
		Description: "RSA keys list",
	})

	stats := mustModule(t, reg, nil, "statistics", "Statistics", "Only labels")
	mustDefine(t, reg, stats, Definition{Name: "label", Type: TypeStaticText})
	mustModule(t, reg, stats, "empty", "Empty", "No entries at all")

	return f
}
