package prefseditor

import (
	"slices"
	"strings"
)

// Status is the changed/default state shown for an entry row.
type Status string

const (
	StatusDefault Status = "Default"
	StatusChanged Status = "Changed"
	// StatusUnknown is shown for entries whose value is not held by the registry.
	StatusUnknown Status = "Unknown"
)

const (
	statusTooltip       = "Has this value been changed?"
	emptyDefaultTooltip = "Default value is empty"
)

// Row is a transient display projection of a module (a group row) or an entry.
// Rows are rebuilt by Walk and refreshed in place after edits; they are never persisted.
type Row struct {
	// Name is the entry's full name, or the module title for group rows.
	Name string `json:"name"`
	// Tooltip is the entry or module description.
	Tooltip string `json:"tooltip,omitempty"`

	Status        Status `json:"status,omitempty"`
	StatusTooltip string `json:"status_tooltip,omitempty"`

	TypeName    string `json:"type,omitempty"`
	TypeTooltip string `json:"type_tooltip,omitempty"`

	// Value is the current value with newlines and tabs removed.
	Value          string `json:"value,omitempty"`
	DefaultTooltip string `json:"default_tooltip,omitempty"`

	// Bold is set while the entry differs from its default.
	Bold   bool `json:"bold,omitempty"`
	Hidden bool `json:"hidden,omitempty"`

	Children []*Row `json:"children,omitempty"`

	entry  *Entry
	parent *Row
}

// Entry returns the entry behind the row, or nil for group rows.
func (row *Row) Entry() *Entry { return row.entry }

func (row *Row) Parent() *Row { return row.parent }

// IsGroup reports whether the row represents a module rather than an entry.
func (row *Row) IsGroup() bool { return row.entry == nil }

// Walk projects the registry's module tree into rows. The returned root row is an unnamed
// container whose children are the top-level modules. Obsolete and static text entries are
// skipped, as are modules left with nothing to show. A nil registry yields an empty root.
func Walk(reg *Registry) *Row {
	root := &Row{}
	if reg == nil {
		return root
	}
	for _, m := range reg.Root().Submodules() {
		if row := walkModule(reg, m); row != nil {
			row.parent = root
			root.Children = append(root.Children, row)
		}
	}
	sortRows(root.Children)
	return root
}

func walkModule(reg *Registry, m *Module) *Row {
	if m == nil {
		return nil
	}
	group := &Row{
		Name:    m.Title(),
		Tooltip: m.Description(),
	}

	for _, e := range m.Entries() {
		if !e.Type().Editable() || reg.TypeName(e) == "" {
			continue
		}
		row := newEntryRow(reg, e)
		row.parent = group
		group.Children = append(group.Children, row)
	}
	for _, sub := range m.Submodules() {
		if row := walkModule(reg, sub); row != nil {
			row.parent = group
			group.Children = append(group.Children, row)
		}
	}

	if len(group.Children) == 0 {
		return nil
	}
	sortRows(group.Children)
	return group
}

func newEntryRow(reg *Registry, e *Entry) *Row {
	row := &Row{
		Name:        e.FullName(),
		Tooltip:     e.Description(),
		TypeName:    reg.TypeName(e),
		TypeTooltip: reg.TypeDescription(e),
		entry:       e,
	}
	row.DefaultTooltip = reg.ToDisplayString(e, true)
	if row.DefaultTooltip == "" {
		row.DefaultTooltip = emptyDefaultTooltip
	}
	refreshRow(reg, row)
	return row
}

// refreshRow recomputes the fields derived from the entry's current value.
func refreshRow(reg *Registry, row *Row) {
	e := row.entry
	if e == nil {
		return
	}

	changed := false
	switch {
	case e.Type() == TypeUAT:
		row.Status = StatusUnknown
	case reg.IsDefault(e):
		row.Status = StatusDefault
	default:
		row.Status = StatusChanged
		changed = true
	}
	row.Bold = changed
	row.StatusTooltip = statusTooltip
	row.Value = stripControl(reg.ToDisplayString(e, false))
}

var controlStripper = strings.NewReplacer("\n", "", "\t", "", "\r", "")

func stripControl(s string) string {
	return controlStripper.Replace(s)
}

func sortRows(rows []*Row) {
	slices.SortStableFunc(rows, func(a, b *Row) int { return strings.Compare(a.Name, b.Name) })
}

// walkRows visits row and all of its descendants depth first.
func walkRows(row *Row, fn func(*Row)) {
	if row == nil {
		return
	}
	fn(row)
	for _, c := range row.Children {
		walkRows(c, fn)
	}
}
