package prefseditor

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Column identifies the part of a row that was activated.
type Column int

const (
	ColumnName Column = iota
	ColumnStatus
	ColumnType
	// ColumnValue opens the type-specific editor. Activating any earlier column resets the entry.
	ColumnValue
)

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithPrompter sets the modal prompts used for filename and color entries.
func WithPrompter(p Prompter) EditorOption {
	return func(ed *Editor) {
		ed.prompter = p
	}
}

// WithEditorLogger overrides the logger taken from the registry.
func WithEditorLogger(l Logger) EditorOption {
	return func(ed *Editor) {
		ed.logger = l
	}
}

// Editor is an interactive editing surface over a Registry.
// It is not safe for concurrent use; hosts serving several clients must serialize calls.
type Editor struct {
	registry *Registry
	logger   Logger
	prompter Prompter
	folder   cases.Caser

	root    *Row
	byEntry map[*Entry]*Row
	byName  map[string]*Row

	search  string
	current *Row
	session Session
}

// NewEditor builds the row tree for reg and returns an editor with an empty search.
func NewEditor(reg *Registry, opts ...EditorOption) *Editor {
	ed := &Editor{
		registry: reg,
		folder:   cases.Fold(),
	}
	if reg != nil {
		ed.logger = reg.Logger()
	} else {
		ed.logger = NewDefaultLogger()
	}
	for _, opt := range opts {
		opt(ed)
	}
	ed.Rebuild()
	return ed
}

// Rebuild discards all rows and walks the registry again, keeping the current search.
// Call it after the registry has been reloaded.
func (ed *Editor) Rebuild() {
	ed.CloseSession()
	ed.current = nil
	ed.root = Walk(ed.registry)
	ed.byEntry = make(map[*Entry]*Row)
	ed.byName = make(map[string]*Row)
	walkRows(ed.root, func(row *Row) {
		if row.entry != nil {
			ed.byEntry[row.entry] = row
			ed.byName[row.Name] = row
		}
	})
	ed.Search(ed.search)
}

func (ed *Editor) Registry() *Registry { return ed.registry }

// Root returns the unnamed container row.
func (ed *Editor) Root() *Row { return ed.root }

// Row finds an entry row by the entry's full name.
func (ed *Editor) Row(name string) (*Row, bool) {
	row, ok := ed.byName[name]
	return row, ok
}

// RowFor finds the row showing e.
func (ed *Editor) RowFor(e *Entry) (*Row, bool) {
	row, ok := ed.byEntry[e]
	return row, ok
}

// SearchText returns the active search string.
func (ed *Editor) SearchText() string { return ed.search }

// Search shows the entry rows whose full name or description contains text, ignoring case,
// together with their ancestors. An empty text shows every row.
func (ed *Editor) Search(text string) {
	ed.search = text
	needle := ed.folder.String(text)

	walkRows(ed.root, func(row *Row) {
		if row != ed.root && row.entry == nil {
			row.Hidden = text != ""
		}
	})

	walkRows(ed.root, func(row *Row) {
		if row.entry == nil {
			return
		}
		row.Hidden = !(text == "" || ed.matches(row, needle))
		if !row.Hidden {
			for p := row.parent; p != nil && p != ed.root; p = p.parent {
				p.Hidden = false
			}
		}
	})
}

func (ed *Editor) matches(row *Row, needle string) bool {
	return strings.Contains(ed.folder.String(row.Name), needle) ||
		strings.Contains(ed.folder.String(row.entry.Description()), needle)
}

// Visible returns the visible entry rows in display order.
func (ed *Editor) Visible() []*Row {
	var out []*Row
	var visit func(*Row)
	visit = func(row *Row) {
		for _, c := range row.Children {
			if c.Hidden {
				continue
			}
			if c.entry != nil {
				out = append(out, c)
			}
			visit(c)
		}
	}
	visit(ed.root)
	return out
}

// Changed returns the entry rows whose values differ from their defaults.
func (ed *Editor) Changed() []*Row {
	var out []*Row
	walkRows(ed.root, func(row *Row) {
		if row.Status == StatusChanged {
			out = append(out, row)
		}
	})
	return out
}

// Current returns the selected row.
func (ed *Editor) Current() *Row { return ed.current }

// SetCurrent selects row. Moving away from the row of an open session closes the session.
func (ed *Editor) SetCurrent(row *Row) {
	if ed.session != nil && ed.session.Row() != row {
		ed.CloseSession()
	}
	ed.current = row
}

// Session returns the open edit session, if any.
func (ed *Editor) Session() Session { return ed.session }

// CloseSession closes the open session without committing it.
func (ed *Editor) CloseSession() {
	if ed.session != nil {
		ed.session.Close()
	}
}

// Activate reacts to the user activating column of row. Columns before ColumnValue reset the
// entry to its default. ColumnValue dispatches on the entry's value: booleans toggle at once,
// filenames and colors go through the Prompter, and the other types open a Session that the
// caller drives. Group rows are ignored.
func (ed *Editor) Activate(ctx context.Context, row *Row, column Column) (Session, error) {
	if row == nil || row.entry == nil {
		return nil, nil
	}
	ed.SetCurrent(row)
	e := row.entry

	if column < ColumnValue {
		return nil, ed.Apply(ResetCommand(e))
	}

	switch v := ed.registry.Value(e).(type) {
	case BoolValue:
		return nil, ed.Apply(ToggleCommand(e))
	case UintValue:
		return ed.openText(row, TextNumeric), nil
	case StringValue:
		return ed.openText(row, TextFree), nil
	case RangeValue:
		return ed.openText(row, TextRange), nil
	case EnumValue:
		return ed.openChoice(row, int(v)), nil
	case FilenameValue:
		return nil, ed.promptFilename(ctx, e, string(v))
	case ColorValue:
		return nil, ed.promptColor(ctx, e, Color(v))
	default:
		ed.logger.Warn("Editing not implemented for preference type", "name", e.FullName(), "type", e.Type())
		return nil, nil
	}
}

// Apply runs cmd against the registry and refreshes the affected row.
// A rejected command leaves the value unchanged; the error is logged and returned.
func (ed *Editor) Apply(cmd Command) error {
	if cmd.Entry == nil {
		return fmt.Errorf("%w: command without entry", ErrInvalidInput)
	}

	var err error
	switch cmd.Name {
	case CommandSet:
		err = ed.registry.SetValue(cmd.Entry, cmd.Value)
	case CommandToggle:
		b, ok := ed.registry.Value(cmd.Entry).(BoolValue)
		if !ok {
			err = fmt.Errorf("%w: %s is not a boolean", ErrInvalidType, cmd.Entry.FullName())
			break
		}
		err = ed.registry.SetValue(cmd.Entry, !b)
	case CommandReset:
		ed.registry.ResetToDefault(cmd.Entry)
	default:
		err = fmt.Errorf("%w: unknown command %q", ErrInvalidInput, cmd.Name)
	}

	if err != nil {
		ed.logger.Warn("Preference edit rejected", "command", cmd.String(), "error", err)
	} else {
		ed.logger.Debug("Preference edited", "command", cmd.String())
	}
	ed.refresh(cmd.Entry)
	return err
}

// Commit saves the registry's values.
func (ed *Editor) Commit(ctx context.Context) error {
	if ed.registry == nil {
		return ErrStorageUnavailable
	}
	return ed.registry.Save(ctx)
}

func (ed *Editor) refresh(e *Entry) {
	if row, ok := ed.byEntry[e]; ok {
		refreshRow(ed.registry, row)
	}
}

func (ed *Editor) promptFilename(ctx context.Context, e *Entry, current string) error {
	if ed.prompter == nil {
		ed.logger.Warn("Cannot edit filename preference", "name", e.FullName(), "error", ErrNoPrompter)
		return ErrNoPrompter
	}
	path, ok, err := ed.prompter.PromptFilename(ctx, "Preferences: "+e.Description(), current)
	if err != nil {
		ed.logger.Warn("Filename prompt failed", "name", e.FullName(), "error", err)
		return err
	}
	if !ok || path == "" {
		return nil
	}
	return ed.Apply(SetCommand(e, FilenameValue(path)))
}

func (ed *Editor) promptColor(ctx context.Context, e *Entry, current Color) error {
	if ed.prompter == nil {
		ed.logger.Warn("Cannot edit color preference", "name", e.FullName(), "error", ErrNoPrompter)
		return ErrNoPrompter
	}
	c, ok, err := ed.prompter.PromptColor(ctx, "Preferences: "+e.Description(), current.RGB8())
	if err != nil {
		ed.logger.Warn("Color prompt failed", "name", e.FullName(), "error", err)
		return err
	}
	if !ok {
		return nil
	}
	return ed.Apply(SetCommand(e, ColorValue(ColorFromRGB8(c))))
}
