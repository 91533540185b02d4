package prefseditor

import (
	"fmt"
	"strings"
)

// Session is a transient editor opened by Editor.Activate for one row.
// At most one session is open per editor.
type Session interface {
	// Row is the row being edited.
	Row() *Row
	// Close discards the session without committing pending text.
	Close()
	Closed() bool
}

// SyntaxState is the live validation state of a text session.
type SyntaxState int

const (
	SyntaxEmpty SyntaxState = iota
	SyntaxValid
	SyntaxInvalid
)

func (s SyntaxState) String() string {
	switch s {
	case SyntaxEmpty:
		return "empty"
	case SyntaxValid:
		return "valid"
	default:
		return "invalid"
	}
}

// TextMode selects how a TextSession filters and validates its text.
type TextMode int

const (
	// TextFree accepts any text.
	TextFree TextMode = iota
	// TextNumeric keeps only the digits valid in the entry's base.
	TextNumeric
	// TextRange validates range syntax against the entry's maximum.
	TextRange
)

// TextSession edits an unsigned integer, string or range entry as text.
type TextSession struct {
	editor *Editor
	row    *Row
	mode   TextMode
	text   string
	state  SyntaxState
	closed bool
}

func (ed *Editor) openText(row *Row, mode TextMode) *TextSession {
	ed.CloseSession()
	s := &TextSession{editor: ed, row: row, mode: mode}
	s.SetText(ed.registry.ToDisplayString(row.entry, false))
	ed.session = s
	return s
}

func (s *TextSession) Row() *Row      { return s.row }
func (s *TextSession) Mode() TextMode { return s.mode }
func (s *TextSession) Closed() bool   { return s.closed }

// Text returns the text as currently held by the session, valid or not.
func (s *TextSession) Text() string { return s.text }

func (s *TextSession) State() SyntaxState { return s.state }

// SetText replaces the session text and returns its new syntax state.
// Numeric sessions apply their input mask first.
func (s *TextSession) SetText(text string) SyntaxState {
	if s.closed {
		return s.state
	}
	e := s.row.entry

	switch s.mode {
	case TextNumeric:
		text = numericMask(text, e.Base())
		s.state = SyntaxEmpty
		if text != "" {
			s.state = SyntaxValid
			if _, err := parseUint(text, e.Base()); err != nil {
				s.state = SyntaxInvalid
			}
		}
	case TextRange:
		switch ValidateRangeSyntax(text, e.MaxValue()) {
		case RangeEmpty:
			s.state = SyntaxEmpty
		case RangeOK:
			s.state = SyntaxValid
		default:
			s.state = SyntaxInvalid
		}
	default:
		s.state = SyntaxEmpty
		if text != "" {
			s.state = SyntaxValid
		}
	}
	s.text = text
	return s.state
}

// Confirm commits the text and closes the session.
// Empty numeric or range text closes without storing. Invalid range text is not stored
// and the session stays open with the text retained.
func (s *TextSession) Confirm() error {
	if s.closed {
		return fmt.Errorf("%w: session is closed", ErrInvalidInput)
	}
	e := s.row.entry

	switch s.mode {
	case TextFree:
		defer s.Close()
		return s.editor.Apply(SetCommand(e, StringValue(s.text)))
	case TextNumeric, TextRange:
		if s.state == SyntaxEmpty {
			s.Close()
			return nil
		}
		if s.state == SyntaxInvalid {
			return fmt.Errorf("%w: %q", ErrInvalidValue, s.text)
		}
		v, err := s.editor.registry.ParseValue(e, s.text)
		if err != nil {
			s.state = SyntaxInvalid
			return err
		}
		defer s.Close()
		return s.editor.Apply(SetCommand(e, v))
	}
	return nil
}

// Close discards the session.
func (s *TextSession) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.editor.detach(s)
}

// numericMask keeps the characters valid for base, up to the number of digits a uint32 needs.
func numericMask(text string, base int) string {
	maxLen := 10
	if base == 8 {
		maxLen = 12
	}

	var b strings.Builder
	for i := 0; i < len(text) && b.Len() < maxLen; i++ {
		c := text[i]
		switch {
		case c >= '0' && c <= '7':
		case c >= '8' && c <= '9' && base != 8:
		case base == 16 && (c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' || c == 'x' || c == 'X'):
		default:
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ChoiceSession edits an enumeration entry. Each selection is stored immediately.
type ChoiceSession struct {
	editor   *Editor
	row      *Row
	choices  []Choice
	selected int
	closed   bool
}

func (ed *Editor) openChoice(row *Row, current int) *ChoiceSession {
	ed.CloseSession()
	s := &ChoiceSession{
		editor:   ed,
		row:      row,
		choices:  row.entry.Choices(),
		selected: -1,
	}
	for i, c := range s.choices {
		if c.Value == current {
			s.selected = i
			break
		}
	}
	ed.session = s
	return s
}

func (s *ChoiceSession) Row() *Row         { return s.row }
func (s *ChoiceSession) Closed() bool      { return s.closed }
func (s *ChoiceSession) Choices() []Choice { return s.choices }

// Selected is the index of the selected choice, or -1.
func (s *ChoiceSession) Selected() int { return s.selected }

// Select stores the choice at index.
func (s *ChoiceSession) Select(index int) error {
	if s.closed {
		return fmt.Errorf("%w: session is closed", ErrInvalidInput)
	}
	if index < 0 || index >= len(s.choices) {
		return fmt.Errorf("%w: choice index %d", ErrInvalidInput, index)
	}
	s.selected = index
	return s.editor.Apply(SetCommand(s.row.entry, EnumValue(s.choices[index].Value)))
}

func (s *ChoiceSession) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.editor.detach(s)
}

// detach forgets s if it is the open session and refreshes its row.
func (ed *Editor) detach(s Session) {
	if ed.session == s {
		ed.session = nil
	}
	refreshRow(ed.registry, s.Row())
}
