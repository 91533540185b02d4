package prefseditor

import "fmt"

// CommandName identifies the kind of edit a Command performs.
type CommandName string

const (
	// CommandSet stores Command.Value.
	CommandSet CommandName = "set"
	// CommandToggle flips a boolean entry.
	CommandToggle CommandName = "toggle"
	// CommandReset restores the default value.
	CommandReset CommandName = "reset"
)

// Command is a single edit applied synchronously to the registry by Editor.Apply.
type Command struct {
	Name  CommandName
	Entry *Entry
	// Value is only used by CommandSet.
	Value Value
}

func SetCommand(e *Entry, v Value) Command {
	return Command{Name: CommandSet, Entry: e, Value: v}
}

func ToggleCommand(e *Entry) Command {
	return Command{Name: CommandToggle, Entry: e}
}

func ResetCommand(e *Entry) Command {
	return Command{Name: CommandReset, Entry: e}
}

func (c Command) String() string {
	name := "<nil>"
	if c.Entry != nil {
		name = c.Entry.FullName()
	}
	if c.Name == CommandSet && c.Value != nil && c.Entry != nil {
		return fmt.Sprintf("%s %s=%s", c.Name, name, formatValue(c.Entry, c.Value))
	}
	return fmt.Sprintf("%s %s", c.Name, name)
}
