package controller

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings for normal and task-entry modes.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Finish  key.Binding
	Archive key.Binding
	Next    key.Binding
	Prev    key.Binding
	Start   key.Binding
	Export  key.Binding
	Chart   key.Binding
	Help    key.Binding
	Quit    key.Binding

	// Task entry
	Submit    key.Binding
	Cancel    key.Binding
	Backspace key.Binding
	Interrupt key.Binding
}

var Keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add task"),
	),
	Finish: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "finish"),
	),
	Archive: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "archive done"),
	),
	Next: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next state"),
	),
	Prev: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "prev state"),
	),
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Chart: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "stats"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace", "delete"),
		key.WithHelp("⌫", "delete char"),
	),
	Interrupt: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Add, k.Finish, k.Next, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Next, k.Prev},
		{k.Add, k.Finish, k.Archive, k.Export},
		{k.Up, k.Down, k.Chart},
		{k.Help, k.Quit},
	}
}

// EntryHelp lists the bindings active while typing a new task.
func (k KeyMap) EntryHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.Backspace, k.Interrupt}
}
