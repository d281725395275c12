package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines the console's key bindings. Global bindings always win;
// Up/Down/Confirm are interpreted by whichever panel has focus.
type keyMap struct {
	Quit       key.Binding
	Interrupt  key.Binding
	FocusNext  key.Binding
	FocusPrev  key.Binding
	Connect    key.Binding
	Disconnect key.Binding

	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q"),
			key.WithHelp("q", "quit"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panel"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		Connect: key.NewBinding(
			key.WithKeys("c", "C"),
			key.WithHelp("c", "connect"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("d", "D"),
			key.WithHelp("d", "disconnect"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "execute"),
		),
	}
}

// ShortHelp implements help.KeyMap; the footer renders these hints.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.FocusNext, k.Connect, k.Confirm, k.Up, k.Down}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Interrupt, k.FocusNext, k.FocusPrev},
		{k.Connect, k.Disconnect},
		{k.Up, k.Down, k.Confirm},
	}
}
