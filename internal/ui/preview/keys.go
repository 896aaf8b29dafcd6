package preview

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts of the preview screen.
// Буквенные клавиши заняты полями ввода, поэтому переключатели висят на ctrl.
type KeyMap struct {
	Quit            key.Binding
	Help            key.Binding
	NextField       key.Binding
	PrevField       key.Binding
	ToggleDirection key.Binding
	ToggleInput     key.Binding
	ToggleAuto      key.Binding
	ToggleLogs      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		ToggleDirection: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "buy/sell"),
		),
		ToggleInput: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "base/quote input"),
		),
		ToggleAuto: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "auto slippage"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logs"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleDirection, k.ToggleInput, k.ToggleAuto, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField},
		{k.ToggleDirection, k.ToggleInput, k.ToggleAuto},
		{k.ToggleLogs, k.Help, k.Quit},
	}
}
