package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit        key.Binding
	Up          key.Binding
	Down        key.Binding
	Enter       key.Binding
	Cancel      key.Binding
	Help        key.Binding
	Win         key.Binding
	Loss        key.Binding
	Rate        key.Binding
	Relog       key.Binding
	Today       key.Binding
	Unavailable key.Binding
	Beast       key.Binding
	Priorities  key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Win, k.Loss, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Today, k.Quit, k.Help},
		{k.Win, k.Loss, k.Rate, k.Relog, k.Enter, k.Cancel},
		{k.Unavailable, k.Beast, k.Priorities},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev hour"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next hour"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Win: key.NewBinding(
			key.WithKeys("w", "y"),
			key.WithHelp("w", "won it"),
		),
		Loss: key.NewBinding(
			key.WithKeys("l", "n"),
			key.WithHelp("l", "lost it"),
		),
		Rate: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "rate"),
		),
		Relog: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-log"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "current hour"),
		),
		Unavailable: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "toggle unavailable"),
		),
		Beast: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "BeastMode"),
		),
		Priorities: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "MYBED"),
		),
	}
}
