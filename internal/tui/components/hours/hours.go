// Package hours is the day's hour list.
package hours

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/wth/internal/checkin"
)

// SelectHourMsg is sent when the highlighted hour changes.
type SelectHourMsg struct {
	Hour int
}

type Item struct {
	Slot checkin.HourSlot
}

func (i Item) Title() string {
	title := i.Slot.Label
	if i.Slot.Current {
		title += "  ◀ now"
	}
	return title
}

func (i Item) Description() string {
	switch i.Slot.Status {
	case checkin.HourUnavailable:
		return "unavailable"
	case checkin.HourFuture:
		return "upcoming"
	case checkin.HourLogged:
		return i.Slot.Record.StatusLabel()
	default:
		return "not logged"
	}
}

func (i Item) FilterValue() string { return i.Slot.Label }

type KeyMap struct {
	Up   key.Binding
	Down key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(slots []checkin.HourSlot, width, height int) Model {
	l := list.New(items(slots), list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return Model{list: l, keys: DefaultKeyMap()}
}

func items(slots []checkin.HourSlot) []list.Item {
	out := make([]list.Item, len(slots))
	for i, s := range slots {
		out[i] = Item{Slot: s}
	}
	return out
}

// SetSlots replaces the rows and keeps the highlighted hour when it still exists.
func (m *Model) SetSlots(slots []checkin.HourSlot) {
	hour, ok := m.Selected()
	m.list.SetItems(items(slots))
	if ok {
		m.Select(hour)
	}
}

// Selected returns the highlighted hour.
func (m Model) Selected() (int, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Slot.Hour, true
	}
	return 0, false
}

// Select highlights hour if it is listed.
func (m *Model) Select(hour int) bool {
	for idx, it := range m.list.Items() {
		if it.(Item).Slot.Hour == hour {
			m.list.Select(idx)
			return true
		}
	}
	return false
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update moves the highlight. Keys other than up/down are ignored.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !(key.Matches(keyMsg, m.keys.Up) || key.Matches(keyMsg, m.keys.Down)) {
		return m, nil
	}

	before, _ := m.Selected()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	after, ok := m.Selected()
	if ok && after != before {
		return m, tea.Batch(cmd, func() tea.Msg { return SelectHourMsg{Hour: after} })
	}
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No waking hours configured."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
