// Package beast shows the BeastMode countdown.
package beast

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	onStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	offStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

type Model struct {
	Enabled   bool
	Remaining time.Duration
	Time      time.Time
}

func New(now time.Time) Model {
	return Model{Time: now}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.Time = time.Time(msg)
		return m, tick()
	}
	return m, nil
}

// FormatRemaining renders d as m:ss, or h:mm:ss above an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	h, mins, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, s)
	}
	return fmt.Sprintf("%d:%02d", mins, s)
}

func (m Model) View() string {
	clock := clockStyle.Render(m.Time.Format("15:04:05"))
	if !m.Enabled {
		return lipgloss.JoinHorizontal(lipgloss.Top, clock, offStyle.Render("BeastMode off"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, clock,
		onStyle.Render("BeastMode "+FormatRemaining(m.Remaining)))
}
