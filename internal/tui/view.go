package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/wth/internal/checkin"
	"github.com/julianstephens/wth/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.screen == ScreenPriorities {
		return docStyle.Render(m.form.View())
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.hourList.View(),
		panelStyle.Render(m.viewFlow()),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	s := m.overview.Summary
	stats := mutedStyle.Render(fmt.Sprintf("%d won / %d logged (%d%%)", s.Won, s.Logged, s.WinRate))
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("Win The Hour "+m.date),
		"  ", stats, "  ",
		m.beastView.View(),
	)
}

func (m Model) viewFlow() string {
	f := m.flow
	var b strings.Builder

	b.WriteString(titleStyle.Render(utils.FormatHour(f.Hour())))
	b.WriteString("\n\n")

	switch f.State() {
	case checkin.StateUnavailable:
		b.WriteString(mutedStyle.Render("Marked unavailable. Press u to clear."))
	case checkin.StateFuture:
		b.WriteString(mutedStyle.Render("This hour hasn't happened yet."))
	case checkin.StateAsk:
		b.WriteString(questionStyle.Render("Did you win this hour?"))
		b.WriteString("\n[w] Won it    [l] Lost it")
	case checkin.StatePlan:
		b.WriteString(winStyle.Render("Nice. Keep it going."))
		b.WriteString("\n\n")
		b.WriteString(questionStyle.Render("Plan for the next hour:"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case checkin.StateLossReason:
		b.WriteString(questionStyle.Render("What got in the way?"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case checkin.StateRate:
		b.WriteString(questionStyle.Render("How hard did you lose it? (1-5)"))
		b.WriteString("\n[1] [2] [3] [4] [5]")
	case checkin.StateDone, checkin.StateDoneExisting:
		b.WriteString(m.viewRecord())
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("[r] re-log this hour"))
	}

	if p := m.overview.Priorities; p.Filled() > 0 {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("MYBED"))
		for _, item := range p {
			if strings.TrimSpace(item) != "" {
				b.WriteString("\n • " + item)
			}
		}
	}
	if line := m.sponsorLine(); line != "" {
		b.WriteString("\n\n")
		b.WriteString(sponsorStyle.Render(line))
	}
	if m.flash != "" {
		b.WriteString("\n\n")
		b.WriteString(dangerStyle.Render(m.flash))
	}
	return b.String()
}

func (m Model) viewRecord() string {
	rec, ok := m.flow.Record()
	if !ok {
		return ""
	}
	if rec.Won() {
		return winStyle.Render("WON") + "\nNext: " + rec.PlanText()
	}
	return lossStyle.Render(rec.StatusLabel()) + "\nReason: " + rec.ReasonText()
}
