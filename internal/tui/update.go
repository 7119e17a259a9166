package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wth/internal/checkin"
	"github.com/julianstephens/wth/internal/scheduler"
	"github.com/julianstephens/wth/internal/tui/components/beast"
	"github.com/julianstephens/wth/internal/tui/components/hours"
	"github.com/julianstephens/wth/internal/utils"
)

// FireMsg is a forced reflection from BeastMode.
type FireMsg scheduler.Fire

func listenForFires(ctx context.Context, s *scheduler.Scheduler) tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-s.Fires():
			return FireMsg(f)
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case beast.TickMsg:
		var cmd tea.Cmd
		m.beastView, cmd = m.beastView.Update(msg)
		m.onTick()
		return m, cmd

	case FireMsg:
		if m.sess.sched.IsCurrent(scheduler.Fire(msg)) && m.flow.ForceReset(m.flow.SessionID()) {
			m.input.Reset()
			m.input.Blur()
			m.flash = "BeastMode: time to reflect. Did you win this hour?"
		}
		return m, listenForFires(m.ctx, m.sess.sched)
	}

	if m.screen == ScreenPriorities {
		return m.updatePriorities(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.hourList.SetSize(msg.Width/3, msg.Height-4)
		return m, nil

	case hours.SelectHourMsg:
		m.selectHour(msg.Hour)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.flow.State() {
		case checkin.StatePlan, checkin.StateLossReason:
			return m.updateText(msg)
		case checkin.StateRate:
			return m.updateRate(msg)
		}
		return m.updateBrowse(msg)
	}

	// Cursor blink and other input messages.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// onTick follows the clock across hour and day boundaries.
func (m *Model) onTick() {
	now := m.now()
	m.syncBeast(now)

	if today := utils.DateOf(now); today != m.date {
		m.date = today
		_ = m.refresh()
		m.hourList.Select(now.Hour())
		m.selectHour(now.Hour())
		return
	}
	for _, slot := range m.overview.Hours {
		if slot.Current && slot.Hour != now.Hour() {
			_ = m.refresh()
			if m.flow.State() == checkin.StateFuture && m.flow.Hour() <= now.Hour() {
				m.selectHour(m.flow.Hour())
			}
			return
		}
	}
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.hourList, cmd = m.hourList.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Today):
		hour := m.now().Hour()
		m.hourList.Select(hour)
		m.selectHour(hour)
		return m, nil
	case key.Matches(msg, m.keys.Win):
		err = m.flow.DeclareWin()
	case key.Matches(msg, m.keys.Loss):
		err = m.flow.DeclareLoss()
	case key.Matches(msg, m.keys.Relog):
		err = m.flow.Relog()
	case key.Matches(msg, m.keys.Unavailable):
		hour := m.flow.Hour()
		m.sess.store.ToggleUnavailable(m.ctx, hour)
		_ = m.refresh()
		m.selectHour(hour)
		return m, nil
	case key.Matches(msg, m.keys.Beast):
		m.toggleBeast()
		return m, nil
	case key.Matches(msg, m.keys.Priorities):
		return m, m.openPriorities()
	default:
		return m, nil
	}

	if err != nil {
		return m, nil
	}
	m.flash = ""
	switch m.flow.State() {
	case checkin.StatePlan:
		m.input.Reset()
		m.input.Placeholder = "What will you do next hour?"
		return m, m.input.Focus()
	case checkin.StateLossReason:
		m.input.Reset()
		m.input.Placeholder = "What got in the way?"
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateText(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		_ = m.flow.Cancel()
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		if m.flow.State() == checkin.StatePlan {
			m.sess.takeSaveError()
			if err := m.flow.SubmitPlan(m.ctx); err != nil {
				m.flash = err.Error()
				return m, nil
			}
			m.afterSubmit()
		} else {
			if err := m.flow.SubmitReason(); err != nil {
				m.flash = err.Error()
				return m, nil
			}
			m.flash = ""
		}
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.flow.State() == checkin.StatePlan {
		_ = m.flow.SetPlan(m.input.Value())
	} else {
		_ = m.flow.SetReason(m.input.Value())
	}
	return m, cmd
}

func (m Model) updateRate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		_ = m.flow.Cancel()
	case key.Matches(msg, m.keys.Rate):
		n := int(msg.Runes[0] - '0')
		m.sess.takeSaveError()
		if err := m.flow.Rate(m.ctx, n); err != nil {
			m.flash = err.Error()
			return m, nil
		}
		m.afterSubmit()
	}
	return m, nil
}

func (m *Model) afterSubmit() {
	m.flash = ""
	if err := m.sess.takeSaveError(); err != nil {
		m.flash = fmt.Sprintf("Not saved: %v", err)
	}
	_ = m.refresh()
	m.syncBeast(m.now())
}

func (m *Model) toggleBeast() {
	if m.sess.beast.Enabled {
		m.sess.beast = m.sess.sched.Disable(m.sess.beast)
	} else {
		m.sess.beast = m.sess.sched.Enable(m.ctx, m.sess.beast)
	}
	m.sess.store.SaveSchedulerState(m.ctx, m.sess.beast)
	m.syncBeast(m.now())
}

func (m *Model) openPriorities() tea.Cmd {
	m.prioForm = &PrioritiesFormModel{Items: m.sess.store.LoadPriorities(m.ctx, m.date)}
	fields := make([]huh.Field, 0, len(m.prioForm.Items))
	for i := range m.prioForm.Items {
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("Priority %d", i+1)).
			Value(&m.prioForm.Items[i]))
	}
	m.form = huh.NewForm(huh.NewGroup(fields...).Title("MYBED: " + m.date))
	m.screen = ScreenPriorities
	return m.form.Init()
}

func (m Model) updatePriorities(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.screen = ScreenCheckIn
		return m, nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.sess.store.SavePriorities(m.ctx, m.date, m.prioForm.Items)
		_ = m.refresh()
		m.screen = ScreenCheckIn
	case huh.StateAborted:
		m.screen = ScreenCheckIn
	}
	return m, cmd
}
