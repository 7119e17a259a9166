// Package tui is the interactive check-in screen.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wth/internal/checkin"
	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/placement"
	"github.com/julianstephens/wth/internal/scheduler"
	"github.com/julianstephens/wth/internal/storage"
	"github.com/julianstephens/wth/internal/tui/components/beast"
	"github.com/julianstephens/wth/internal/tui/components/hours"
	"github.com/julianstephens/wth/internal/utils"
)

type Screen int

const (
	ScreenCheckIn Screen = iota
	ScreenPriorities
)

// Config wires the TUI to the rest of the app.
type Config struct {
	Store     *storage.RecordStore
	Catalog   *placement.Catalog
	Scheduler *scheduler.Scheduler
	Tier      models.Tier
	Settings  models.Settings
	Now       func() time.Time
}

// session holds the state shared by every copy of Model.
type session struct {
	store *storage.RecordStore
	sched *scheduler.Scheduler
	beast models.SchedulerState

	// The store hook runs on overview loader goroutines.
	mu        sync.Mutex
	saveError error
}

// storeFailed records failed check-in writes. Read failures fall back to
// empty values and are only logged.
func (s *session) storeFailed(op string, err error) {
	if op != "upsert" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveError == nil {
		s.saveError = fmt.Errorf("%s: %w", op, err)
	}
}

// takeSaveError returns and clears the recorded write failure.
func (s *session) takeSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.saveError
	s.saveError = nil
	return err
}

func (s *session) onSubmit(rec models.CheckInRecord) {
	if !s.beast.Enabled {
		return
	}
	s.beast = s.sched.RecordSubmit(s.beast, rec.LoggedAt)
	s.store.SaveSchedulerState(context.Background(), s.beast)
}

type PrioritiesFormModel struct {
	Items models.Priorities
}

type Model struct {
	ctx      context.Context
	sess     *session
	catalog  *placement.Catalog
	tier     models.Tier
	settings models.Settings
	loc      *time.Location
	clock    func() time.Time

	date     string
	flow     *checkin.Flow
	overview checkin.Overview

	screen    Screen
	keys      KeyMap
	help      help.Model
	hourList  hours.Model
	beastView beast.Model
	input     textinput.Model
	form      *huh.Form
	prioForm  *PrioritiesFormModel
	flash     string
	quitting  bool
	width     int
	height    int
}

func NewModel(ctx context.Context, cfg Config) (Model, error) {
	loc, err := utils.LoadLocation(cfg.Settings.Timezone)
	if err != nil {
		return Model{}, err
	}
	clock := cfg.Now
	if clock == nil {
		clock = time.Now
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = placement.StaticCatalog(nil)
	}

	sess := &session{store: cfg.Store, sched: cfg.Scheduler}
	cfg.Store.OnError(sess.storeFailed)

	input := textinput.New()
	input.CharLimit = 280
	input.Width = 50

	m := Model{
		ctx:      ctx,
		sess:     sess,
		catalog:  catalog,
		tier:     cfg.Tier,
		settings: cfg.Settings,
		loc:      loc,
		clock:    clock,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    input,
	}

	now := m.now()
	m.date = utils.DateOf(now)
	m.hourList = hours.New(nil, 30, 20)
	m.beastView = beast.New(now)

	m.flow, err = checkin.New(ctx, cfg.Store, m.date, now.Hour(),
		checkin.WithClock(m.now),
		checkin.WithSubmitHook(sess.onSubmit),
	)
	if err != nil {
		return Model{}, err
	}
	if err := m.refresh(); err != nil {
		return Model{}, err
	}
	m.hourList.Select(now.Hour())

	sess.beast = sess.sched.Start(ctx, cfg.Store.LoadSchedulerState(ctx))
	m.syncBeast(now)
	return m, nil
}

func (m Model) now() time.Time {
	return m.clock().In(m.loc)
}

// Flow exposes the active check-in flow.
func (m Model) Flow() *checkin.Flow {
	return m.flow
}

func (m Model) ShortHelp() []key.Binding {
	switch m.flow.State() {
	case checkin.StateAsk:
		return []key.Binding{m.keys.Win, m.keys.Loss, m.keys.Up, m.keys.Down, m.keys.Help}
	case checkin.StatePlan, checkin.StateLossReason:
		return []key.Binding{m.keys.Enter, m.keys.Cancel}
	case checkin.StateRate:
		return []key.Binding{m.keys.Rate, m.keys.Cancel}
	case checkin.StateDone, checkin.StateDoneExisting:
		return []key.Binding{m.keys.Relog, m.keys.Up, m.keys.Down, m.keys.Help}
	default:
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Unavailable, m.keys.Help}
	}
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.beastView.Init(), listenForFires(m.ctx, m.sess.sched))
}

// refresh reloads the overview for the current date.
func (m *Model) refresh() error {
	ov, err := checkin.LoadOverview(m.ctx, m.sess.store, m.date, m.now(), m.settings)
	if err != nil {
		return err
	}
	m.overview = ov
	m.hourList.SetSlots(ov.Hours)
	return nil
}

func (m *Model) selectHour(hour int) {
	if err := m.flow.Select(m.ctx, m.date, hour); err != nil {
		logger.Warn("Failed to select hour", "hour", hour, "error", err)
		return
	}
	m.input.Reset()
	m.input.Blur()
	m.flash = ""
}

func (m *Model) syncBeast(now time.Time) {
	m.beastView.Enabled = m.sess.beast.Enabled
	m.beastView.Remaining = m.sess.sched.Remaining(now)
}

// sponsorLine is the hour sponsor for free-tier users, if any.
func (m Model) sponsorLine() string {
	if !placement.ShowHourSponsor(m.tier) {
		return ""
	}
	p, ok := m.catalog.Resolver().ResolveForHour(m.flow.Hour(), m.tier)
	if !ok {
		return ""
	}
	return p.SponsorLine()
}
