// Package checkin drives one hour's win/loss check-in.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/utils"
)

// State is a step of the check-in flow.
type State string

const (
	StateAsk          State = "ASK"
	StatePlan         State = "PLAN"
	StateLossReason   State = "LOSS_REASON"
	StateRate         State = "RATE"
	StateDone         State = "DONE"
	StateDoneExisting State = "DONE_EXISTING"
	StateFuture       State = "FUTURE"
	StateUnavailable  State = "UNAVAILABLE"
)

// Inert states accept no intents.
func (s State) Inert() bool {
	return s == StateFuture || s == StateUnavailable
}

// Finished states show a stored record.
func (s State) Finished() bool {
	return s == StateDone || s == StateDoneExisting
}

var (
	ErrTransition    = errors.New("transition not allowed from current state")
	ErrInert         = errors.New("hour does not accept check-ins")
	ErrEmptyPlan     = errors.New("next hour plan is required")
	ErrEmptyReason   = errors.New("loss reason is required")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrInvalidSlot   = errors.New("invalid date or hour")
)

// Store is the part of the record store the flow needs.
type Store interface {
	Find(ctx context.Context, date string, hour int) (models.CheckInRecord, bool)
	LoadUnavailable(ctx context.Context) models.HourSet
	Upsert(ctx context.Context, record models.CheckInRecord)
}

type Option func(*Flow)

// WithClock replaces time.Now. The returned time's location decides which
// hours are in the future.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		f.now = now
	}
}

// WithSubmitHook runs fn after every stored submission.
func WithSubmitHook(fn func(models.CheckInRecord)) Option {
	return func(f *Flow) {
		f.OnSubmit(fn)
	}
}

// Flow is the check-in state machine for one selected hour. It is not safe
// for concurrent use; hosts drive it from a single goroutine.
type Flow struct {
	store Store
	now   func() time.Time
	hooks []func(models.CheckInRecord)

	date      string
	hour      int
	state     State
	sessionID string

	plan   string
	reason string
	record *models.CheckInRecord
}

// New opens the flow for (date, hour) and resolves its initial state.
func New(ctx context.Context, store Store, date string, hour int, opts ...Option) (*Flow, error) {
	f := &Flow{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.Select(ctx, date, hour); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Flow) State() State      { return f.state }
func (f *Flow) Date() string      { return f.date }
func (f *Flow) Hour() int         { return f.hour }
func (f *Flow) SessionID() string { return f.sessionID }
func (f *Flow) Plan() string      { return f.plan }
func (f *Flow) Reason() string    { return f.reason }

// Record returns the stored record shown in DONE and DONE_EXISTING.
func (f *Flow) Record() (models.CheckInRecord, bool) {
	if f.record == nil {
		return models.CheckInRecord{}, false
	}
	return *f.record, true
}

// OnSubmit registers fn to run after each stored submission.
func (f *Flow) OnSubmit(fn func(models.CheckInRecord)) {
	if fn != nil {
		f.hooks = append(f.hooks, fn)
	}
}

// Select switches the active hour. All drafts are discarded, a new session ID
// is issued and the initial state is resolved again.
func (f *Flow) Select(ctx context.Context, date string, hour int) error {
	if !utils.ValidateDate(date) || hour < 0 || hour >= constants.HoursPerDay {
		return fmt.Errorf("%w: %s hour %d", ErrInvalidSlot, date, hour)
	}

	f.date = date
	f.hour = hour
	f.sessionID = uuid.NewString()
	f.clearDrafts()
	f.record = nil

	switch {
	case f.store.LoadUnavailable(ctx).Has(hour):
		f.state = StateUnavailable
	case utils.IsFutureHour(date, hour, f.now()):
		f.state = StateFuture
	default:
		if rec, ok := f.store.Find(ctx, date, hour); ok {
			f.record = &rec
			f.state = StateDoneExisting
		} else {
			f.state = StateAsk
		}
	}

	logger.Debug("Check-in flow selected", "date", date, "hour", hour, "state", f.state, "session", f.sessionID)
	return nil
}

func (f *Flow) clearDrafts() {
	f.plan = ""
	f.reason = ""
}

func (f *Flow) require(want State) error {
	if f.state.Inert() {
		return ErrInert
	}
	if f.state != want {
		return fmt.Errorf("%w: %s", ErrTransition, f.state)
	}
	return nil
}

// DeclareWin moves ASK to PLAN.
func (f *Flow) DeclareWin() error {
	if err := f.require(StateAsk); err != nil {
		return err
	}
	f.state = StatePlan
	return nil
}

// DeclareLoss moves ASK to LOSS_REASON.
func (f *Flow) DeclareLoss() error {
	if err := f.require(StateAsk); err != nil {
		return err
	}
	f.state = StateLossReason
	return nil
}

// SetPlan updates the plan draft.
func (f *Flow) SetPlan(text string) error {
	if err := f.require(StatePlan); err != nil {
		return err
	}
	f.plan = text
	return nil
}

func (f *Flow) CanSubmitPlan() bool {
	return f.state == StatePlan && strings.TrimSpace(f.plan) != ""
}

// SubmitPlan stores a WIN record and moves PLAN to DONE.
func (f *Flow) SubmitPlan(ctx context.Context) error {
	if err := f.require(StatePlan); err != nil {
		return err
	}
	if !f.CanSubmitPlan() {
		return ErrEmptyPlan
	}
	f.submit(ctx, models.NewWinRecord(f.date, f.hour, f.plan, f.now()))
	f.state = StateDone
	return nil
}

// SetReason updates the loss reason draft.
func (f *Flow) SetReason(text string) error {
	if err := f.require(StateLossReason); err != nil {
		return err
	}
	f.reason = text
	return nil
}

func (f *Flow) CanSubmitReason() bool {
	return f.state == StateLossReason && strings.TrimSpace(f.reason) != ""
}

// SubmitReason moves LOSS_REASON to RATE. Nothing is stored yet.
func (f *Flow) SubmitReason() error {
	if err := f.require(StateLossReason); err != nil {
		return err
	}
	if !f.CanSubmitReason() {
		return ErrEmptyReason
	}
	f.state = StateRate
	return nil
}

// Rate stores a LOSS record with rating n and moves RATE to DONE_EXISTING.
func (f *Flow) Rate(ctx context.Context, n int) error {
	if err := f.require(StateRate); err != nil {
		return err
	}
	if n < constants.MinRating || n > constants.MaxRating {
		return ErrInvalidRating
	}
	f.submit(ctx, models.NewLossRecord(f.date, f.hour, f.reason, n, f.now()))
	f.state = StateDoneExisting
	return nil
}

// Cancel abandons an in-progress answer and returns to ASK.
func (f *Flow) Cancel() error {
	if f.state.Inert() {
		return ErrInert
	}
	switch f.state {
	case StatePlan, StateLossReason, StateRate:
		f.clearDrafts()
		f.state = StateAsk
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrTransition, f.state)
	}
}

// Relog returns a finished hour to ASK so it can be answered again.
func (f *Flow) Relog() error {
	if f.state.Inert() {
		return ErrInert
	}
	if !f.state.Finished() {
		return fmt.Errorf("%w: %s", ErrTransition, f.state)
	}
	f.clearDrafts()
	f.state = StateAsk
	return nil
}

// ForceReset sends the flow back to ASK for a forced reflection. Resets for an
// older session are ignored, as are inert hours. It reports whether the flow
// changed.
func (f *Flow) ForceReset(sessionID string) bool {
	if sessionID != f.sessionID {
		logger.Debug("Ignoring stale reset", "session", sessionID)
		return false
	}
	if f.state.Inert() {
		return false
	}
	f.clearDrafts()
	f.state = StateAsk
	return true
}

func (f *Flow) submit(ctx context.Context, rec models.CheckInRecord) {
	f.store.Upsert(ctx, rec)
	f.record = &rec
	for _, hook := range f.hooks {
		hook(rec)
	}
	logger.Info("Hour logged", "date", rec.Date, "hour", rec.Hour, "result", rec.Result)
}
