// Package scheduler implements BeastMode, the repeating forced reflection that
// sends the check-in flow back to its first question.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/models"
)

// Fire is one forced reflection. Generation identifies the arming that
// produced it.
type Fire struct {
	At         time.Time
	Generation uint64
}

type Option func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithAnchor selects "submit" (count from the last submission) or "clock"
// (fire on period boundaries since midnight).
func WithAnchor(anchor string) Option {
	return func(s *Scheduler) {
		s.anchor = anchor
	}
}

// Scheduler owns at most one repeating timer. Every arming gets a new
// generation; stopping or re-arming cancels the previous goroutine and drops
// any fire it left unread, so a stale timer never reaches the host.
type Scheduler struct {
	period time.Duration
	anchor string
	now    func() time.Time
	fires  chan Fire
	log    *log.Logger

	mu      sync.Mutex
	gen     uint64
	armed   bool
	nextAt  time.Time
	cancel  context.CancelFunc
	stopped chan struct{}
}

func New(period time.Duration, opts ...Option) *Scheduler {
	if period <= 0 {
		period = constants.DefaultBeastPeriod
	}
	s := &Scheduler{
		period: period,
		anchor: constants.BeastAnchorSubmit,
		now:    time.Now,
		fires:  make(chan Fire, 1),
		log:    logger.With("component", "beastmode"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Period() time.Duration {
	return s.period
}

// Fires delivers forced reflections. Fires are dropped when the previous one
// is still unread.
func (s *Scheduler) Fires() <-chan Fire {
	return s.fires
}

// Armed reports whether a timer is running.
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// IsCurrent reports whether f came from the running timer.
func (s *Scheduler) IsCurrent(f Fire) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed && f.Generation == s.gen
}

// Remaining is the time until the next fire, or the full period when idle.
func (s *Scheduler) Remaining(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.armed {
		return s.period
	}
	left := s.nextAt.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// resumeDelay is the wait before the first fire of a resumed state.
func (s *Scheduler) resumeDelay(state models.SchedulerState, now time.Time) time.Duration {
	if s.anchor == constants.BeastAnchorClock {
		return UntilNextAnchor(now, s.period)
	}
	return Countdown(state, now, s.period)
}

// nextDelay is the wait after a fire at now. Clock mode realigns to the next
// boundary.
func (s *Scheduler) nextDelay(now time.Time) time.Duration {
	if s.anchor == constants.BeastAnchorClock {
		return UntilNextAnchor(now, s.period)
	}
	return s.period
}

// Start resumes a persisted state: when enabled, the first fire comes after
// the remaining countdown and then every period.
func (s *Scheduler) Start(ctx context.Context, state models.SchedulerState) models.SchedulerState {
	if !state.Enabled {
		s.Stop()
		return state
	}
	now := s.now()
	s.arm(ctx, s.resumeDelay(state, now), now)
	return state
}

// Enable turns BeastMode on and arms the timer for a full period. In clock
// mode later fires land on period boundaries.
func (s *Scheduler) Enable(ctx context.Context, state models.SchedulerState) models.SchedulerState {
	now := s.now()
	state.Enabled = true
	state.LastSubmitAt = now
	s.arm(ctx, s.period, now)
	s.log.Info("BeastMode enabled", "period", s.period, "anchor", s.anchor)
	return state
}

// Disable stops the timer. The flow is left as it is.
func (s *Scheduler) Disable(state models.SchedulerState) models.SchedulerState {
	s.Stop()
	state.Enabled = false
	s.log.Info("BeastMode disabled")
	return state
}

// RecordSubmit stamps a submission while enabled. The running timer keeps its
// cadence.
func (s *Scheduler) RecordSubmit(state models.SchedulerState, now time.Time) models.SchedulerState {
	if state.Enabled {
		state.LastSubmitAt = now
	}
	return state
}

func (s *Scheduler) arm(ctx context.Context, first time.Duration, now time.Time) {
	s.Stop()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	runCtx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})
	s.armed = true
	s.nextAt = now.Add(first)
	s.cancel = cancel
	s.stopped = stopped
	s.mu.Unlock()

	s.log.Debug("Timer armed", "generation", gen, "first", first)
	go s.run(runCtx, gen, first, stopped)
}

// Stop cancels the running timer and waits for its goroutine to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.armed {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.armed = false
	cancel, stopped := s.cancel, s.stopped
	s.cancel, s.stopped = nil, nil
	select {
	case <-s.fires:
	default:
	}
	s.mu.Unlock()

	cancel()
	<-stopped
}

func (s *Scheduler) run(ctx context.Context, gen uint64, first time.Duration, stopped chan struct{}) {
	defer close(stopped)

	timer := time.NewTimer(first)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			next, ok := s.deliver(gen)
			if !ok {
				return
			}
			timer.Reset(next)
		}
	}
}

// deliver sends a fire for gen unless it has been superseded and returns the
// wait before the next one.
func (s *Scheduler) deliver(gen uint64) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.armed || gen != s.gen {
		return 0, false
	}
	now := s.now()
	next := s.nextDelay(now)
	s.nextAt = now.Add(next)
	select {
	case s.fires <- Fire{At: now, Generation: gen}:
		s.log.Debug("Forced reflection", "generation", gen)
	default:
		s.log.Debug("Forced reflection dropped, previous unread", "generation", gen)
	}
	return next, true
}
