package scheduler

import (
	"time"

	"github.com/julianstephens/wth/internal/models"
)

// Countdown is the time left before the next forced reflection. Without a
// stamp the full period remains; otherwise period minus the time since the
// last submission, clamped to [0, period].
func Countdown(state models.SchedulerState, now time.Time, period time.Duration) time.Duration {
	if !state.HasStamp() {
		return period
	}
	left := period - now.Sub(state.LastSubmitAt)
	if left < 0 {
		return 0
	}
	if left > period {
		return period
	}
	return left
}

// UntilNextAnchor is the time to the next clock boundary that is a whole
// number of periods after local midnight, e.g. :00/:15/:30/:45 for 15 minutes.
// Exactly on a boundary the following one is returned.
func UntilNextAnchor(now time.Time, period time.Duration) time.Duration {
	if period <= 0 {
		return 0
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	into := now.Sub(midnight) % period
	return period - into
}
