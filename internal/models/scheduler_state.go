package models

import "time"

// SchedulerState is the persisted BeastMode state. A zero LastSubmitAt means no
// submission has been stamped yet.
type SchedulerState struct {
	Enabled      bool
	LastSubmitAt time.Time
}

func (s SchedulerState) HasStamp() bool {
	return !s.LastSubmitAt.IsZero()
}
