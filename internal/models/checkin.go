package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/wth/internal/constants"
)

// HourResult is the verdict for a single hour.
type HourResult string

const (
	ResultWin  HourResult = "win"
	ResultLoss HourResult = "loss"
)

func (r HourResult) Valid() bool {
	return r == ResultWin || r == ResultLoss
}

// CheckInRecord is one hour check-in. Loss fields are only set when Result is
// ResultLoss and NextHourPlan only when Result is ResultWin.
type CheckInRecord struct {
	Version            int        `json:"v,omitempty"`
	Date               string     `json:"date"` // YYYY-MM-DD format
	Hour               int        `json:"hour"` // 0-23
	Result             HourResult `json:"hour_result"`
	IntensityRating    *int       `json:"intensity_rating,omitempty"`
	LossReasonCategory *string    `json:"loss_reason_category,omitempty"`
	LossReason         *string    `json:"loss_reason_text,omitempty"`
	NextHourPlan       *string    `json:"nextHourPlan,omitempty"`
	LoggedAt           time.Time  `json:"loggedAt"`
}

// SlotKey identifies the (date, hour) pair a record occupies.
type SlotKey struct {
	Date string
	Hour int
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s@%02d", k.Date, k.Hour)
}

func (r CheckInRecord) Key() SlotKey {
	return SlotKey{Date: r.Date, Hour: r.Hour}
}

func (r CheckInRecord) Won() bool {
	return r.Result == ResultWin
}

// NewWinRecord builds a WIN record; plan is trimmed.
func NewWinRecord(date string, hour int, plan string, loggedAt time.Time) CheckInRecord {
	plan = strings.TrimSpace(plan)
	return CheckInRecord{
		Version:      constants.CheckInSchemaVersion,
		Date:         date,
		Hour:         hour,
		Result:       ResultWin,
		NextHourPlan: &plan,
		LoggedAt:     loggedAt,
	}
}

// NewLossRecord builds a LOSS record; reason is trimmed.
func NewLossRecord(date string, hour int, reason string, rating int, loggedAt time.Time) CheckInRecord {
	reason = strings.TrimSpace(reason)
	return CheckInRecord{
		Version:         constants.CheckInSchemaVersion,
		Date:            date,
		Hour:            hour,
		Result:          ResultLoss,
		IntensityRating: &rating,
		LossReason:      &reason,
		LoggedAt:        loggedAt,
	}
}

// Normalize drops the fields that do not belong to the record's result so that
// the absent set is never carried as a placeholder.
func (r CheckInRecord) Normalize() CheckInRecord {
	switch r.Result {
	case ResultWin:
		r.IntensityRating = nil
		r.LossReason = nil
		r.LossReasonCategory = nil
	case ResultLoss:
		r.NextHourPlan = nil
	}
	r.Version = constants.CheckInSchemaVersion
	return r
}

// PlanText returns the next hour plan or "".
func (r CheckInRecord) PlanText() string {
	if r.NextHourPlan == nil {
		return ""
	}
	return *r.NextHourPlan
}

// ReasonText returns the loss reason or "".
func (r CheckInRecord) ReasonText() string {
	if r.LossReason == nil {
		return ""
	}
	return *r.LossReason
}

// Rating returns the intensity rating or 0 when absent.
func (r CheckInRecord) Rating() int {
	if r.IntensityRating == nil {
		return 0
	}
	return *r.IntensityRating
}

// StatusLabel is the short badge shown for a logged hour, e.g. "WON" or "LOST 2/5".
func (r CheckInRecord) StatusLabel() string {
	if r.Won() {
		return "WON"
	}
	if r.IntensityRating == nil {
		return "LOST"
	}
	return fmt.Sprintf("LOST %d/5", *r.IntensityRating)
}
