package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/wth/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// DateOf formats t as a calendar date in its own location.
func DateOf(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ValidateDate checks that dateStr is a YYYY-MM-DD calendar date.
func ValidateDate(dateStr string) bool {
	_, err := time.Parse(constants.DateFormat, dateStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// FormatHour renders a clock hour as "h:00 AM" / "h:00 PM".
func FormatHour(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:00 %s", h, suffix)
}

// IsFutureHour reports whether (date, hour) lies after the wall-clock hour of now.
// now must already be in the user's timezone.
func IsFutureHour(date string, hour int, now time.Time) bool {
	today := DateOf(now)
	if date != today {
		return date > today
	}
	return hour > now.Hour()
}

// FromEpochMillis converts a millisecond timestamp; 0 yields the zero time.
func FromEpochMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// ToEpochMillis is the inverse of FromEpochMillis.
func ToEpochMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
