package models

import "math"

// DaySummary counts the logged hours of one day.
type DaySummary struct {
	Won     int
	Lost    int
	Logged  int
	WinRate int // percent, rounded
}

// Summarize counts the records that belong to date.
func Summarize(records []CheckInRecord, date string) DaySummary {
	var s DaySummary
	for _, r := range records {
		if r.Date != date {
			continue
		}
		s.Logged++
		if r.Won() {
			s.Won++
		} else {
			s.Lost++
		}
	}
	if s.Logged > 0 {
		s.WinRate = int(math.Round(float64(s.Won) * 100 / float64(s.Logged)))
	}
	return s
}
