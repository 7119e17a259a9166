package models

import (
	"encoding/json"
	"sort"

	"github.com/julianstephens/wth/internal/constants"
)

// HourSet is a set of clock hours (0-23). It encodes as a sorted JSON array.
type HourSet map[int]struct{}

func NewHourSet(hours ...int) HourSet {
	s := HourSet{}
	for _, h := range hours {
		s.Add(h)
	}
	return s
}

func (s HourSet) Has(hour int) bool {
	_, ok := s[hour]
	return ok
}

// Add ignores hours outside 0-23.
func (s HourSet) Add(hour int) {
	if hour < 0 || hour >= constants.HoursPerDay {
		return
	}
	s[hour] = struct{}{}
}

func (s HourSet) Remove(hour int) {
	delete(s, hour)
}

// Toggle flips membership of hour and reports whether it is now a member.
func (s HourSet) Toggle(hour int) bool {
	if s.Has(hour) {
		s.Remove(hour)
		return false
	}
	s.Add(hour)
	return s.Has(hour)
}

func (s HourSet) Sorted() []int {
	hours := make([]int, 0, len(s))
	for h := range s {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

func (s HourSet) Clone() HourSet {
	c := make(HourSet, len(s))
	for h := range s {
		c[h] = struct{}{}
	}
	return c
}

func (s HourSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *HourSet) UnmarshalJSON(data []byte) error {
	var hours []int
	if err := json.Unmarshal(data, &hours); err != nil {
		return err
	}
	*s = NewHourSet(hours...)
	return nil
}
