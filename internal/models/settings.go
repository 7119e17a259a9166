package models

// Settings holds user-tunable values stored alongside the check-ins.
type Settings struct {
	Timezone             string `json:"timezone"`              // IANA name or "Local"
	WakingStart          int    `json:"waking_start"`          // first hour shown in overviews
	WakingEnd            int    `json:"waking_end"`            // last hour shown in overviews, inclusive
	BeastPeriodMin       int    `json:"beast_period_min"`      // BeastMode reflection period in minutes
	BeastAnchor          string `json:"beast_anchor"`          // "submit" or "clock"
	NotificationsEnabled bool   `json:"notifications_enabled"` // desktop notifications from beast watch
	ProfileTier          string `json:"profile_tier"`          // last resolved subscription tier
}

// WakingHours lists the hours between WakingStart and WakingEnd inclusive.
func (s Settings) WakingHours() []int {
	start, end := s.WakingStart, s.WakingEnd
	if start < 0 {
		start = 0
	}
	if end > 23 {
		end = 23
	}
	var hours []int
	for h := start; h <= end; h++ {
		hours = append(hours, h)
	}
	return hours
}
