package constants

const (
	SettingTimezone             = "timezone"
	SettingWakingStart          = "waking_start"
	SettingWakingEnd            = "waking_end"
	SettingBeastPeriodMin       = "beast_period_min"
	SettingBeastAnchor          = "beast_anchor"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingProfileTier          = "profile_tier"

	// BeastMode anchors
	BeastAnchorSubmit = "submit"
	BeastAnchorClock  = "clock"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultWakingStart          = 6
	DefaultWakingEnd            = 23
	DefaultBeastPeriodMin       = 15
	DefaultBeastAnchor          = BeastAnchorSubmit
	DefaultNotificationsEnabled = true
)
