package models

import (
	"fmt"

	"github.com/julianstephens/wth/internal/constants"
)

// MapToSettings converts stored key/value pairs to Settings. Missing keys keep
// their defaults.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingWakingStart:
			if _, err := fmt.Sscanf(value, "%d", &settings.WakingStart); err != nil {
				return Settings{}, fmt.Errorf("parsing waking_start: %w", err)
			}
		case constants.SettingWakingEnd:
			if _, err := fmt.Sscanf(value, "%d", &settings.WakingEnd); err != nil {
				return Settings{}, fmt.Errorf("parsing waking_end: %w", err)
			}
		case constants.SettingBeastPeriodMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.BeastPeriodMin); err != nil {
				return Settings{}, fmt.Errorf("parsing beast_period_min: %w", err)
			}
		case constants.SettingBeastAnchor:
			settings.BeastAnchor = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingProfileTier:
			settings.ProfileTier = value
		}
	}
	ApplyDefaultSettings(&settings)
	return settings, nil
}

// SettingsToMap converts Settings to key/value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingWakingStart:          fmt.Sprintf("%d", settings.WakingStart),
		constants.SettingWakingEnd:            fmt.Sprintf("%d", settings.WakingEnd),
		constants.SettingBeastPeriodMin:       fmt.Sprintf("%d", settings.BeastPeriodMin),
		constants.SettingBeastAnchor:          settings.BeastAnchor,
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingProfileTier:          settings.ProfileTier,
	}
}

// DefaultSettings returns a Settings value with every default applied.
func DefaultSettings() Settings {
	s := Settings{
		WakingStart:          constants.DefaultWakingStart,
		WakingEnd:            constants.DefaultWakingEnd,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
	ApplyDefaultSettings(&s)
	return s
}

// ApplyDefaultSettings fills empty or out-of-range values.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.WakingStart < 0 || settings.WakingStart > 23 {
		settings.WakingStart = constants.DefaultWakingStart
	}
	if settings.WakingEnd < settings.WakingStart || settings.WakingEnd > 23 {
		settings.WakingEnd = constants.DefaultWakingEnd
	}
	if settings.BeastPeriodMin <= 0 {
		settings.BeastPeriodMin = constants.DefaultBeastPeriodMin
	}
	if settings.BeastAnchor != constants.BeastAnchorSubmit && settings.BeastAnchor != constants.BeastAnchorClock {
		settings.BeastAnchor = constants.DefaultBeastAnchor
	}
}
