package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/utils"
	"github.com/julianstephens/wth/internal/validation"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone name, or Local."`
	WakingStart          *int    `help:"First waking hour shown in overviews (0-23)."`
	WakingEnd            *int    `help:"Last waking hour shown in overviews (0-23)."`
	BeastPeriodMin       *int    `help:"Minutes between BeastMode reflections."`
	BeastAnchor          *string `help:"Count BeastMode from the last check-in (submit) or clock boundaries (clock)." enum:"submit,clock,"`
	NotificationsEnabled *bool   `help:"Enable or disable desktop notifications from 'wth beast watch'."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	settings := ctx.Settings(bg)

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Printf("  Waking Hours:          %s - %s\n", utils.FormatHour(settings.WakingStart), utils.FormatHour(settings.WakingEnd))
		fmt.Println("\nBeastMode Settings:")
		fmt.Printf("  Period:                %d min\n", settings.BeastPeriodMin)
		fmt.Printf("  Anchor:                %s\n", settings.BeastAnchor)
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		if settings.ProfileTier != "" {
			fmt.Println("\nProfile:")
			fmt.Printf("  Cached Tier:           %s\n", settings.ProfileTier)
		}
		return nil
	}

	updated := false
	if c.Timezone != nil {
		settings.Timezone = strings.TrimSpace(*c.Timezone)
		updated = true
	}
	if c.WakingStart != nil {
		settings.WakingStart = *c.WakingStart
		updated = true
	}
	if c.WakingEnd != nil {
		settings.WakingEnd = *c.WakingEnd
		updated = true
	}
	if c.BeastPeriodMin != nil {
		settings.BeastPeriodMin = *c.BeastPeriodMin
		updated = true
	}
	if c.BeastAnchor != nil {
		settings.BeastAnchor = *c.BeastAnchor
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if result := validation.New().ValidateSettings(settings); result.HasConflicts() {
		return fmt.Errorf("invalid settings:\n%s", result.FormatReport())
	}
	ctx.Records.SaveSettings(bg, settings)
	fmt.Println("Settings updated successfully.")
	return nil
}
