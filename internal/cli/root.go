package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/wth/internal/backup"
	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/placement"
	"github.com/julianstephens/wth/internal/profile"
	"github.com/julianstephens/wth/internal/scheduler"
	"github.com/julianstephens/wth/internal/storage"
	"github.com/julianstephens/wth/internal/utils"
)

type Context struct {
	Backend storage.Backend
	Records *storage.RecordStore
	Catalog *placement.Catalog
	Profile *profile.Service
	Clock   func() time.Time
}

// NewContext wires a RecordStore and profile service over backend. A nil
// catalog is an empty one.
func NewContext(backend storage.Backend, catalog *placement.Catalog, profileOpts ...profile.Option) *Context {
	records := storage.NewRecordStore(backend)
	if catalog == nil {
		catalog = placement.StaticCatalog(nil)
	}
	return &Context{
		Backend: backend,
		Records: records,
		Catalog: catalog,
		Profile: profile.NewService(records, profileOpts...),
		Clock:   time.Now,
	}
}

func (c *Context) clock() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}

func (c *Context) Settings(ctx context.Context) models.Settings {
	return c.Records.LoadSettings(ctx)
}

// LocalClock returns a clock reading Clock in the configured timezone.
func (c *Context) LocalClock(ctx context.Context) (func() time.Time, error) {
	settings := c.Settings(ctx)
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	return func() time.Time { return c.clock().In(loc) }, nil
}

// Now returns the current time in the configured timezone.
func (c *Context) Now(ctx context.Context) (time.Time, error) {
	clock, err := c.LocalClock(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return clock(), nil
}

// ResolveDate maps "", "today" and "yesterday" to dates in the configured
// timezone and validates anything else as YYYY-MM-DD.
func (c *Context) ResolveDate(ctx context.Context, value string) (string, error) {
	now, err := c.Now(ctx)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return utils.DateOf(now), nil
	case "yesterday":
		return utils.DateOf(now.AddDate(0, 0, -1)), nil
	}
	if !utils.ValidateDate(value) {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD, 'today' or 'yesterday')", value)
	}
	return value, nil
}

// Tier resolves the subscription tier, falling back to Freshman when the
// profile service fails.
func (c *Context) Tier(ctx context.Context) models.Tier {
	if c.Profile == nil {
		return models.TierFreshman
	}
	tier, err := c.Profile.Tier(ctx)
	if err != nil {
		logger.Warn("Falling back to free tier", "error", err)
		return models.TierFreshman
	}
	return tier
}

// NewScheduler builds a BeastMode scheduler from the stored settings.
func (c *Context) NewScheduler(settings models.Settings) *scheduler.Scheduler {
	period := time.Duration(settings.BeastPeriodMin) * time.Minute
	return scheduler.New(period,
		scheduler.WithAnchor(settings.BeastAnchor),
		scheduler.WithClock(c.clock),
	)
}

// StampBeast returns a submit hook that restarts the BeastMode countdown
// from the record's loggedAt when BeastMode is on.
func (c *Context) StampBeast(ctx context.Context) func(models.CheckInRecord) {
	return func(rec models.CheckInRecord) {
		state := c.Records.LoadSchedulerState(ctx)
		if !state.Enabled {
			return
		}
		sched := c.NewScheduler(c.Settings(ctx))
		c.Records.SaveSchedulerState(ctx, sched.RecordSubmit(state, rec.LoggedAt))
	}
}

// BackupManager returns a backup manager for file based backends and false
// for database servers.
func (c *Context) BackupManager() (*backup.Manager, bool) {
	switch c.Backend.(type) {
	case *storage.SQLiteStore, *storage.JSONStore:
		return backup.NewManager(c.Backend.GetConfigPath()), true
	default:
		return nil, false
	}
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup(ctx context.Context) {
	mgr, ok := c.BackupManager()
	if !ok {
		return
	}
	if _, err := mgr.Create(ctx); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseHour accepts "14", "14:00", "2pm" or "2:00 PM".
func ParseHour(s string) (int, error) {
	v := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	suffix := ""
	if strings.HasSuffix(v, "am") || strings.HasSuffix(v, "pm") {
		suffix = v[len(v)-2:]
		v = v[:len(v)-2]
	}
	v = strings.TrimSuffix(v, ":00")

	hour, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid hour: %q", s)
	}

	if suffix == "" {
		if hour < 0 || hour >= constants.HoursPerDay {
			return 0, fmt.Errorf("hour out of range 0-23: %d", hour)
		}
		return hour, nil
	}
	if hour < 1 || hour > 12 {
		return 0, fmt.Errorf("invalid hour: %q", s)
	}
	hour %= 12
	if suffix == "pm" {
		hour += 12
	}
	return hour, nil
}

// ResolveHour parses value, defaulting to the current hour when date is today.
func (c *Context) ResolveHour(ctx context.Context, date, value string) (int, error) {
	if strings.TrimSpace(value) != "" {
		return ParseHour(value)
	}
	now, err := c.Now(ctx)
	if err != nil {
		return 0, err
	}
	if date != utils.DateOf(now) {
		return 0, fmt.Errorf("--hour is required for %s", date)
	}
	return now.Hour(), nil
}
