package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/storage"
)

func newTestContext(t *testing.T, now time.Time) *Context {
	t.Helper()
	c := NewContext(storage.NewMemoryStore(), nil)
	c.Clock = func() time.Time { return now }
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	c.Records.SaveSettings(context.Background(), settings)
	return c
}

func TestParseHour(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"14", 14, false},
		{"14:00", 14, false},
		{"2pm", 14, false},
		{"2:00 PM", 14, false},
		{"12am", 0, false},
		{"12 pm", 12, false},
		{"9AM", 9, false},
		{"24", 0, true},
		{"-1", 0, true},
		{"13pm", 0, true},
		{"noon", 0, true},
		{"14:30", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHour(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHour(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHour(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveDateAndHour(t *testing.T) {
	ctx := context.Background()
	c := newTestContext(t, time.Date(2026, 3, 1, 14, 20, 0, 0, time.UTC))

	date, err := c.ResolveDate(ctx, "today")
	require.NoError(t, err)
	require.Equal(t, "2026-03-01", date)

	date, err = c.ResolveDate(ctx, "yesterday")
	require.NoError(t, err)
	require.Equal(t, "2026-02-28", date)

	_, err = c.ResolveDate(ctx, "03/01/2026")
	require.Error(t, err)

	hour, err := c.ResolveHour(ctx, "2026-03-01", "")
	require.NoError(t, err)
	require.Equal(t, 14, hour)

	_, err = c.ResolveHour(ctx, "2026-02-28", "")
	require.Error(t, err, "past dates need an explicit hour")

	hour, err = c.ResolveHour(ctx, "2026-02-28", "9pm")
	require.NoError(t, err)
	require.Equal(t, 21, hour)
}

func TestNowUsesConfiguredTimezone(t *testing.T) {
	ctx := context.Background()
	c := newTestContext(t, time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC))

	settings := c.Settings(ctx)
	settings.Timezone = "Asia/Tokyo"
	c.Records.SaveSettings(ctx, settings)

	date, err := c.ResolveDate(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "2026-03-02", date)
}

func TestStampBeast(t *testing.T) {
	ctx := context.Background()
	c := newTestContext(t, time.Now())
	at := time.Date(2026, 3, 1, 9, 10, 0, 0, time.UTC)
	rec := models.NewWinRecord("2026-03-01", 9, "plan", at)

	c.StampBeast(ctx)(rec)
	require.False(t, c.Records.LoadSchedulerState(ctx).HasStamp(), "disabled BeastMode must not be stamped")

	c.Records.SaveSchedulerState(ctx, models.SchedulerState{Enabled: true})
	c.StampBeast(ctx)(rec)
	require.True(t, c.Records.LoadSchedulerState(ctx).LastSubmitAt.Equal(at))
}

func TestTierDefaultsToFreshman(t *testing.T) {
	c := newTestContext(t, time.Now())
	c.Profile = nil
	require.Equal(t, models.TierFreshman, c.Tier(context.Background()))
}

func TestBackupManagerOnlyForFileBackends(t *testing.T) {
	c := NewContext(storage.NewMemoryStore(), nil)
	_, ok := c.BackupManager()
	require.False(t, ok)

	c = NewContext(storage.NewSQLiteStore(t.TempDir()+"/wth.db"), nil)
	mgr, ok := c.BackupManager()
	require.True(t, ok)
	require.NotEmpty(t, mgr.Dir())
}
