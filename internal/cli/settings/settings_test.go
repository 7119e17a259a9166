package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/storage"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := cli.NewContext(store, nil)

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func TestSettingsCmd_List(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		List: true,
	}

	err := cmd.Run(ctx)
	if err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	tz := "Europe/Berlin"
	period := 30
	anchor := constants.BeastAnchorClock
	notify := false
	cmd := &SettingsCmd{
		Timezone:             &tz,
		BeastPeriodMin:       &period,
		BeastAnchor:          &anchor,
		NotificationsEnabled: &notify,
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	got := ctx.Settings(context.Background())
	want := models.DefaultSettings()
	want.Timezone = tz
	want.BeastPeriodMin = period
	want.BeastAnchor = anchor
	want.NotificationsEnabled = false
	if got != want {
		t.Errorf("settings = %+v, want %+v", got, want)
	}
}

func TestSettingsCmd_RejectsInvalid(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	tz := "Mars/Olympus"
	start := 12
	end := 8

	tests := []struct {
		name string
		cmd  *SettingsCmd
	}{
		{"unknown timezone", &SettingsCmd{Timezone: &tz}},
		{"waking end before start", &SettingsCmd{WakingStart: &start, WakingEnd: &end}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if got := ctx.Settings(context.Background()); got != models.DefaultSettings() {
		t.Errorf("invalid update was saved: %+v", got)
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Errorf("settings with no flags failed: %v", err)
	}
}
