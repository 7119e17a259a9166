package checkin

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/storage"
)

func TestLoadOverview(t *testing.T) {
	ctx := context.Background()
	store := storage.NewRecordStore(storage.NewMemoryStore())
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.Upsert(ctx, models.NewWinRecord("2026-03-01", 8, "a", at))
	store.Upsert(ctx, models.NewWinRecord("2026-03-01", 9, "b", at))
	store.Upsert(ctx, models.NewLossRecord("2026-03-01", 10, "c", 2, at))
	store.Upsert(ctx, models.NewLossRecord("2026-02-28", 10, "other day", 2, at))
	store.SaveUnavailable(ctx, models.NewHourSet(12))
	store.SavePriorities(ctx, "2026-03-01", models.Priorities{"one", "two"})

	settings := models.DefaultSettings()
	settings.WakingStart = 8
	settings.WakingEnd = 14
	now := time.Date(2026, 3, 1, 11, 30, 0, 0, time.UTC)

	ov, err := LoadOverview(ctx, store, "2026-03-01", now, settings)
	require.NoError(t, err)

	want := models.DaySummary{Won: 2, Lost: 1, Logged: 3, WinRate: 67}
	if diff := cmp.Diff(want, ov.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "one", ov.Priorities[0])
	require.Equal(t, 2, ov.Priorities.Filled())

	statuses := map[int]HourStatus{}
	for _, slot := range ov.Hours {
		statuses[slot.Hour] = slot.Status
		require.Equal(t, slot.Hour == 11, slot.Current, "hour %d", slot.Hour)
	}
	require.Equal(t, map[int]HourStatus{
		8:  HourLogged,
		9:  HourLogged,
		10: HourLogged,
		11: HourOpen,
		12: HourUnavailable,
		13: HourFuture,
		14: HourFuture,
	}, statuses)
	require.Equal(t, []int{11}, ov.OpenHours())
}

func TestLoadOverviewCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := storage.NewRecordStore(storage.NewMemoryStore())
	_, err := LoadOverview(ctx, store, "2026-03-01", time.Now(), models.DefaultSettings())
	require.ErrorIs(t, err, context.Canceled)
}
