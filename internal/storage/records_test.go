package storage

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/models"
)

func newTestRecordStore(t *testing.T) (*RecordStore, *MemoryStore) {
	t.Helper()
	backend := NewMemoryStore()
	return NewRecordStore(backend), backend
}

func TestUpsertKeepsOneRecordPerSlot(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRecordStore(t)
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	latest := map[models.SlotKey]models.CheckInRecord{}
	for i := 0; i < 300; i++ {
		date := []string{"2026-03-01", "2026-03-02", "2026-03-03"}[rng.Intn(3)]
		hour := rng.Intn(24)
		at := base.Add(time.Duration(i) * time.Minute)

		var rec models.CheckInRecord
		if rng.Intn(2) == 0 {
			rec = models.NewWinRecord(date, hour, "plan", at)
		} else {
			rec = models.NewLossRecord(date, hour, "reason", 1+rng.Intn(5), at)
		}
		store.Upsert(ctx, rec)
		latest[rec.Key()] = rec
	}

	records := store.LoadAll(ctx)
	require.Len(t, records, len(latest))

	seen := map[models.SlotKey]bool{}
	for _, r := range records {
		require.False(t, seen[r.Key()], "duplicate slot %s", r.Key())
		seen[r.Key()] = true
		want := latest[r.Key()]
		require.Equal(t, want.Result, r.Result, "slot %s", r.Key())
		require.True(t, want.LoggedAt.Equal(r.LoggedAt), "slot %s kept an older write", r.Key())
	}
}

func TestUpsertOverwriteScenario(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRecordStore(t)

	store.Upsert(ctx, models.NewWinRecord("2026-03-01", 14, "deep work", time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC)))
	store.Upsert(ctx, models.NewLossRecord("2026-03-01", 14, "distracted", 3, time.Date(2026, 3, 1, 14, 50, 0, 0, time.UTC)))

	records := store.LoadAll(ctx)
	require.Len(t, records, 1)

	got := records[0]
	require.Equal(t, models.ResultLoss, got.Result)
	require.Equal(t, 3, got.Rating())
	require.Equal(t, "distracted", got.ReasonText())
	require.Nil(t, got.NextHourPlan, "plan from the earlier win must not survive")
}

func TestLoadAllMigratesLegacyWithoutWriting(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestRecordStore(t)

	legacy := `[{"date":"2026-03-01","hour":9,"won":true,"loggedAt":"2026-03-01T09:40:00Z"},{"date":"2026-03-01","hour":10,"won":false,"loggedAt":"2026-03-01T10:40:00Z"}]`
	require.NoError(t, backend.Set(ctx, constants.KeyCheckIns, legacy))

	records := store.LoadAll(ctx)
	require.Len(t, records, 2)
	require.Equal(t, models.ResultWin, records[0].Result)
	require.Equal(t, models.ResultLoss, records[1].Result)
	require.Nil(t, records[1].IntensityRating)

	raw, _ := backend.Raw(constants.KeyCheckIns)
	require.Equal(t, legacy, raw, "LoadAll must not rewrite storage")

	// A write persists the migrated shape for every record.
	store.Upsert(ctx, models.NewWinRecord("2026-03-01", 11, "focus", time.Date(2026, 3, 1, 11, 30, 0, 0, time.UTC)))
	raw, _ = backend.Raw(constants.KeyCheckIns)
	require.NotContains(t, raw, `"won"`)
	require.Len(t, store.LoadAll(ctx), 3)
}

func TestUpsertDropsWriteWhenArrayUnreadable(t *testing.T) {
	ctx := context.Background()
	var hookOps []string
	backend := NewMemoryStore()
	store := NewRecordStore(backend, WithErrorHook(func(op string, err error) {
		hookOps = append(hookOps, op)
	}))

	require.NoError(t, backend.Set(ctx, constants.KeyCheckIns, `{corrupt`))
	store.Upsert(ctx, models.NewWinRecord("2026-03-01", 9, "plan", time.Now()))

	raw, _ := backend.Raw(constants.KeyCheckIns)
	require.Equal(t, `{corrupt`, raw)
	require.Equal(t, []string{"upsert"}, hookOps)
	require.Empty(t, store.LoadAll(ctx))
}

func TestUpsertKeepsUnreadableEntries(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestRecordStore(t)

	future := `{"v":3,"date":"2026-03-01","hour":8,"nextHourPlan":"future shape"}`
	seed := `[` + future + `,{"date":"2026-03-01","hour":9,"won":true,"loggedAt":"2026-03-01T09:40:00Z"}]`
	require.NoError(t, backend.Set(ctx, constants.KeyCheckIns, seed))

	store.Upsert(ctx, models.NewWinRecord("2026-03-01", 10, "ship", time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)))

	raw, _ := backend.Raw(constants.KeyCheckIns)
	require.Contains(t, raw, future)
	require.Len(t, store.LoadAll(ctx), 2)

	history := store.LoadHistory(ctx)
	require.Len(t, history.Unreadable, 1)
	require.JSONEq(t, future, string(history.Unreadable[0]))
}

func TestStoredDuplicatesCollapseToLastEntry(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestRecordStore(t)

	dup := `[{"date":"2026-03-01","hour":9,"won":true,"loggedAt":"2026-03-01T09:10:00Z"},{"date":"2026-03-01","hour":9,"won":false,"loggedAt":"2026-03-01T09:50:00Z"}]`
	require.NoError(t, backend.Set(ctx, constants.KeyCheckIns, dup))

	rec, ok := store.Find(ctx, "2026-03-01", 9)
	require.True(t, ok)
	require.Equal(t, models.ResultLoss, rec.Result)
	require.Len(t, store.LoadAll(ctx), 1)
	require.Len(t, store.LoadHistory(ctx).All(), 2)

	store.Upsert(ctx, models.NewWinRecord("2026-03-01", 9, "again", time.Date(2026, 3, 1, 9, 55, 0, 0, time.UTC)))
	require.Len(t, store.LoadHistory(ctx).All(), 1, "upsert persists one entry per slot")
	rec, _ = store.Find(ctx, "2026-03-01", 9)
	require.Equal(t, "again", rec.PlanText())
}

func TestSilentFailures(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestRecordStore(t)
	var failures int
	store.OnError(func(op string, err error) {
		failures++
		require.Error(t, err)
	})

	store.Upsert(ctx, models.NewWinRecord("2026-03-01", 9, "plan", time.Now()))
	store.SavePriorities(ctx, "2026-03-01", models.Priorities{"a"})
	store.SaveUnavailable(ctx, models.NewHourSet(3))

	backend.Fail("*", errors.New("disk gone"))

	require.Empty(t, store.LoadAll(ctx))
	require.Equal(t, models.Priorities{}, store.LoadPriorities(ctx, "2026-03-01"))
	require.Empty(t, store.LoadUnavailable(ctx).Sorted())
	require.Equal(t, models.DefaultSettings(), store.LoadSettings(ctx))
	require.Equal(t, models.SchedulerState{}, store.LoadSchedulerState(ctx))
	store.Upsert(ctx, models.NewWinRecord("2026-03-01", 10, "plan", time.Now()))
	store.SaveSchedulerState(ctx, models.SchedulerState{Enabled: true})
	require.Greater(t, failures, 5)

	backend.Fail("*", nil)
	require.Len(t, store.LoadAll(ctx), 1, "failed write must not have landed")
	require.Equal(t, "a", store.LoadPriorities(ctx, "2026-03-01")[0])
}

func TestToggleUnavailable(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRecordStore(t)

	require.Empty(t, store.LoadUnavailable(ctx).Sorted())

	got := store.ToggleUnavailable(ctx, 3)
	require.Equal(t, []int{3}, got.Sorted())
	store.ToggleUnavailable(ctx, 22)
	require.Equal(t, []int{3, 22}, store.LoadUnavailable(ctx).Sorted())

	got = store.ToggleUnavailable(ctx, 3)
	require.Equal(t, []int{22}, got.Sorted())
	require.Equal(t, []int{22}, store.LoadUnavailable(ctx).Sorted())
}

func TestPrioritiesPadAndTruncate(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestRecordStore(t)

	require.NoError(t, backend.Set(ctx, "mybed_2026-03-01", `["one","two"]`))
	require.NoError(t, backend.Set(ctx, "mybed_2026-03-02", `["1","2","3","4","5","6","7","8"]`))

	require.Equal(t, models.Priorities{"one", "two", "", "", "", ""}, store.LoadPriorities(ctx, "2026-03-01"))
	require.Equal(t, models.Priorities{"1", "2", "3", "4", "5", "6"}, store.LoadPriorities(ctx, "2026-03-02"))
	require.Equal(t, models.Priorities{}, store.LoadPriorities(ctx, "2026-03-03"))

	store.SavePriorities(ctx, "2026-03-03", models.Priorities{"move", "", "breathe"})
	raw, _ := backend.Raw("mybed_2026-03-03")
	require.Equal(t, `["move","","breathe","","",""]`, raw)

	require.Equal(t, []string{"2026-03-01", "2026-03-02", "2026-03-03"}, store.PriorityDates(ctx))
	store.ClearPriorities(ctx, "2026-03-01")
	require.Equal(t, models.Priorities{}, store.LoadPriorities(ctx, "2026-03-01"))
}

func TestSchedulerStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestRecordStore(t)

	require.Equal(t, models.SchedulerState{}, store.LoadSchedulerState(ctx))

	stamp := time.UnixMilli(1772373600000)
	store.SaveSchedulerState(ctx, models.SchedulerState{Enabled: true, LastSubmitAt: stamp})

	raw, _ := backend.Raw(constants.KeyBeastLastSubmit)
	require.Equal(t, "1772373600000", raw)
	enabled, _ := backend.Raw(constants.KeyBeastModeEnabled)
	require.Equal(t, "true", enabled)

	got := store.LoadSchedulerState(ctx)
	require.True(t, got.Enabled)
	require.True(t, got.LastSubmitAt.Equal(stamp))
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRecordStore(t)

	require.Equal(t, models.DefaultSettings(), store.LoadSettings(ctx))

	settings := models.DefaultSettings()
	settings.Timezone = "Europe/London"
	settings.BeastPeriodMin = 30
	settings.BeastAnchor = constants.BeastAnchorClock
	settings.NotificationsEnabled = false
	store.SaveSettings(ctx, settings)

	if diff := cmp.Diff(settings, store.LoadSettings(ctx)); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAndLoadDay(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRecordStore(t)
	at := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	store.Upsert(ctx, models.NewWinRecord("2026-03-01", 15, "b", at))
	store.Upsert(ctx, models.NewWinRecord("2026-03-01", 9, "a", at))
	store.Upsert(ctx, models.NewLossRecord("2026-03-02", 9, "c", 2, at))

	rec, ok := store.Find(ctx, "2026-03-01", 9)
	require.True(t, ok)
	require.Equal(t, "a", rec.PlanText())
	_, ok = store.Find(ctx, "2026-03-01", 10)
	require.False(t, ok)

	day := store.LoadDay(ctx, "2026-03-01")
	require.Len(t, day, 2)
	require.Equal(t, 9, day[0].Hour)
	require.Equal(t, 15, day[1].Hour)
}

func TestConcurrentUpsertsOnSQLite(t *testing.T) {
	ctx := context.Background()
	backend := NewSQLiteStore(filepath.Join(t.TempDir(), "wth.db"))
	require.NoError(t, backend.Init(ctx))
	t.Cleanup(func() { backend.Close() })
	store := NewRecordStore(backend)

	var wg sync.WaitGroup
	for hour := 0; hour < 24; hour++ {
		wg.Add(1)
		go func(hour int) {
			defer wg.Done()
			store.Upsert(ctx, models.NewWinRecord("2026-03-01", hour, "plan", time.Now()))
		}(hour)
	}
	wg.Wait()

	require.Len(t, store.LoadDay(ctx, "2026-03-01"), 24)
}
