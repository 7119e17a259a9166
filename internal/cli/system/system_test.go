package system

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/profile"
	"github.com/julianstephens/wth/internal/storage"
)

var testNow = time.Date(2026, 3, 1, 14, 20, 0, 0, time.UTC)

const legacyCheckIns = `[{"date":"2026-03-01","hour":9,"won":true,"loggedAt":"2026-03-01T09:40:00Z"},{"date":"2026-03-01","hour":10,"won":false,"loggedAt":"2026-03-01T10:40:00Z"}]`

func newContext(t *testing.T, backend storage.Backend) *cli.Context {
	t.Helper()
	c := cli.NewContext(backend, nil, profile.WithOverride("Freshman"))
	c.Clock = func() time.Time { return testNow }
	return c
}

func setUTC(t *testing.T, c *cli.Context) {
	t.Helper()
	settings := c.Settings(context.Background())
	settings.Timezone = "UTC"
	c.Records.SaveSettings(context.Background(), settings)
}

// setupTestDB returns an initialized SQLite-backed context.
func setupTestDB(t *testing.T) (*cli.Context, *storage.SQLiteStore) {
	t.Helper()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "wth.db"))
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { store.Close() })

	c := newContext(t, store)
	setUTC(t, c)
	return c, store
}

func setupMemory(t *testing.T) (*cli.Context, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	c := newContext(t, store)
	setUTC(t, c)
	return c, store
}

func TestMigrateCmd(t *testing.T) {
	c, _ := setupTestDB(t)
	require.NoError(t, (&MigrateCmd{}).Run(c))

	mem, _ := setupMemory(t)
	require.NoError(t, (&MigrateCmd{}).Run(mem))
}

func TestBackendName(t *testing.T) {
	require.Equal(t, "SQLite", backendName(storage.NewSQLiteStore("x.db")))
	require.Equal(t, "JSON", backendName(storage.NewJSONStore("x.json")))
	require.Equal(t, "in-memory", backendName(storage.NewMemoryStore()))
}

func TestDebugCommands(t *testing.T) {
	c, _ := setupMemory(t)
	c.Records.Upsert(context.Background(), models.NewWinRecord("2026-03-01", 9, "plan", testNow))

	require.NoError(t, (&DebugDBPathCmd{}).Run(c))
	require.NoError(t, (&DebugDumpRecordsCmd{}).Run(c))
	require.NoError(t, (&DebugDumpRecordsCmd{Date: "today"}).Run(c))
	require.NoError(t, (&DebugDumpSettingsCmd{}).Run(c))
	require.NoError(t, (&DebugDumpBeastCmd{}).Run(c))
	require.NoError(t, (&DebugDumpPartnersCmd{}).Run(c))

	require.ErrorContains(t, (&DebugDumpRecordsCmd{Date: "03/01/2026"}).Run(c), "invalid date")
}

func TestValidateCmd(t *testing.T) {
	c, store := setupMemory(t)
	require.NoError(t, (&ValidateCmd{}).Run(c))

	dup := `[{"date":"2026-03-01","hour":9,"won":true,"loggedAt":"2026-03-01T09:40:00Z"},{"date":"2026-03-01","hour":9,"won":false,"loggedAt":"2026-03-01T09:50:00Z"}]`
	require.NoError(t, store.Set(context.Background(), constants.KeyCheckIns, dup))
	require.ErrorContains(t, (&ValidateCmd{}).Run(c), "conflicts")
}
