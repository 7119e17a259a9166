package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/storage"
)

func TestInitCmd_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "wth.db")
	store := storage.NewSQLiteStore(dbPath)
	t.Cleanup(func() { store.Close() })
	c := newContext(t, store)

	require.NoError(t, (&InitCmd{}).Run(c))
	_, err := os.Stat(dbPath)
	require.NoError(t, err, "database file was not created")

	// Running init again is harmless
	require.NoError(t, (&InitCmd{}).Run(c))
}

func TestInitCmd_ForceResets(t *testing.T) {
	c, _ := setupTestDB(t)
	ctx := context.Background()
	c.Records.Upsert(ctx, models.NewWinRecord("2026-03-01", 9, "plan", testNow))
	require.Len(t, c.Records.LoadAll(ctx), 1)

	require.NoError(t, (&InitCmd{Force: true}).Run(c))
	require.Empty(t, c.Records.LoadAll(ctx))
}

func TestInitCmd_ForceRejectsSameSource(t *testing.T) {
	c, store := setupTestDB(t)
	err := (&InitCmd{Force: true, Source: store.GetConfigPath()}).Run(c)
	require.ErrorContains(t, err, "source and destination are the same")
}

func TestInitCmd_ForceNeedsFileStorage(t *testing.T) {
	c, _ := setupMemory(t)
	require.ErrorContains(t, (&InitCmd{Force: true}).Run(c), "only supported")
}

func TestInitCmd_CopiesFromSource(t *testing.T) {
	ctx := context.Background()
	srcPath := filepath.Join(t.TempDir(), "old.json")
	src := storage.NewJSONStore(srcPath)
	require.NoError(t, src.Init(ctx))
	require.NoError(t, src.Set(ctx, constants.KeyCheckIns, legacyCheckIns))
	require.NoError(t, src.Set(ctx, constants.KeyPrioritiesPrefix+"2026-03-01", `["move","read","","","",""]`))
	require.NoError(t, src.Set(ctx, constants.KeySettingsPrefix+constants.SettingBeastPeriodMin, "30"))
	require.NoError(t, src.Close())

	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "wth.db"))
	t.Cleanup(func() { store.Close() })
	c := newContext(t, store)

	require.NoError(t, (&InitCmd{Source: srcPath}).Run(c))

	records := c.Records.LoadAll(ctx)
	require.Len(t, records, 2)
	require.Equal(t, models.ResultWin, records[0].Result)
	require.Equal(t, "move", c.Records.LoadPriorities(ctx, "2026-03-01")[0])
	require.Equal(t, 30, c.Settings(ctx).BeastPeriodMin)
}

func TestInitCmd_MissingSource(t *testing.T) {
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "wth.db"))
	t.Cleanup(func() { store.Close() })
	c := newContext(t, store)

	err := (&InitCmd{Source: filepath.Join(t.TempDir(), "missing.db")}).Run(c)
	require.ErrorContains(t, err, "migration failed")
}
