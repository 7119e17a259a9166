package backups

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/storage"
)

func setupTestContext(t *testing.T) (*cli.Context, *storage.SQLiteStore) {
	t.Helper()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "wth.db"))
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { store.Close() })
	return cli.NewContext(store, nil), store
}

func TestBackupCreateListRestore(t *testing.T) {
	c, store := setupTestContext(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	c.Records.Upsert(ctx, models.NewWinRecord("2026-03-01", 9, "before backup", at))
	require.NoError(t, (&BackupCreateCmd{}).Run(c))
	require.NoError(t, (&BackupListCmd{}).Run(c))

	mgr, ok := c.BackupManager()
	require.True(t, ok)
	backups, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, backups, 1)

	c.Records.Upsert(ctx, models.NewLossRecord("2026-03-01", 9, "after backup", 2, at))

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}
	require.NoError(t, cmd.Run(c))

	require.NoError(t, store.Load(ctx))
	rec, ok := c.Records.Find(ctx, "2026-03-01", 9)
	require.True(t, ok)
	require.Equal(t, "before backup", rec.PlanText())
}

func TestBackupRestoreMissingFile(t *testing.T) {
	c, _ := setupTestContext(t)
	err := (&BackupRestoreCmd{BackupFile: "wth-19990101-000000.db", Yes: true}).Run(c)
	require.ErrorContains(t, err, "not found")
}

func TestBackupsNeedFileStorage(t *testing.T) {
	c := cli.NewContext(storage.NewMemoryStore(), nil)
	require.ErrorIs(t, (&BackupCreateCmd{}).Run(c), errNoBackups)
	require.ErrorIs(t, (&BackupListCmd{}).Run(c), errNoBackups)
}
