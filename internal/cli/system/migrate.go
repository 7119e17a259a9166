package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/storage"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	sqlStore, ok := ctx.Backend.(storage.SQLBackend)
	if !ok {
		fmt.Printf("No migrations needed for %s storage.\n", backendName(ctx.Backend))
		return nil
	}

	count, err := sqlStore.Migrate(context.Background(), func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}

	return nil
}

func backendName(b storage.Backend) string {
	switch b.(type) {
	case *storage.SQLiteStore:
		return "SQLite"
	case *storage.PostgresStore:
		return "PostgreSQL"
	case *storage.MySQLStore:
		return "MySQL"
	case *storage.JSONStore:
		return "JSON"
	case *storage.MemoryStore:
		return "in-memory"
	default:
		return fmt.Sprintf("%T", b)
	}
}
