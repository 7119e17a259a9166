package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	// Initialize destination store
	if err := ctx.Backend.Init(bg); err != nil {
		return err
	}
	fmt.Printf("Initialized wth storage at: %s\n", ctx.Backend.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(bg, ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

// reset deletes the destination file. Database servers are never dropped.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.BackupManager(); !ok {
		return fmt.Errorf("--force is only supported for SQLite and JSON storage")
	}

	dbPath := ctx.Backend.GetConfigPath()
	if absDbPath, err := filepath.Abs(dbPath); err == nil {
		dbPath = absDbPath
	}
	if c.Source != "" {
		absSource, err := filepath.Abs(storage.ExpandPath(c.Source))
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		// Close first to release the file
		if err := ctx.Backend.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// copyData copies every stored key from source. Check-ins are copied in
// whatever shape the source holds; they are migrated on the next write.
func (c *InitCmd) copyData(bg context.Context, ctx *cli.Context, source string) error {
	src, err := storage.Open(source)
	if err != nil {
		return err
	}
	if err := src.Load(bg); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	keys, err := src.Keys(bg, "")
	if err != nil {
		return fmt.Errorf("failed to list source keys: %w", err)
	}

	var settings, priorities int
	for _, key := range keys {
		value, found, err := src.Get(bg, key)
		if err != nil {
			return fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		if !found {
			continue
		}
		if err := ctx.Backend.Set(bg, key, value); err != nil {
			return fmt.Errorf("failed to write %s to destination: %w", key, err)
		}
		switch {
		case strings.HasPrefix(key, constants.KeySettingsPrefix):
			settings++
		case strings.HasPrefix(key, constants.KeyPrioritiesPrefix):
			priorities++
		}
	}

	fmt.Printf("    Copied %d check-ins\n", len(ctx.Records.LoadAll(bg)))
	fmt.Printf("    Copied %d MYBED lists\n", priorities)
	fmt.Printf("    Copied %d settings\n", settings)
	fmt.Printf("    Copied %d keys in total\n", len(keys))
	return nil
}
