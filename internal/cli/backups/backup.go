package backups

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/wth/internal/backup"
	"github.com/julianstephens/wth/internal/cli"
)

var errNoBackups = errors.New("backups are only available for SQLite and JSON storage")

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, ok := ctx.BackupManager()
	if !ok {
		return errNoBackups
	}
	backupPath, err := mgr.Create(context.Background())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, ok := ctx.BackupManager()
	if !ok {
		return errNoBackups
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	fmt.Printf("Available backups (%d total):\n\n", len(backups))
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		fmt.Printf("  %s  %s  (%.1f KB)\n", timestamp, filepath.Base(b.Path), sizeKB)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.Dir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

// resolve finds BackupFile as given, relative to the working directory, or
// inside the backup directory.
func (c *BackupRestoreCmd) resolve(mgr *backup.Manager) (string, error) {
	if filepath.IsAbs(c.BackupFile) {
		if _, err := os.Stat(c.BackupFile); err != nil {
			return "", fmt.Errorf("backup file not found: %s", c.BackupFile)
		}
		return c.BackupFile, nil
	}
	if _, err := os.Stat(c.BackupFile); err == nil {
		abs, err := filepath.Abs(c.BackupFile)
		if err != nil {
			return "", fmt.Errorf("failed to resolve backup path: %w", err)
		}
		return abs, nil
	}
	candidate := filepath.Join(mgr.Dir(), c.BackupFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", mgr.Dir())
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, ok := ctx.BackupManager()
	if !ok {
		return errNoBackups
	}
	backupPath, err := c.resolve(mgr)
	if err != nil {
		return err
	}

	if !c.Yes {
		fmt.Println("⚠️  WARNING: This will replace your current check-ins with the backup.")
		fmt.Println("⚠️  IMPORTANT: Close the TUI and stop 'wth beast watch' before restoring.")
		fmt.Println("A backup of your current database will be created before restoring.")
		fmt.Printf("\nRestore from: %s\n", backupPath)
		fmt.Print("Continue? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	// Close the current store connection before restoring
	if err := ctx.Backend.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	previous, err := mgr.Restore(context.Background(), backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Database restored successfully!")
	if previous != "" {
		fmt.Printf("  Previous database saved as %s\n", filepath.Base(previous))
	}
	return nil
}
