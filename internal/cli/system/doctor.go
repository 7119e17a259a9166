package system

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/constants"
	"github.com/julianstephens/wth/internal/migration"
	"github.com/julianstephens/wth/internal/placement"
	"github.com/julianstephens/wth/internal/storage"
	"github.com/julianstephens/wth/internal/utils"
	"github.com/julianstephens/wth/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name    string
	needsDB bool
	warn    bool
	run     func(context.Context, *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warn: true, run: checkBackupsPresent},
	{name: "Check-in history readable", needsDB: true, run: checkHistoryReadable},
	{name: "Check-in validation", needsDB: true, run: checkRecords},
	{name: "Settings", needsDB: true, run: checkSettings},
	{name: "Partner catalog", warn: true, run: checkCatalog},
	{name: "Clock/timezone", needsDB: true, run: checkClockTimezone},
	{name: "Profile tier", run: checkProfile},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(bg, ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(bg, ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(bg context.Context, ctx *cli.Context) error {
	if err := ctx.Backend.Load(bg); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqlStore, ok := ctx.Backend.(storage.SQLBackend); ok {
		db := sqlStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		if err := db.PingContext(bg); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(bg context.Context, ctx *cli.Context) error {
	sqlStore, ok := ctx.Backend.(storage.SQLBackend)
	if !ok {
		// key/value files carry no schema
		return nil
	}
	current, latest, err := sqlStore.SchemaVersion(bg)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(bg context.Context, ctx *cli.Context) error {
	sqlStore, ok := ctx.Backend.(storage.SQLBackend)
	if !ok {
		return nil
	}
	current, latest, err := sqlStore.SchemaVersion(bg)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'wth migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(bg context.Context, ctx *cli.Context) error {
	mgr, ok := ctx.BackupManager()
	if !ok {
		return fmt.Errorf("%s storage is not backed up by wth; use the database's own tooling", backendName(ctx.Backend))
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'wth backup create'")
	}
	return nil
}

// checkHistoryReadable decodes the raw check-in array. The RecordStore
// hides an unreadable array behind an empty history.
func checkHistoryReadable(bg context.Context, ctx *cli.Context) error {
	value, found, err := ctx.Backend.Get(bg, constants.KeyCheckIns)
	if err != nil {
		return fmt.Errorf("failed to read check-ins: %w", err)
	}
	if !found || strings.TrimSpace(value) == "" {
		return nil
	}

	skipped := 0
	if _, err := migration.DecodeRecords([]byte(value), func(int, error) { skipped++ }); err != nil {
		return fmt.Errorf("check-in history is unreadable; new check-ins will not be saved: %w", err)
	}
	if skipped > 0 {
		return fmt.Errorf("%d stored check-in(s) could not be read; they are kept but not shown", skipped)
	}
	return nil
}

func checkRecords(bg context.Context, ctx *cli.Context) error {
	now, err := ctx.Now(bg)
	if err != nil {
		now = time.Now()
	}
	result := validation.New().ValidateRecords(ctx.Records.LoadHistory(bg).All(), now)
	if result.HasConflicts() {
		return fmt.Errorf("%s", strings.TrimSpace(result.FormatReport()))
	}
	return nil
}

func checkSettings(bg context.Context, ctx *cli.Context) error {
	result := validation.New().ValidateSettings(ctx.Settings(bg))
	if result.HasConflicts() {
		return fmt.Errorf("%s", strings.TrimSpace(result.FormatReport()))
	}
	return nil
}

func checkCatalog(bg context.Context, ctx *cli.Context) error {
	path := ctx.Catalog.Path()
	if path == "" {
		return nil
	}
	partners, result, err := placement.LoadCatalog(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	if result.HasConflicts() {
		return fmt.Errorf("%d partner(s) loaded, some entries ignored:\n%s", len(partners), strings.TrimSpace(result.FormatReport()))
	}
	return nil
}

func checkClockTimezone(bg context.Context, ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	tz := ctx.Settings(bg).Timezone
	if _, err := utils.LoadLocation(tz); err != nil {
		return fmt.Errorf("timezone %q cannot be loaded: %w", tz, err)
	}
	return nil
}

func checkProfile(bg context.Context, ctx *cli.Context) error {
	if ctx.Profile == nil {
		return nil
	}
	if _, err := ctx.Profile.Resolve(bg); err != nil {
		return fmt.Errorf("failed to resolve subscription tier: %w", err)
	}
	return nil
}
