package system

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/wth/internal/cli"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpRecords  *DebugDumpRecordsCmd  `cmd:"" help:"Dump check-ins as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
	DumpBeast    *DebugDumpBeastCmd    `cmd:"" help:"Dump BeastMode state as JSON."`
	DumpPartners *DebugDumpPartnersCmd `cmd:"" help:"Dump the loaded partner catalog as JSON."`
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path":    ctx.Backend.GetConfigPath(),
		"backend": backendName(ctx.Backend),
		"catalog": ctx.Catalog.Path(),
	})
}

type DebugDumpRecordsCmd struct {
	Date string `arg:"" optional:"" help:"Only dump this date (YYYY-MM-DD, 'today' or 'yesterday')."`
}

func (cmd *DebugDumpRecordsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	if cmd.Date == "" {
		return printJSON(ctx.Records.LoadAll(bg))
	}
	date, err := ctx.ResolveDate(bg, cmd.Date)
	if err != nil {
		return err
	}
	return printJSON(ctx.Records.LoadDay(bg, date))
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx.Settings(context.Background()))
}

type DebugDumpBeastCmd struct{}

func (cmd *DebugDumpBeastCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx.Records.LoadSchedulerState(context.Background()))
}

type DebugDumpPartnersCmd struct{}

func (cmd *DebugDumpPartnersCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx.Catalog.Resolver().Partners())
}
