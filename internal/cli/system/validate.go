package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/placement"
	"github.com/julianstephens/wth/internal/validation"
)

type ValidateCmd struct{}

type section struct {
	name   string
	result validation.ValidationResult
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	now, err := ctx.Now(bg)
	if err != nil {
		return err
	}

	v := validation.New()
	results := []section{
		{"Check-ins", v.ValidateRecords(ctx.Records.LoadHistory(bg).All(), now)},
		{"Settings", v.ValidateSettings(ctx.Settings(bg))},
	}
	if path := ctx.Catalog.Path(); path != "" {
		_, result, err := placement.LoadCatalog(path)
		if err != nil {
			return fmt.Errorf("failed to load partner catalog: %w", err)
		}
		results = append(results, section{"Partner catalog", result})
	}

	failed := false
	for _, r := range results {
		if !r.result.HasConflicts() {
			fmt.Printf("✓ %s: no conflicts\n", r.name)
			continue
		}
		failed = true
		fmt.Printf("%s:\n", r.name)
		fmt.Print(r.result.FormatReport())
	}

	if failed {
		return fmt.Errorf("validation found conflicts")
	}
	return nil
}
