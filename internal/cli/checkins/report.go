package checkins

import (
	"context"
	"fmt"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/report"
)

type ReportCmd struct {
	Date  string `arg:"" optional:"" help:"Date to report (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
	Width int    `help:"Wrap width." default:"80"`
	Style string `help:"Glamour style (auto, dark, light, notty)." default:"auto"`
	Raw   bool   `help:"Print markdown without rendering."`
}

func (cmd *ReportCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	date, err := c.ResolveDate(ctx, cmd.Date)
	if err != nil {
		return err
	}
	now, err := c.Now(ctx)
	if err != nil {
		return err
	}

	day, err := report.Build(ctx, c.Records, c.Catalog.Resolver(), date, now, c.Settings(ctx), c.Tier(ctx))
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	md := report.Markdown(day)
	if cmd.Raw {
		fmt.Print(md)
		return nil
	}
	out, err := report.Render(md, cmd.Width, cmd.Style)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	fmt.Print(out)
	return nil
}
