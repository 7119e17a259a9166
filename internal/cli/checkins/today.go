package checkins

import (
	"context"
	"fmt"

	"github.com/julianstephens/wth/internal/checkin"
	"github.com/julianstephens/wth/internal/cli"
)

type TodayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (cmd *TodayCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	date, err := c.ResolveDate(ctx, cmd.Date)
	if err != nil {
		return err
	}
	now, err := c.Now(ctx)
	if err != nil {
		return err
	}

	ov, err := checkin.LoadOverview(ctx, c.Records, date, now, c.Settings(ctx))
	if err != nil {
		return fmt.Errorf("failed to load overview: %w", err)
	}

	fmt.Printf("Win The Hour: %s\n", ov.Date)
	if ov.Summary.Logged == 0 {
		fmt.Println("No hours logged yet.")
	} else {
		fmt.Printf("Won %d of %d logged hours (%d%%)\n", ov.Summary.Won, ov.Summary.Logged, ov.Summary.WinRate)
	}
	fmt.Println()

	for _, slot := range ov.Hours {
		marker := " "
		if slot.Current {
			marker = ">"
		}
		fmt.Printf("%s %-9s %s\n", marker, slot.Label, describe(slot))
	}

	if ov.Priorities.Filled() > 0 {
		fmt.Println("\nMYBED:")
		for i, item := range ov.Priorities {
			if item == "" {
				continue
			}
			fmt.Printf("  %d. %s\n", i+1, item)
		}
	}
	return nil
}

func describe(slot checkin.HourSlot) string {
	switch slot.Status {
	case checkin.HourUnavailable:
		return "unavailable"
	case checkin.HourFuture:
		return "-"
	case checkin.HourLogged:
		rec := slot.Record
		if rec.Won() {
			return fmt.Sprintf("%-9s %s", rec.StatusLabel(), rec.PlanText())
		}
		return fmt.Sprintf("%-9s %s", rec.StatusLabel(), rec.ReasonText())
	default:
		return "open"
	}
}
