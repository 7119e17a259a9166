package checkins

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/constants"
)

type MybedShowCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (cmd *MybedShowCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	date, err := c.ResolveDate(ctx, cmd.Date)
	if err != nil {
		return err
	}

	items := c.Records.LoadPriorities(ctx, date)
	fmt.Printf("MYBED: %s\n", date)
	for i, item := range items {
		if item == "" {
			item = "-"
		}
		fmt.Printf("  %d. %s\n", i+1, item)
	}
	return nil
}

type MybedSetCmd struct {
	Slot int    `arg:"" help:"Priority number (1-6)."`
	Text string `arg:"" help:"Priority text; empty clears the slot."`
	Date string `help:"Date (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (cmd *MybedSetCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	if cmd.Slot < 1 || cmd.Slot > constants.PriorityCount {
		return fmt.Errorf("priority number must be between 1 and %d, got %d", constants.PriorityCount, cmd.Slot)
	}
	date, err := c.ResolveDate(ctx, cmd.Date)
	if err != nil {
		return err
	}

	items := c.Records.LoadPriorities(ctx, date)
	items[cmd.Slot-1] = strings.TrimSpace(cmd.Text)
	c.Records.SavePriorities(ctx, date, items)

	fmt.Printf("✓ Priority %d set for %s\n", cmd.Slot, date)
	return nil
}

type MybedClearCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (cmd *MybedClearCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	date, err := c.ResolveDate(ctx, cmd.Date)
	if err != nil {
		return err
	}
	c.Records.ClearPriorities(ctx, date)
	fmt.Printf("✓ Priorities cleared for %s\n", date)
	return nil
}

type MybedDatesCmd struct{}

func (cmd *MybedDatesCmd) Run(c *cli.Context) error {
	dates := c.Records.PriorityDates(context.Background())
	if len(dates) == 0 {
		fmt.Println("No saved priorities.")
		return nil
	}
	for _, d := range dates {
		fmt.Println(d)
	}
	return nil
}
