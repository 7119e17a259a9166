package checkins

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/utils"
)

type UnavailableListCmd struct{}

func (cmd *UnavailableListCmd) Run(c *cli.Context) error {
	hours := c.Records.LoadUnavailable(context.Background()).Sorted()
	if len(hours) == 0 {
		fmt.Println("No unavailable hours.")
		return nil
	}
	labels := make([]string, len(hours))
	for i, h := range hours {
		labels[i] = utils.FormatHour(h)
	}
	fmt.Printf("Unavailable every day: %s\n", strings.Join(labels, ", "))
	return nil
}

type UnavailableToggleCmd struct {
	Hours []string `arg:"" help:"Hours to toggle (14, 2pm)."`
}

func (cmd *UnavailableToggleCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	parsed := make([]int, 0, len(cmd.Hours))
	for _, h := range cmd.Hours {
		hour, err := cli.ParseHour(h)
		if err != nil {
			return err
		}
		parsed = append(parsed, hour)
	}

	for _, hour := range parsed {
		set := c.Records.ToggleUnavailable(ctx, hour)
		if set.Has(hour) {
			fmt.Printf("✓ %s marked unavailable\n", utils.FormatHour(hour))
		} else {
			fmt.Printf("✓ %s available again\n", utils.FormatHour(hour))
		}
	}
	return nil
}
