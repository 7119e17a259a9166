package checkins

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/wth/internal/checkin"
	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/utils"
)

// SlotFlags selects the hour a command acts on.
type SlotFlags struct {
	Date      string `help:"Date to log (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
	Hour      string `help:"Hour to log (14, 2pm); defaults to the current hour." short:"H"`
	Overwrite bool   `help:"Replace an existing check-in for the hour."`
}

// open starts a check-in flow for the selected hour and leaves it in ASK.
func (s SlotFlags) open(ctx context.Context, c *cli.Context) (*checkin.Flow, error) {
	date, err := c.ResolveDate(ctx, s.Date)
	if err != nil {
		return nil, err
	}
	hour, err := c.ResolveHour(ctx, date, s.Hour)
	if err != nil {
		return nil, err
	}
	clock, err := c.LocalClock(ctx)
	if err != nil {
		return nil, err
	}

	flow, err := checkin.New(ctx, c.Records, date, hour,
		checkin.WithClock(clock),
		checkin.WithSubmitHook(c.StampBeast(ctx)),
	)
	if err != nil {
		return nil, err
	}

	label := fmt.Sprintf("%s %s", date, utils.FormatHour(hour))
	switch flow.State() {
	case checkin.StateUnavailable:
		return nil, fmt.Errorf("%s is marked unavailable", label)
	case checkin.StateFuture:
		return nil, fmt.Errorf("%s has not started yet", label)
	case checkin.StateDoneExisting:
		if !s.Overwrite {
			rec, _ := flow.Record()
			return nil, fmt.Errorf("%s is already logged (%s); use --overwrite to replace it", label, rec.StatusLabel())
		}
		if err := flow.Relog(); err != nil {
			return nil, err
		}
	}
	return flow, nil
}

// watchSave reports the first storage failure seen until the returned func
// is called.
func watchSave(c *cli.Context) func() error {
	var failed error
	c.Records.OnError(func(op string, err error) {
		if failed == nil {
			failed = fmt.Errorf("%s: %w", op, err)
		}
	})
	return func() error {
		c.Records.OnError(nil)
		if failed != nil {
			return fmt.Errorf("check-in not saved: %w", failed)
		}
		return nil
	}
}

type LogWinCmd struct {
	Slot SlotFlags `embed:""`
	Plan string `arg:"" help:"What you will do with the next hour."`
}

func (cmd *LogWinCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	flow, err := cmd.Slot.open(ctx, c)
	if err != nil {
		return err
	}

	if err := flow.DeclareWin(); err != nil {
		return err
	}
	if err := flow.SetPlan(cmd.Plan); err != nil {
		return err
	}
	saved := watchSave(c)
	if err := flow.SubmitPlan(ctx); err != nil {
		saved()
		if errors.Is(err, checkin.ErrEmptyPlan) {
			return fmt.Errorf("plan cannot be empty")
		}
		return err
	}
	if err := saved(); err != nil {
		return err
	}

	fmt.Printf("✓ Won %s on %s\n", utils.FormatHour(flow.Hour()), flow.Date())
	fmt.Printf("  Next hour: %s\n", cmd.Plan)
	return nil
}

type LogLossCmd struct {
	Slot SlotFlags `embed:""`
	Reason string `arg:"" help:"What got in the way."`
	Rating int    `arg:"" help:"How hard the hour hit, 1 (mild) to 5 (brutal)."`
}

func (cmd *LogLossCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	flow, err := cmd.Slot.open(ctx, c)
	if err != nil {
		return err
	}

	if err := flow.DeclareLoss(); err != nil {
		return err
	}
	if err := flow.SetReason(cmd.Reason); err != nil {
		return err
	}
	if err := flow.SubmitReason(); err != nil {
		if errors.Is(err, checkin.ErrEmptyReason) {
			return fmt.Errorf("reason cannot be empty")
		}
		return err
	}
	saved := watchSave(c)
	if err := flow.Rate(ctx, cmd.Rating); err != nil {
		saved()
		if errors.Is(err, checkin.ErrInvalidRating) {
			return fmt.Errorf("rating must be between 1 and 5, got %d", cmd.Rating)
		}
		return err
	}
	if err := saved(); err != nil {
		return err
	}

	fmt.Printf("✓ Logged %s on %s as a loss (%d/5)\n", utils.FormatHour(flow.Hour()), flow.Date(), cmd.Rating)
	return nil
}
