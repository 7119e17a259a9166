package beastmode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/notifier"
	"github.com/julianstephens/wth/internal/tui/components/beast"
)

var ErrBeastModeOff = errors.New("BeastMode is off; run 'wth beast on' first")

type BeastOnCmd struct{}

func (cmd *BeastOnCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	now, err := c.Now(ctx)
	if err != nil {
		return err
	}
	settings := c.Settings(ctx)
	sched := c.NewScheduler(settings)
	defer sched.Stop()

	state := sched.Enable(ctx, c.Records.LoadSchedulerState(ctx))
	c.Records.SaveSchedulerState(ctx, state)

	fmt.Printf("✓ BeastMode on: reflection every %d min (anchor: %s)\n", settings.BeastPeriodMin, settings.BeastAnchor)
	fmt.Printf("  Next reflection in %s\n", beast.FormatRemaining(sched.Remaining(now)))
	fmt.Println("  Run 'wth beast watch' or keep the TUI open to be prompted.")
	return nil
}

type BeastOffCmd struct{}

func (cmd *BeastOffCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	sched := c.NewScheduler(c.Settings(ctx))
	state := sched.Disable(c.Records.LoadSchedulerState(ctx))
	c.Records.SaveSchedulerState(ctx, state)

	fmt.Println("✓ BeastMode off")
	return nil
}

type BeastStatusCmd struct{}

func (cmd *BeastStatusCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	settings := c.Settings(ctx)
	state := c.Records.LoadSchedulerState(ctx)

	if !state.Enabled {
		fmt.Println("BeastMode: off")
		return nil
	}

	now, err := c.Now(ctx)
	if err != nil {
		return err
	}
	sched := c.NewScheduler(settings)
	defer sched.Stop()
	sched.Start(ctx, state)

	fmt.Println("BeastMode: on")
	fmt.Printf("  Period:          %d min\n", settings.BeastPeriodMin)
	fmt.Printf("  Anchor:          %s\n", settings.BeastAnchor)
	if state.HasStamp() {
		fmt.Printf("  Last check-in:   %s\n", state.LastSubmitAt.In(now.Location()).Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("  Next reflection: %s\n", beast.FormatRemaining(sched.Remaining(now)))
	return nil
}

// Notifier delivers a reflection prompt.
type Notifier interface {
	Notify(ctx context.Context, title, text string) error
}

type BeastWatchCmd struct {
	DryRun bool `help:"Print reflections instead of sending desktop notifications."`

	Notifier Notifier `kong:"-"`
}

func (cmd *BeastWatchCmd) Run(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cmd.watch(ctx, c)
}

// watch prompts on every BeastMode fire until ctx is done or BeastMode is
// turned off from another process.
func (cmd *BeastWatchCmd) watch(ctx context.Context, c *cli.Context) error {
	state := c.Records.LoadSchedulerState(ctx)
	if !state.Enabled {
		return ErrBeastModeOff
	}
	settings := c.Settings(ctx)
	clock, err := c.LocalClock(ctx)
	if err != nil {
		return err
	}

	n := cmd.Notifier
	if n == nil {
		n = notifier.New()
	}

	sched := c.NewScheduler(settings)
	defer sched.Stop()
	sched.Start(ctx, state)

	log := logger.With("component", "beastmode")
	fmt.Printf("Watching BeastMode, next reflection in %s. Press Ctrl+C to stop.\n", beast.FormatRemaining(sched.Remaining(clock())))

	for {
		select {
		case <-ctx.Done():
			return nil
		case fire := <-sched.Fires():
			if !sched.IsCurrent(fire) {
				continue
			}
			if !c.Records.LoadSchedulerState(ctx).Enabled {
				fmt.Println("BeastMode was turned off.")
				return nil
			}
			log.Debug("Reflection due", "generation", fire.Generation)
			cmd.remind(ctx, n, settings, clock().Hour())
		}
	}
}

func (cmd *BeastWatchCmd) remind(ctx context.Context, n Notifier, settings models.Settings, hour int) {
	title, text := notifier.ReflectionPrompt(hour)
	if cmd.DryRun || !settings.NotificationsEnabled {
		fmt.Printf("[%s] %s\n", title, text)
		return
	}
	if err := n.Notify(ctx, title, text); err != nil {
		logger.Warn("Failed to send reflection notification", "error", err)
		fmt.Printf("[%s] %s\n", title, text)
	}
}
