package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/notifier"
)

// Notifier delivers a desktop notification.
type Notifier interface {
	Notify(ctx context.Context, title, text string) error
}

// NotifyCmd sends the BeastMode reflection prompt once. External schedulers
// (cron, the tray helper) call it.
type NotifyCmd struct {
	DryRun bool   `help:"Print notifications to stdout instead of sending them."`
	Hour   string `short:"H" help:"Hour the prompt asks about (defaults to the current hour)."`

	Notifier Notifier `kong:"-"`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	settings := ctx.Settings(bg)
	if !settings.NotificationsEnabled {
		if c.DryRun {
			fmt.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	date, err := ctx.ResolveDate(bg, "today")
	if err != nil {
		return err
	}
	hour, err := ctx.ResolveHour(bg, date, c.Hour)
	if err != nil {
		return err
	}
	title, text := notifier.ReflectionPrompt(hour)

	if c.DryRun {
		fmt.Printf("[DryRun] %s: %s\n", title, text)
		return nil
	}

	n := c.Notifier
	if n == nil {
		n = notifier.New()
	}
	sendCtx, cancel := context.WithTimeout(bg, 5*time.Second)
	defer cancel()
	if err := n.Notify(sendCtx, title, text); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
