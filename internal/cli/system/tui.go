package system

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/placement"
	"github.com/julianstephens/wth/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	bg, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup(bg)

	settings := ctx.Settings(bg)
	sched := ctx.NewScheduler(settings)
	defer sched.Stop()

	go func() {
		if err := ctx.Catalog.Watch(bg, placement.DefaultDebounce); err != nil {
			logger.Warn("Partner catalog watcher stopped", "path", ctx.Catalog.Path(), "error", err)
		}
	}()

	model, err := tui.NewModel(bg, tui.Config{
		Store:     ctx.Records,
		Catalog:   ctx.Catalog,
		Scheduler: sched,
		Tier:      ctx.Tier(bg),
		Settings:  settings,
		Now:       ctx.Clock,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(bg))
	_, err = p.Run()
	return err
}
