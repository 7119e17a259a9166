package checkin

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/utils"
)

// HourStatus is how one hour appears in the day overview.
type HourStatus string

const (
	HourOpen        HourStatus = "open"
	HourLogged      HourStatus = "logged"
	HourUnavailable HourStatus = "unavailable"
	HourFuture      HourStatus = "future"
)

type HourSlot struct {
	Hour    int
	Label   string
	Status  HourStatus
	Current bool
	Record  *models.CheckInRecord
}

// Overview is the TODAY view of one date.
type Overview struct {
	Date       string
	Hours      []HourSlot
	Priorities models.Priorities
	Summary    models.DaySummary
}

// OverviewStore is the part of the record store the overview reads.
type OverviewStore interface {
	LoadDay(ctx context.Context, date string) []models.CheckInRecord
	LoadUnavailable(ctx context.Context) models.HourSet
	LoadPriorities(ctx context.Context, date string) models.Priorities
}

// LoadOverview builds the waking-hour overview for date. now must be in the
// user's timezone.
func LoadOverview(ctx context.Context, store OverviewStore, date string, now time.Time, settings models.Settings) (Overview, error) {
	var (
		records     []models.CheckInRecord
		unavailable models.HourSet
		priorities  models.Priorities
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		records = store.LoadDay(gctx, date)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		unavailable = store.LoadUnavailable(gctx)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		priorities = store.LoadPriorities(gctx, date)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	byHour := make(map[int]models.CheckInRecord, len(records))
	for _, r := range records {
		byHour[r.Hour] = r
	}

	today := utils.DateOf(now)
	ov := Overview{
		Date:       date,
		Priorities: priorities,
		Summary:    models.Summarize(records, date),
	}
	for _, hour := range settings.WakingHours() {
		slot := HourSlot{
			Hour:    hour,
			Label:   utils.FormatHour(hour),
			Current: date == today && hour == now.Hour(),
		}
		rec, logged := byHour[hour]
		switch {
		case unavailable.Has(hour):
			slot.Status = HourUnavailable
		case utils.IsFutureHour(date, hour, now):
			slot.Status = HourFuture
		case logged:
			slot.Status = HourLogged
		default:
			slot.Status = HourOpen
		}
		if logged {
			slot.Record = &rec
		}
		ov.Hours = append(ov.Hours, slot)
	}
	return ov, nil
}

// OpenHours lists past or current hours with no record yet.
func (o Overview) OpenHours() []int {
	var hours []int
	for _, slot := range o.Hours {
		if slot.Status == HourOpen {
			hours = append(hours, slot.Hour)
		}
	}
	return hours
}
