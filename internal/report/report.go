// Package report renders a day of check-ins as markdown.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/julianstephens/wth/internal/checkin"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/placement"
)

// Day is everything shown in a day report.
type Day struct {
	Overview    checkin.Overview
	Now         time.Time
	Tier        models.Tier
	HourSponsor *models.Partner
	DaySponsor  *models.Partner
	Coupons     []models.Partner
}

// Build loads the overview for date and resolves the sponsor content for tier.
func Build(ctx context.Context, store checkin.OverviewStore, resolver *placement.Resolver, date string, now time.Time, settings models.Settings, tier models.Tier) (Day, error) {
	ov, err := checkin.LoadOverview(ctx, store, date, now, settings)
	if err != nil {
		return Day{}, err
	}
	d := Day{Overview: ov, Now: now, Tier: tier}
	if resolver == nil {
		return d, nil
	}
	if placement.ShowHourSponsor(tier) {
		if p, ok := resolver.ResolveForHour(now.Hour(), tier); ok {
			d.HourSponsor = &p
		}
	}
	if p, ok := resolver.ResolveForDay(tier); ok {
		d.DaySponsor = &p
	}
	d.Coupons = resolver.ResolveCoupons(tier)
	return d, nil
}

// Markdown renders d as a markdown document.
func Markdown(d Day) string {
	var b strings.Builder
	ov := d.Overview

	fmt.Fprintf(&b, "# Win The Hour: %s\n\n", ov.Date)
	if ov.Summary.Logged == 0 {
		b.WriteString("No hours logged yet.\n\n")
	} else {
		fmt.Fprintf(&b, "**Won %d of %d logged hours (%d%%)**\n\n", ov.Summary.Won, ov.Summary.Logged, ov.Summary.WinRate)
	}

	if d.HourSponsor != nil {
		fmt.Fprintf(&b, "_%s_\n\n", d.HourSponsor.SponsorLine())
	}

	b.WriteString("## Hours\n\n")
	b.WriteString("| Hour | Status | Notes |\n|---|---|---|\n")
	for _, slot := range ov.Hours {
		label := slot.Label
		if slot.Current {
			label = "**" + label + "**"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", label, slotStatus(slot), escapeCell(slotNotes(slot)))
	}
	b.WriteString("\n")

	if ov.Priorities.Filled() > 0 {
		b.WriteString("## MYBED\n\n")
		n := 1
		for _, item := range ov.Priorities {
			if strings.TrimSpace(item) == "" {
				continue
			}
			fmt.Fprintf(&b, "%d. %s\n", n, item)
			n++
		}
		b.WriteString("\n")
	}

	if p := d.DaySponsor; p != nil {
		b.WriteString("## Daily mission\n\n")
		if msg := greeting(*p, d.Now); msg != "" {
			fmt.Fprintf(&b, "> %s\n\n", msg)
		}
		if p.MissionTitle != "" {
			fmt.Fprintf(&b, "**%s**", p.MissionTitle)
			if p.MissionXP > 0 {
				fmt.Fprintf(&b, " (+%d XP)", p.MissionXP)
			}
			b.WriteString("\n\n")
		}
		if p.MissionDescription != "" {
			fmt.Fprintf(&b, "%s\n\n", p.MissionDescription)
		}
		fmt.Fprintf(&b, "_Presented by %s_\n\n", p.BrandName)
	}

	if len(d.Coupons) > 0 {
		b.WriteString("## Coupons\n\n")
		for _, p := range d.Coupons {
			b.WriteString(CouponLine(p))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// CouponLine renders one coupon as a markdown list item.
func CouponLine(p models.Partner) string {
	c := p.CouponPayload
	if c == nil {
		return ""
	}
	line := fmt.Sprintf("- **%s** `%s` %s", p.BrandName, c.Code, c.Description)
	if c.URL != "" {
		cta := c.CTAText
		if cta == "" {
			cta = "Redeem"
		}
		line += fmt.Sprintf(" [%s](%s)", cta, c.URL)
	}
	return strings.TrimRight(line, " ")
}

func greeting(p models.Partner, now time.Time) string {
	if now.Hour() < 12 {
		return p.MorningMessage
	}
	return p.EveningMessage
}

func slotStatus(slot checkin.HourSlot) string {
	switch slot.Status {
	case checkin.HourUnavailable:
		return "unavailable"
	case checkin.HourFuture:
		return "upcoming"
	case checkin.HourLogged:
		return slot.Record.StatusLabel()
	default:
		return "open"
	}
}

func slotNotes(slot checkin.HourSlot) string {
	if slot.Record == nil {
		return ""
	}
	if slot.Record.Won() {
		return slot.Record.PlanText()
	}
	return slot.Record.ReasonText()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// Render formats markdown for the terminal. style is "auto" or a glamour
// style name such as "dark", "light" or "notty".
func Render(markdown string, width int, style string) (string, error) {
	if width <= 0 {
		width = 80
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return out, nil
}
