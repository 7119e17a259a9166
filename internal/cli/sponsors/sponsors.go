package sponsors

import (
	"context"
	"fmt"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/placement"
	"github.com/julianstephens/wth/internal/utils"
)

type SponsorHourCmd struct {
	Hour string `arg:"" optional:"" help:"Hour (14, 2pm); defaults to the current hour."`
}

func (cmd *SponsorHourCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	date, err := c.ResolveDate(ctx, "today")
	if err != nil {
		return err
	}
	hour, err := c.ResolveHour(ctx, date, cmd.Hour)
	if err != nil {
		return err
	}
	tier := c.Tier(ctx)

	p, ok := c.Catalog.Resolver().ResolveForHour(hour, tier)
	if !ok {
		fmt.Printf("No sponsor for %s.\n", utils.FormatHour(hour))
		return nil
	}
	fmt.Printf("%s: %s\n", utils.FormatHour(hour), p.BrandName)
	if p.Tagline != "" {
		fmt.Printf("  %s\n", p.Tagline)
	}
	if !placement.ShowHourSponsor(tier) {
		fmt.Printf("  (not shown on the check-in screen for %s members)\n", tier)
	}
	return nil
}

type SponsorDayCmd struct{}

func (cmd *SponsorDayCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	now, err := c.Now(ctx)
	if err != nil {
		return err
	}

	p, ok := c.Catalog.Resolver().ResolveForDay(c.Tier(ctx))
	if !ok {
		fmt.Println("No daily mission today.")
		return nil
	}

	msg := p.EveningMessage
	if now.Hour() < 12 {
		msg = p.MorningMessage
	}
	if msg != "" {
		fmt.Println(msg)
	}
	if p.MissionTitle != "" {
		fmt.Printf("Mission: %s", p.MissionTitle)
		if p.MissionXP > 0 {
			fmt.Printf(" (+%d XP)", p.MissionXP)
		}
		fmt.Println()
	}
	if p.MissionDescription != "" {
		fmt.Printf("  %s\n", p.MissionDescription)
	}
	fmt.Printf("Presented by %s\n", p.BrandName)
	return nil
}

type SponsorCouponsCmd struct{}

func (cmd *SponsorCouponsCmd) Run(c *cli.Context) error {
	ctx := context.Background()
	tier := c.Tier(ctx)
	coupons := c.Catalog.Resolver().ResolveCoupons(tier)
	if len(coupons) == 0 {
		fmt.Printf("No coupons available for %s members.\n", tier)
		return nil
	}

	for _, p := range coupons {
		cp := p.CouponPayload
		fmt.Printf("%s  %s\n", p.BrandName, cp.Code)
		if cp.Description != "" {
			fmt.Printf("  %s\n", cp.Description)
		}
		if cp.URL != "" {
			cta := cp.CTAText
			if cta == "" {
				cta = "Redeem"
			}
			fmt.Printf("  %s: %s\n", cta, cp.URL)
		}
	}
	return nil
}

// SponsorCatalogCmd lists the loaded catalog and reports skipped entries.
type SponsorCatalogCmd struct{}

func (cmd *SponsorCatalogCmd) Run(c *cli.Context) error {
	path := c.Catalog.Path()
	if path != "" {
		fmt.Printf("Catalog: %s\n", path)
	}

	partners := c.Catalog.Resolver().Partners()
	if len(partners) == 0 {
		fmt.Println("No partners loaded.")
	}
	for _, p := range partners {
		scope := "all hours"
		if p.HourScope != nil {
			scope = fmt.Sprintf("%s-%s", utils.FormatHour(p.HourScope.Start), utils.FormatHour(p.HourScope.End))
		}
		if p.PlacementType != models.PlacementHour {
			scope = "-"
		}
		fmt.Printf("  %-16s %-7s %-14s p%-3d %s\n", p.PartnerID, p.PlacementType, p.TierVisibility, p.Priority, scope)
	}

	if path == "" {
		return nil
	}
	_, result, err := placement.LoadCatalog(path)
	if err != nil {
		return err
	}
	if result.HasConflicts() {
		fmt.Println()
		fmt.Print(result.FormatReport())
	}
	return nil
}
