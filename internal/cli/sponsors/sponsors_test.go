package sponsors

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/placement"
	"github.com/julianstephens/wth/internal/profile"
	"github.com/julianstephens/wth/internal/storage"
)

const catalogYAML = `partners:
  - partner_id: focusfuel
    brand_name: FocusFuel
    tagline: Fuel the next hour
    placement_type: hour
    tier_visibility: all
    hour_scope: {start: 6, end: 11}
    priority: 1
  - partner_id: grind
    brand_name: Grind Co
    placement_type: day
    tier_visibility: all
    morning_message: Rise and grind
    evening_message: Finish strong
    mission_title: Two deep hours
    mission_xp: 50
    priority: 1
  - partner_id: gear
    brand_name: Gear
    placement_type: coupon
    tier_visibility: paid_only
    coupon_payload: {code: WIN20, description: "20% off", url: "https://example.com"}
    priority: 2
  - partner_id: broken
    brand_name: Broken
    placement_type: banner
    tier_visibility: all
`

func setupTestContext(t *testing.T, tier string) *cli.Context {
	t.Helper()
	path := filepath.Join(t.TempDir(), "partners.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	catalog, err := placement.NewCatalog(path)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	c := cli.NewContext(storage.NewMemoryStore(), catalog, profile.WithOverride(tier))
	c.Clock = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	c.Records.SaveSettings(context.Background(), settings)
	return c
}

func TestSponsorCommands(t *testing.T) {
	for _, tier := range []string{"Freshman", "Varsity"} {
		t.Run(tier, func(t *testing.T) {
			c := setupTestContext(t, tier)
			cmds := []interface{ Run(*cli.Context) error }{
				&SponsorHourCmd{},
				&SponsorHourCmd{Hour: "8pm"},
				&SponsorDayCmd{},
				&SponsorCouponsCmd{},
				&SponsorCatalogCmd{},
			}
			for _, cmd := range cmds {
				if err := cmd.Run(c); err != nil {
					t.Errorf("%T.Run() error = %v", cmd, err)
				}
			}
		})
	}
}

func TestSponsorHourRejectsBadHour(t *testing.T) {
	c := setupTestContext(t, "Freshman")
	if err := (&SponsorHourCmd{Hour: "25"}).Run(c); err == nil {
		t.Error("expected error for hour 25")
	}
}

func TestCatalogDropsInvalidEntries(t *testing.T) {
	c := setupTestContext(t, "Freshman")
	partners := c.Catalog.Resolver().Partners()
	if len(partners) != 3 {
		t.Fatalf("loaded %d partners, want 3 (the banner entry is invalid)", len(partners))
	}
}
