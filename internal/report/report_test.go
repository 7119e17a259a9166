package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/placement"
	"github.com/julianstephens/wth/internal/storage"
)

func testCatalog() *placement.Resolver {
	return placement.NewResolver([]models.Partner{
		{
			PartnerID:      "focusco",
			BrandName:      "FocusCo",
			Tagline:        "Deep work, daily",
			PlacementType:  models.PlacementHour,
			TierVisibility: models.VisibleAll,
			Priority:       1,
		},
		{
			PartnerID:          "runclub",
			BrandName:          "RunClub",
			PlacementType:      models.PlacementDay,
			TierVisibility:     models.VisibleAll,
			EveningMessage:     "Finish strong.",
			MissionTitle:       "Walk 20 minutes",
			MissionDescription: "Step away from the desk.",
			MissionXP:          50,
			Priority:           1,
		},
		{
			PartnerID:      "beans",
			BrandName:      "Beans",
			PlacementType:  models.PlacementCoupon,
			TierVisibility: models.VisiblePaidOnly,
			CouponPayload:  &models.CouponPayload{Code: "WIN10", Description: "10% off", URL: "https://example.com/beans"},
			Priority:       1,
		},
	})
}

func seed(t *testing.T) *storage.RecordStore {
	t.Helper()
	ctx := context.Background()
	store := storage.NewRecordStore(storage.NewMemoryStore())
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.Upsert(ctx, models.NewWinRecord("2026-03-01", 8, "ship the draft", at))
	store.Upsert(ctx, models.NewLossRecord("2026-03-01", 9, "meetings | email", 2, at))
	store.SavePriorities(ctx, "2026-03-01", models.Priorities{"", "write", "", "run"})
	return store
}

func TestMarkdownFreeTier(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 20, 0, 0, time.UTC)
	day, err := Build(context.Background(), seed(t), testCatalog(), "2026-03-01", now, models.DefaultSettings(), models.TierFreshman)
	require.NoError(t, err)

	md := Markdown(day)
	require.Contains(t, md, "# Win The Hour: 2026-03-01")
	require.Contains(t, md, "**Won 1 of 2 logged hours (50%)**")
	require.Contains(t, md, "_Sponsored by FocusCo · Deep work, daily_")
	require.Contains(t, md, "| 8:00 AM | WON | ship the draft |")
	require.Contains(t, md, `| 9:00 AM | LOST 2/5 | meetings \| email |`)
	require.Contains(t, md, "| **2:00 PM** | open |  |")
	require.Contains(t, md, "| 3:00 PM | upcoming |  |")
	require.Contains(t, md, "1. write\n2. run\n")
	require.Contains(t, md, "> Finish strong.")
	require.Contains(t, md, "**Walk 20 minutes** (+50 XP)")
	require.NotContains(t, md, "## Coupons", "paid-only coupons are hidden from the free tier")
}

func TestMarkdownPaidTier(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day, err := Build(context.Background(), seed(t), testCatalog(), "2026-03-01", now, models.DefaultSettings(), models.TierVarsity)
	require.NoError(t, err)

	require.Nil(t, day.HourSponsor)
	md := Markdown(day)
	require.NotContains(t, md, "Sponsored by")
	require.Contains(t, md, "- **Beans** `WIN10` 10% off [Redeem](https://example.com/beans)")
}

func TestMarkdownEmptyDay(t *testing.T) {
	store := storage.NewRecordStore(storage.NewMemoryStore())
	now := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
	day, err := Build(context.Background(), store, nil, "2026-03-01", now, models.DefaultSettings(), models.TierFreshman)
	require.NoError(t, err)

	md := Markdown(day)
	require.Contains(t, md, "No hours logged yet.")
	require.NotContains(t, md, "## MYBED")
	require.NotContains(t, md, "## Daily mission")
}

func TestRender(t *testing.T) {
	out, err := Render("# Title\n\nhello world\n", 40, "notty")
	require.NoError(t, err)
	require.True(t, strings.Contains(out, "hello world"))
}
