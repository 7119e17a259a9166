// Package placement selects sponsor content for the check-in views.
package placement

import (
	"sort"

	"github.com/julianstephens/wth/internal/models"
)

// Resolver picks partner placements from a fixed catalog. It has no side
// effects and is safe for concurrent use.
type Resolver struct {
	partners []models.Partner
}

// NewResolver copies partners; their order is the tie-break order.
func NewResolver(partners []models.Partner) *Resolver {
	return &Resolver{partners: append([]models.Partner(nil), partners...)}
}

// Partners returns the catalog in declaration order.
func (r *Resolver) Partners() []models.Partner {
	return append([]models.Partner(nil), r.partners...)
}

func (r *Resolver) visible(t models.PlacementType, tier models.Tier, match func(models.Partner) bool) []models.Partner {
	var out []models.Partner
	for _, p := range r.partners {
		if p.PlacementType != t || !p.TierVisibility.VisibleFor(tier) {
			continue
		}
		if match != nil && !match(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// lowest returns the first partner with the smallest priority.
func lowest(candidates []models.Partner) (models.Partner, bool) {
	if len(candidates) == 0 {
		return models.Partner{}, false
	}
	best := candidates[0]
	for _, p := range candidates[1:] {
		if p.Priority < best.Priority {
			best = p
		}
	}
	return best, true
}

// ResolveForHour returns the hour placement for hour, if any. Partners without
// an hour scope match every hour.
func (r *Resolver) ResolveForHour(hour int, tier models.Tier) (models.Partner, bool) {
	return lowest(r.visible(models.PlacementHour, tier, func(p models.Partner) bool {
		return p.HourScope == nil || p.HourScope.Contains(hour)
	}))
}

// ResolveForDay returns the daily placement, if any.
func (r *Resolver) ResolveForDay(tier models.Tier) (models.Partner, bool) {
	return lowest(r.visible(models.PlacementDay, tier, nil))
}

// ResolveCoupons returns every visible coupon with a payload, by priority.
func (r *Resolver) ResolveCoupons(tier models.Tier) []models.Partner {
	coupons := r.visible(models.PlacementCoupon, tier, func(p models.Partner) bool {
		return p.CouponPayload != nil
	})
	sort.SliceStable(coupons, func(i, j int) bool {
		return coupons[i].Priority < coupons[j].Priority
	})
	return coupons
}

// ShowHourSponsor reports whether the per-hour sponsor line is shown to tier.
// Paid tiers do not see it.
func ShowHourSponsor(tier models.Tier) bool {
	return !tier.Paid()
}
