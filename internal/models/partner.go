package models

// PlacementType is where a partner placement appears.
type PlacementType string

const (
	PlacementHour   PlacementType = "hour"
	PlacementDay    PlacementType = "day"
	PlacementCoupon PlacementType = "coupon"
)

// TierVisibility is the minimum subscription level that sees a placement.
type TierVisibility string

const (
	VisibleAll          TierVisibility = "all"
	VisiblePaidOnly     TierVisibility = "paid_only"
	VisibleVarsityPlus  TierVisibility = "varsity_plus"
	VisibleCruciblePlus TierVisibility = "crucible_plus"
)

// MinRank returns the lowest tier rank allowed to see the placement and false
// for unknown visibility values.
func (v TierVisibility) MinRank() (int, bool) {
	switch v {
	case VisibleAll:
		return 0, true
	case VisiblePaidOnly, VisibleVarsityPlus:
		return 1, true
	case VisibleCruciblePlus:
		return 2, true
	default:
		return 0, false
	}
}

// VisibleFor reports whether tier may see a placement with this visibility.
func (v TierVisibility) VisibleFor(tier Tier) bool {
	minRank, ok := v.MinRank()
	if !ok {
		return false
	}
	return tier.Rank() >= minRank
}

// HourScope is an inclusive hour range.
type HourScope struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

func (s HourScope) Contains(hour int) bool {
	return hour >= s.Start && hour <= s.End
}

type CouponPayload struct {
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	CTAText     string `json:"cta_text,omitempty" yaml:"cta_text,omitempty"`
}

// Partner is an immutable sponsor placement from the partner catalog.
type Partner struct {
	PartnerID      string         `json:"partner_id" yaml:"partner_id"`
	BrandName      string         `json:"brand_name" yaml:"brand_name"`
	Tagline        string         `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	PlacementType  PlacementType  `json:"placement_type" yaml:"placement_type"`
	TierVisibility TierVisibility `json:"tier_visibility" yaml:"tier_visibility"`
	HourScope      *HourScope     `json:"hour_scope,omitempty" yaml:"hour_scope,omitempty"`

	MorningMessage     string `json:"morning_message,omitempty" yaml:"morning_message,omitempty"`
	EveningMessage     string `json:"evening_message,omitempty" yaml:"evening_message,omitempty"`
	MissionTitle       string `json:"mission_title,omitempty" yaml:"mission_title,omitempty"`
	MissionDescription string `json:"mission_description,omitempty" yaml:"mission_description,omitempty"`
	MissionXP          int    `json:"mission_xp,omitempty" yaml:"mission_xp,omitempty"`

	CouponPayload *CouponPayload `json:"coupon_payload,omitempty" yaml:"coupon_payload,omitempty"`

	Priority int `json:"priority" yaml:"priority"`
}

// SponsorLine is the one-line rendering used next to the check-in flow.
func (p Partner) SponsorLine() string {
	if p.Tagline == "" {
		return "Sponsored by " + p.BrandName
	}
	return "Sponsored by " + p.BrandName + " · " + p.Tagline
}
