package models

// Tier is a subscription level name as supplied by the profile service.
type Tier string

const (
	TierFreshman  Tier = "Freshman"
	TierVarsity   Tier = "Varsity"
	TierCrucible  Tier = "Crucible"
	TierElite     Tier = "Elite"
	TierLegendary Tier = "Legendary"
)

var tierRank = map[Tier]int{
	TierFreshman:  0,
	TierVarsity:   1,
	TierCrucible:  2,
	TierElite:     3,
	TierLegendary: 4,
}

// Rank returns the tier's rank; unknown tiers rank as Freshman.
func (t Tier) Rank() int {
	return tierRank[t]
}

func (t Tier) Known() bool {
	_, ok := tierRank[t]
	return ok
}

// Paid reports whether the tier is above the free tier.
func (t Tier) Paid() bool {
	return t.Rank() >= 1
}

// Tiers lists the known tiers in rank order.
func Tiers() []Tier {
	return []Tier{TierFreshman, TierVarsity, TierCrucible, TierElite, TierLegendary}
}
