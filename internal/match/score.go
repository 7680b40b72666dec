package match

import (
	"esgmap/pkg/contracts/domain"
)

// Scoring bonuses beyond the strategy weight.
const (
	defaultCommonShareBonus    = 3
	defaultPrimaryListingBonus = 2
	defaultExchangeBonus       = 1
	daysPerYear                = 365
)

// ScoreConfig parameterizes candidate scoring. The preferred-exchange set
// and the overlap cap come from configuration so tests can run with
// alternate values without global side effects.
type ScoreConfig struct {
	PreferredExchanges  map[int]bool
	OverlapYearCap      int
	CommonShareBonus    int
	PrimaryListingBonus int
	ExchangeBonus       int
}

// NewScoreConfig builds a scoring configuration with the standard bonuses.
func NewScoreConfig(preferredExchanges []int, overlapYearCap int) ScoreConfig {
	preferred := make(map[int]bool, len(preferredExchanges))
	for _, code := range preferredExchanges {
		preferred[code] = true
	}
	return ScoreConfig{
		PreferredExchanges:  preferred,
		OverlapYearCap:      overlapYearCap,
		CommonShareBonus:    defaultCommonShareBonus,
		PrimaryListingBonus: defaultPrimaryListingBonus,
		ExchangeBonus:       defaultExchangeBonus,
	}
}

// Score computes the structured breakdown for one candidate: the strategy
// weight, fixed bonuses for common share class, primary listing and a
// preferred exchange, one point per full year of overlap up to the cap, and
// the segment's link-quality tiers passed through.
func (c ScoreConfig) Score(strategyWeight int, seg domain.ResolvedSegment, overlapDays int) domain.ScoreBreakdown {
	breakdown := domain.ScoreBreakdown{
		Strategy: strategyWeight,
		LinkPrim: seg.PrimScore,
		LinkType: seg.TypeRank,
	}

	if seg.IsCommon {
		breakdown.CommonShare = c.CommonShareBonus
	}
	if seg.IsPrimary {
		breakdown.PrimaryListing = c.PrimaryListingBonus
	}
	if c.PreferredExchanges[seg.ExchangeCode] {
		breakdown.Exchange = c.ExchangeBonus
	}

	years := overlapDays / daysPerYear
	if years > c.OverlapYearCap {
		years = c.OverlapYearCap
	}
	breakdown.Overlap = years

	return breakdown
}
