package domain

import "time"

// Link quality tiers. LinkPrim codes P and C mark the authoritative primary
// linkage; link types LU and LC strictly dominate all other types.
const (
	PrimScoreDefault = 0
	PrimScorePrimary = 1

	TypeRankDefault = 0
	TypeRankLC      = 1
	TypeRankLU      = 2
)

// Link represents a claim that, during some window, a security key maps to
// one external entity key. The entity key is already normalized; raw link
// rows that fail normalization are dropped before a Link is ever built.
type Link struct {
	SecurityKey int64     `json:"security_key" csv:"security_key"`
	GroupKey    int64     `json:"group_key,omitempty" csv:"group_key"`
	EntityKey   string    `json:"entity_key" csv:"entity_key"`
	ValidFrom   time.Time `json:"valid_from" csv:"valid_from"`
	ValidTo     time.Time `json:"valid_to" csv:"valid_to"`
	CUSIP       string    `json:"cusip,omitempty" csv:"cusip"`
	CUSIP6      string    `json:"cusip6,omitempty" csv:"cusip6"`
	LinkPrim    string    `json:"link_prim,omitempty" csv:"link_prim"`
	LinkType    string    `json:"link_type,omitempty" csv:"link_type"`
	PrimScore   int       `json:"prim_score" csv:"prim_score"`
	TypeRank    int       `json:"type_rank" csv:"type_rank"`
}

// IsValid checks that the link carries the minimum required identity.
func (l Link) IsValid() bool {
	return l.SecurityKey > 0 && l.EntityKey != "" &&
		!l.ValidFrom.IsZero() && !l.ValidTo.IsZero() &&
		!l.ValidTo.Before(l.ValidFrom)
}

// ScorePrim maps a raw link-primary code to its quality score.
func ScorePrim(linkPrim string) int {
	switch linkPrim {
	case "P", "C":
		return PrimScorePrimary
	default:
		return PrimScoreDefault
	}
}

// RankType maps a raw link-type code to its priority rank.
func RankType(linkType string) int {
	switch linkType {
	case "LU":
		return TypeRankLU
	case "LC":
		return TypeRankLC
	default:
		return TypeRankDefault
	}
}
