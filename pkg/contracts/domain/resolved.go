package domain

import "time"

// ResolvedSegment is an identity segment annotated with at most one ownership
// link. Every input segment appears exactly once in the resolved set, whether
// a link was found or not; unmatched segments carry an empty entity key and
// zero scores.
type ResolvedSegment struct {
	Segment

	EntityKey  string    `json:"entity_key,omitempty" csv:"entity_key"`
	LinkFrom   time.Time `json:"link_from,omitempty" csv:"link_from"`
	LinkTo     time.Time `json:"link_to,omitempty" csv:"link_to"`
	LinkCUSIP  string    `json:"link_cusip,omitempty" csv:"link_cusip"`
	LinkCUSIP6 string    `json:"link_cusip6,omitempty" csv:"link_cusip6"`
	LinkPrim   string    `json:"link_prim,omitempty" csv:"link_prim"`
	LinkType   string    `json:"link_type,omitempty" csv:"link_type"`
	PrimScore  int       `json:"prim_score" csv:"prim_score"`
	TypeRank   int       `json:"type_rank" csv:"type_rank"`

	OverlapDays int  `json:"overlap_days" csv:"overlap_days"`
	CUSIP6Match bool `json:"cusip6_match" csv:"cusip6_match"`

	// PrimarySecurityKey is the security key chosen as the entity's primary
	// identity across its whole history; zero when the segment is unmatched
	// or the entity has no primary. Set by the primary selector.
	PrimarySecurityKey int64 `json:"primary_security_key,omitempty" csv:"primary_security_key"`
	IsPrimary          bool  `json:"is_primary" csv:"is_primary"`
}

// HasLink reports whether the segment resolved to an ownership link.
func (r ResolvedSegment) HasLink() bool {
	return r.EntityKey != ""
}

// PrimaryIdentity is the single canonical security key chosen to represent an
// external entity key across its full history. Exactly one exists per entity
// key that has at least one linked resolved segment.
type PrimaryIdentity struct {
	EntityKey   string `json:"entity_key" csv:"entity_key"`
	SecurityKey int64  `json:"security_key" csv:"security_key"`
}
