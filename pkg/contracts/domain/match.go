package domain

import "time"

// ScoreBreakdown records the per-criterion sub-scores of a match so that
// tie-break behavior is auditable criterion by criterion rather than as an
// opaque sum.
type ScoreBreakdown struct {
	Strategy       int `json:"strategy" csv:"score_strategy"`
	CommonShare    int `json:"common_share" csv:"score_common_share"`
	PrimaryListing int `json:"primary_listing" csv:"score_primary_listing"`
	Exchange       int `json:"exchange" csv:"score_exchange"`
	Overlap        int `json:"overlap" csv:"score_overlap"`
	LinkPrim       int `json:"link_prim" csv:"score_link_prim"`
	LinkType       int `json:"link_type" csv:"score_link_type"`
}

// Total returns the sum of all sub-scores.
func (b ScoreBreakdown) Total() int {
	return b.Strategy + b.CommonShare + b.PrimaryListing + b.Exchange +
		b.Overlap + b.LinkPrim + b.LinkType
}

// Match is the result of resolving one provider record against the security
// master: the matched security and entity keys, the strategy that produced
// the match, its score, and the security attributes carried through for
// downstream consumers.
type Match struct {
	ProviderEntityID string `json:"provider_entity_id" csv:"provider_entity_id"`
	Year             int    `json:"year" csv:"year"`
	CompanyName      string `json:"company_name,omitempty" csv:"company_name"`

	Strategy    string         `json:"strategy" csv:"strategy"`
	Score       int            `json:"score" csv:"score"`
	Breakdown   ScoreBreakdown `json:"breakdown" csv:"-"`
	OverlapDays int            `json:"overlap_days" csv:"overlap_days"`

	SecurityKey        int64  `json:"security_key" csv:"security_key"`
	EntityKey          string `json:"entity_key,omitempty" csv:"entity_key"`
	PrimarySecurityKey int64  `json:"primary_security_key,omitempty" csv:"primary_security_key"`
	IsPrimary          bool   `json:"is_primary" csv:"is_primary"`
	IsCommon           bool   `json:"is_common" csv:"is_common"`
	ExchangeCode       int    `json:"exchange_code" csv:"exchange_code"`
	Exchange           string `json:"exchange,omitempty" csv:"exchange"`
	Ticker             string `json:"ticker,omitempty" csv:"ticker"`
	CUSIP6             string `json:"cusip6,omitempty" csv:"cusip6"`

	SegmentFrom time.Time `json:"segment_from" csv:"segment_from"`
	SegmentTo   time.Time `json:"segment_to" csv:"segment_to"`
}

// Key returns the match's (provider entity id, year) key.
func (m Match) Key() RecordKey {
	return RecordKey{EntityID: m.ProviderEntityID, Year: m.Year}
}

// StrategyCount is one entry in the per-strategy coverage breakdown.
type StrategyCount struct {
	Strategy string `json:"strategy" csv:"strategy"`
	Matched  int    `json:"matched" csv:"matched"`
}

// Coverage summarizes a match run for audit: input size, matched size, and
// the breakdown by strategy, so coverage regressions are visible without
// inspecting row-level output.
type Coverage struct {
	Provider   string          `json:"provider"`
	Total      int             `json:"total"`
	Matched    int             `json:"matched"`
	Unmatched  int             `json:"unmatched"`
	ByStrategy []StrategyCount `json:"by_strategy"`
}

// Rate returns the match rate as a percentage in [0, 100].
func (c Coverage) Rate() float64 {
	if c.Total == 0 {
		return 0
	}
	return 100 * float64(c.Matched) / float64(c.Total)
}
