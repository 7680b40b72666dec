package domain

import (
	"strings"
	"time"
)

// ProviderRecord is one external data source's observation for one
// (provider entity id, period) pair, carrying whatever raw identifiers the
// provider publishes. Records are deduplicated so at most one exists per
// (provider entity id, year).
type ProviderRecord struct {
	ProviderEntityID string `json:"provider_entity_id" csv:"provider_entity_id"`
	Year             int    `json:"year" csv:"year"`
	CompanyName      string `json:"company_name,omitempty" csv:"company_name"`

	Ticker      string `json:"ticker,omitempty" csv:"ticker"`
	CleanTicker string `json:"clean_ticker,omitempty" csv:"clean_ticker"`
	CUSIP       string `json:"cusip,omitempty" csv:"cusip"`
	CUSIP6      string `json:"cusip6,omitempty" csv:"cusip6"`
	ISIN        string `json:"isin,omitempty" csv:"isin"`
	ISINCUSIP6  string `json:"isin_cusip6,omitempty" csv:"isin_cusip6"`
	SEDOL       string `json:"sedol,omitempty" csv:"sedol"`

	// Validity window for interval matching, typically the calendar year
	// [Jan 1 Y, Jan 1 Y+1).
	ValidFrom time.Time `json:"valid_from" csv:"valid_from"`
	ValidTo   time.Time `json:"valid_to" csv:"valid_to"`
}

// RecordKey identifies a provider record within a batch.
type RecordKey struct {
	EntityID string
	Year     int
}

// Key returns the record's (provider entity id, year) key.
func (r ProviderRecord) Key() RecordKey {
	return RecordKey{EntityID: r.ProviderEntityID, Year: r.Year}
}

// IsValid checks that the record can participate in matching at all.
func (r ProviderRecord) IsValid() bool {
	return r.ProviderEntityID != "" && r.Year > 0
}

// YearWindow returns the half-open calendar window for a reporting year.
func YearWindow(year int) (from, to time.Time) {
	from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, to
}

// NormalizeIdentifier uppercases and trims an identifier for exact matching.
func NormalizeIdentifier(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ExtractCUSIP6FromISIN derives the 6-character CUSIP prefix embedded in
// North American ISINs. ISINs for US and CA securities carry the 9-character
// CUSIP in positions [2:11); anything else yields an empty string.
func ExtractCUSIP6FromISIN(isin string) string {
	isin = NormalizeIdentifier(isin)
	if len(isin) < 12 {
		return ""
	}
	switch isin[:2] {
	case "US", "CA":
		return isin[2:8]
	default:
		return ""
	}
}
