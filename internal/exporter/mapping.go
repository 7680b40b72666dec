package exporter

import (
	"log/slog"
	"sort"

	"esgmap/pkg/contracts/domain"
)

// MappingExporter writes the per-provider mapping output tables.
type MappingExporter struct {
	csvWriter *CSVWriter
}

// NewMappingExporter creates a mapping exporter.
func NewMappingExporter(logger *slog.Logger) *MappingExporter {
	return &MappingExporter{csvWriter: NewCSVWriter(logger)}
}

var matchHeaders = []string{
	"provider_entity_id", "year", "company_name",
	"strategy", "score",
	"score_strategy", "score_common_share", "score_primary_listing",
	"score_exchange", "score_overlap", "score_link_prim", "score_link_type",
	"overlap_days",
	"security_key", "entity_key", "primary_security_key",
	"is_primary", "is_common", "exchange_code", "exchange", "ticker", "cusip6",
	"segment_from", "segment_to",
}

// WriteMatches writes one provider's match table, sorted by provider entity
// id and year. The score breakdown is written column by column so a reviewer
// can audit each criterion without recomputing it.
func (e *MappingExporter) WriteMatches(path string, matches []domain.Match) error {
	sorted := append([]domain.Match(nil), matches...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ProviderEntityID != sorted[j].ProviderEntityID {
			return sorted[i].ProviderEntityID < sorted[j].ProviderEntityID
		}
		return sorted[i].Year < sorted[j].Year
	})

	records := make([][]string, 0, len(sorted))
	for _, m := range sorted {
		records = append(records, []string{
			m.ProviderEntityID,
			formatInt(m.Year),
			m.CompanyName,
			m.Strategy,
			formatInt(m.Score),
			formatInt(m.Breakdown.Strategy),
			formatInt(m.Breakdown.CommonShare),
			formatInt(m.Breakdown.PrimaryListing),
			formatInt(m.Breakdown.Exchange),
			formatInt(m.Breakdown.Overlap),
			formatInt(m.Breakdown.LinkPrim),
			formatInt(m.Breakdown.LinkType),
			formatInt(m.OverlapDays),
			formatInt64(m.SecurityKey),
			m.EntityKey,
			formatKey(m.PrimarySecurityKey),
			formatBool(m.IsPrimary),
			formatBool(m.IsCommon),
			formatInt(m.ExchangeCode),
			m.Exchange,
			m.Ticker,
			m.CUSIP6,
			formatDate(m.SegmentFrom),
			formatDate(m.SegmentTo),
		})
	}

	return e.csvWriter.WriteSimpleCSV(path, matchHeaders, records)
}

var crosswalkHeaders = []string{
	"provider_entity_id", "entity_key", "primary_security_key",
	"total_score", "periods_covered", "max_overlap_days",
	"first_period", "last_period",
}

// WriteCrosswalk writes one provider's entity crosswalk table.
func (e *MappingExporter) WriteCrosswalk(path string, entries []domain.CrosswalkEntry) error {
	records := make([][]string, 0, len(entries))
	for _, entry := range entries {
		records = append(records, []string{
			entry.ProviderEntityID,
			entry.EntityKey,
			formatKey(entry.PrimarySecurityKey),
			formatInt(entry.TotalScore),
			formatInt(entry.PeriodsCovered),
			formatInt(entry.MaxOverlapDays),
			formatInt(entry.FirstPeriod),
			formatInt(entry.LastPeriod),
		})
	}

	return e.csvWriter.WriteSimpleCSV(path, crosswalkHeaders, records)
}

var unmatchedHeaders = []string{
	"provider_entity_id", "year", "company_name",
	"ticker", "clean_ticker", "cusip", "cusip6", "isin", "isin_cusip6", "sedol",
}

// WriteUnmatched writes one provider's unmatched records, sorted by provider
// entity id and year, keeping the identifiers a reviewer needs to chase a
// missing match.
func (e *MappingExporter) WriteUnmatched(path string, records []domain.ProviderRecord) error {
	sorted := append([]domain.ProviderRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ProviderEntityID != sorted[j].ProviderEntityID {
			return sorted[i].ProviderEntityID < sorted[j].ProviderEntityID
		}
		return sorted[i].Year < sorted[j].Year
	})

	rows := make([][]string, 0, len(sorted))
	for _, rec := range sorted {
		rows = append(rows, []string{
			rec.ProviderEntityID,
			formatInt(rec.Year),
			rec.CompanyName,
			rec.Ticker,
			rec.CleanTicker,
			rec.CUSIP,
			rec.CUSIP6,
			rec.ISIN,
			rec.ISINCUSIP6,
			rec.SEDOL,
		})
	}

	return e.csvWriter.WriteSimpleCSV(path, unmatchedHeaders, rows)
}
