package exporter

import (
	"log/slog"
	"sort"

	"esgmap/pkg/contracts/domain"
)

// MasterExporter writes the security-master output tables.
type MasterExporter struct {
	csvWriter *CSVWriter
}

// NewMasterExporter creates a master exporter.
func NewMasterExporter(logger *slog.Logger) *MasterExporter {
	return &MasterExporter{csvWriter: NewCSVWriter(logger)}
}

var segmentHeaders = []string{
	"security_key", "group_key", "valid_from", "valid_to",
	"name", "ticker", "trading_symbol", "share_class", "share_code", "is_common",
	"exchange_code", "exchange", "cusip", "cusip6",
	"entity_key", "link_from", "link_to", "link_prim", "link_type",
	"prim_score", "type_rank", "overlap_days", "cusip6_match",
	"primary_security_key", "is_primary",
}

// WriteSegments writes the resolved segment table, sorted by security key
// and segment start.
func (e *MasterExporter) WriteSegments(path string, segments []domain.ResolvedSegment) error {
	sorted := append([]domain.ResolvedSegment(nil), segments...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SecurityKey != sorted[j].SecurityKey {
			return sorted[i].SecurityKey < sorted[j].SecurityKey
		}
		return sorted[i].ValidFrom.Before(sorted[j].ValidFrom)
	})

	records := make([][]string, 0, len(sorted))
	for _, seg := range sorted {
		records = append(records, []string{
			formatInt64(seg.SecurityKey),
			formatKey(seg.GroupKey),
			formatDate(seg.ValidFrom),
			formatDate(seg.ValidTo),
			seg.Name,
			seg.Ticker,
			seg.TradingSym,
			seg.ShareClass,
			formatInt(seg.ShareCode),
			formatBool(seg.IsCommon),
			formatInt(seg.ExchangeCode),
			seg.Exchange,
			seg.CUSIP,
			seg.CUSIP6,
			seg.EntityKey,
			formatDate(seg.LinkFrom),
			formatDate(seg.LinkTo),
			seg.LinkPrim,
			seg.LinkType,
			formatInt(seg.PrimScore),
			formatInt(seg.TypeRank),
			formatInt(seg.OverlapDays),
			formatBool(seg.CUSIP6Match),
			formatKey(seg.PrimarySecurityKey),
			formatBool(seg.IsPrimary),
		})
	}

	return e.csvWriter.WriteSimpleCSV(path, segmentHeaders, records)
}

// WritePrimaries writes the entity-to-primary-security table, sorted by
// entity key.
func (e *MasterExporter) WritePrimaries(path string, primaries []domain.PrimaryIdentity) error {
	sorted := append([]domain.PrimaryIdentity(nil), primaries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EntityKey < sorted[j].EntityKey
	})

	records := make([][]string, 0, len(sorted))
	for _, p := range sorted {
		records = append(records, []string{p.EntityKey, formatInt64(p.SecurityKey)})
	}

	return e.csvWriter.WriteSimpleCSV(path, []string{"entity_key", "security_key"}, records)
}
