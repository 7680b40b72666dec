package master

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"esgmap/pkg/contracts/domain"
)

// LoadResolvedSegments reads a previously exported security-master segment
// table back into memory. This is the handoff between the master build and
// the mapping runs: the mappers consume the resolved table, never the raw
// sources. Column names here mirror the exporter's header row.
func LoadResolvedSegments(ctx context.Context, path string, logger *slog.Logger) ([]domain.ResolvedSegment, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	col := newColumnIndex(header)
	resolved := make([]domain.ResolvedSegment, 0, len(rows))
	skipped := 0

	for i, row := range rows {
		securityKey, err := parseInt64(col.value(row, "security_key"))
		if err != nil || securityKey <= 0 {
			skipped++
			logger.Warn("skipping resolved row without security key", slog.Int("line", i+2))
			continue
		}
		validFrom, err := parseDate(col.value(row, "valid_from"))
		if err != nil {
			skipped++
			logger.Warn("skipping resolved row with unparseable start date",
				slog.Int("line", i+2), slog.Int64("security_key", securityKey))
			continue
		}
		validTo, err := parseDate(col.value(row, "valid_to"))
		if err != nil {
			skipped++
			logger.Warn("skipping resolved row with unparseable end date",
				slog.Int("line", i+2), slog.Int64("security_key", securityKey))
			continue
		}

		var seg domain.ResolvedSegment
		seg.SecurityKey = securityKey
		seg.GroupKey, _ = parseInt64(col.value(row, "group_key"))
		seg.ValidFrom = validFrom
		seg.ValidTo = validTo
		seg.Name = col.value(row, "name")
		seg.Ticker = col.value(row, "ticker")
		seg.TradingSym = col.value(row, "trading_symbol")
		seg.ShareClass = col.value(row, "share_class")
		seg.ShareCode, _ = strconv.Atoi(col.value(row, "share_code"))
		seg.IsCommon = parseBool(col.value(row, "is_common"))
		seg.ExchangeCode, _ = strconv.Atoi(col.value(row, "exchange_code"))
		seg.Exchange = col.value(row, "exchange")
		seg.CUSIP = col.value(row, "cusip")
		seg.CUSIP6 = col.value(row, "cusip6")

		seg.EntityKey = col.value(row, "entity_key")
		if from, err := parseDate(col.value(row, "link_from")); err == nil {
			seg.LinkFrom = from
		}
		if to, err := parseDate(col.value(row, "link_to")); err == nil {
			seg.LinkTo = to
		}
		seg.LinkPrim = col.value(row, "link_prim")
		seg.LinkType = col.value(row, "link_type")
		seg.PrimScore, _ = strconv.Atoi(col.value(row, "prim_score"))
		seg.TypeRank, _ = strconv.Atoi(col.value(row, "type_rank"))
		seg.OverlapDays, _ = strconv.Atoi(col.value(row, "overlap_days"))
		seg.CUSIP6Match = parseBool(col.value(row, "cusip6_match"))
		seg.PrimarySecurityKey, _ = parseInt64(col.value(row, "primary_security_key"))
		seg.IsPrimary = parseBool(col.value(row, "is_primary"))

		resolved = append(resolved, seg)
	}

	logger.InfoContext(ctx, "loaded resolved security master",
		slog.String("path", path),
		slog.Int("rows", len(rows)),
		slog.Int("loaded", len(resolved)),
		slog.Int("skipped", skipped))

	return resolved, nil
}

func parseBool(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}
