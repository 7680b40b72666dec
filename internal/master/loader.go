package master

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "esgmap/internal/errors"
	"esgmap/pkg/contracts/domain"
)

// Sentinels stand in for open-ended or missing window bounds so that the
// interval arithmetic never sees a null date.
type Sentinels struct {
	FarFuture time.Time
	EarlyPast time.Time
}

// LinkLoadStats reports what the link loader had to drop.
type LinkLoadStats struct {
	Rows              int
	Loaded            int
	DroppedEntityKeys int
	SkippedRows       int
}

// Share codes that mark a common/primary share class.
var commonShareCodes = map[int]bool{10: true, 11: true}

// ExchangeLabel maps a raw exchange code to its listing venue label.
func ExchangeLabel(code int) string {
	switch code {
	case 1:
		return "NYSE"
	case 2:
		return "AMEX"
	case 3:
		return "NASDAQ"
	default:
		return ""
	}
}

// LoadSegments reads the raw identity-segment file. Rows with an unusable
// security key or start date are logged and skipped; a missing or unreadable
// file is fatal for the run.
func LoadSegments(ctx context.Context, path string, s Sentinels, logger *slog.Logger) ([]domain.Segment, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	col := newColumnIndex(header)
	segments := make([]domain.Segment, 0, len(rows))
	skipped := 0

	for i, row := range rows {
		securityKey, err := parseInt64(col.value(row, "permno", "security_key"))
		if err != nil || securityKey <= 0 {
			skipped++
			logger.Warn("skipping segment row without security key",
				slog.Int("line", i+2))
			continue
		}

		validFrom, err := parseDate(col.value(row, "namedt", "date", "valid_from"))
		if err != nil {
			skipped++
			logger.Warn("skipping segment row with unparseable start date",
				slog.Int("line", i+2),
				slog.Int64("security_key", securityKey),
				slog.String("error", err.Error()))
			continue
		}

		validTo, err := parseDate(col.value(row, "nameendt", "valid_to"))
		if err != nil {
			// Blank or "E" end dates mean the segment is still open.
			validTo = s.FarFuture
		}

		groupKey, _ := parseInt64(col.value(row, "permco", "group_key"))
		shareCode, _ := strconv.Atoi(strings.TrimSpace(col.value(row, "shrcd", "share_code")))
		exchangeCode, _ := strconv.Atoi(strings.TrimSpace(col.value(row, "exchcd", "exchange_code")))

		cusip := domain.NormalizeIdentifier(col.value(row, "ncusip", "cusip"))

		segments = append(segments, domain.Segment{
			SecurityKey:  securityKey,
			GroupKey:     groupKey,
			ValidFrom:    validFrom,
			ValidTo:      validTo,
			Name:         domain.NormalizeIdentifier(col.value(row, "comnam", "name")),
			Ticker:       domain.NormalizeIdentifier(col.value(row, "ticker")),
			TradingSym:   domain.NormalizeIdentifier(col.value(row, "tsymbol", "trading_symbol")),
			ShareClass:   domain.NormalizeIdentifier(col.value(row, "shrcls", "share_class")),
			ShareCode:    shareCode,
			IsCommon:     commonShareCodes[shareCode],
			ExchangeCode: exchangeCode,
			Exchange:     ExchangeLabel(exchangeCode),
			CUSIP:        cusip,
			CUSIP6:       cusipPrefix(cusip),
		})
	}

	logger.InfoContext(ctx, "loaded identity segments",
		slog.String("path", path),
		slog.Int("rows", len(rows)),
		slog.Int("loaded", len(segments)),
		slog.Int("skipped", skipped))

	return segments, nil
}

// LoadLinks reads the raw ownership-link file. Entity keys that fail
// normalization are dropped and counted; rows without a security key or with
// no parseable window at all are skipped.
func LoadLinks(ctx context.Context, path string, s Sentinels, logger *slog.Logger) ([]domain.Link, LinkLoadStats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rows, header, err := readCSV(path)
	if err != nil {
		return nil, LinkLoadStats{}, err
	}

	col := newColumnIndex(header)
	links := make([]domain.Link, 0, len(rows))
	stats := LinkLoadStats{Rows: len(rows)}

	for i, row := range rows {
		securityKey, err := parseInt64(col.value(row, "lpermno", "permno", "security_key"))
		if err != nil || securityKey <= 0 {
			stats.SkippedRows++
			logger.Warn("skipping link row without security key",
				slog.Int("line", i+2))
			continue
		}

		entityKey, err := domain.NormalizeEntityKey(col.value(row, "gvkey", "entity_key"))
		if err != nil {
			stats.DroppedEntityKeys++
			continue
		}

		validFrom, err := parseDate(col.value(row, "linkdt", "valid_from"))
		if err != nil {
			validFrom = s.EarlyPast
		}
		validTo, err := parseDate(col.value(row, "linkenddt", "valid_to"))
		if err != nil {
			validTo = s.FarFuture
		}

		groupKey, _ := parseInt64(col.value(row, "lpermco", "permco", "group_key"))
		linkPrim := domain.NormalizeIdentifier(col.value(row, "linkprim", "link_prim"))
		linkType := domain.NormalizeIdentifier(col.value(row, "linktype", "link_type"))
		cusip := domain.NormalizeIdentifier(col.value(row, "cusip"))

		links = append(links, domain.Link{
			SecurityKey: securityKey,
			GroupKey:    groupKey,
			EntityKey:   entityKey,
			ValidFrom:   validFrom,
			ValidTo:     validTo,
			CUSIP:       cusip,
			CUSIP6:      cusipPrefix(cusip),
			LinkPrim:    linkPrim,
			LinkType:    linkType,
			PrimScore:   domain.ScorePrim(linkPrim),
			TypeRank:    domain.RankType(linkType),
		})
	}

	stats.Loaded = len(links)

	logger.InfoContext(ctx, "loaded ownership links",
		slog.String("path", path),
		slog.Int("rows", stats.Rows),
		slog.Int("loaded", stats.Loaded),
		slog.Int("dropped_entity_keys", stats.DroppedEntityKeys),
		slog.Int("skipped", stats.SkippedRows))

	return links, stats, nil
}

// readCSV reads a whole CSV file and returns its data rows and lower-cased
// header. The file being absent or unreadable is a storage error.
func readCSV(path string) ([][]string, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, apperrors.NewStorageError(
			fmt.Sprintf("open raw source %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, apperrors.NewParsingError(
			fmt.Sprintf("read header of %s", path), err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, apperrors.NewParsingError(
				fmt.Sprintf("read rows of %s", path), err)
		}
		rows = append(rows, row)
	}

	return rows, header, nil
}

// columnIndex maps lower-cased header names to positions.
type columnIndex map[string]int

func newColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

// value returns the cell under the first matching column alias, or "".
func (c columnIndex) value(row []string, aliases ...string) string {
	for _, name := range aliases {
		if i, ok := c[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
	}
	return ""
}

// dateFormats accepted in raw sources, tried in order.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"20060102",
	"2006-01-02 15:04:05",
}

// parseDate parses a raw date cell. Blank cells and the open-ended marker
// "E" are reported as errors so callers can substitute a sentinel.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "E") {
		return time.Time{}, fmt.Errorf("no date value")
	}
	for _, format := range dateFormats {
		if d, err := time.Parse(format, raw); err == nil {
			return d.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", raw)
}

// parseInt64 parses an integer id, tolerating a float-formatted export
// such as "12345.0".
func parseInt64(raw string) (int64, error) {
	raw = strings.TrimSpace(strings.TrimSuffix(raw, ".0"))
	if raw == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// cusipPrefix returns the 6-character issuer prefix of a CUSIP, or "".
func cusipPrefix(cusip string) string {
	if len(cusip) < 6 {
		return ""
	}
	return cusip[:6]
}
