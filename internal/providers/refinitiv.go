package providers

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	apperrors "esgmap/internal/errors"
	"esgmap/internal/match"
	"esgmap/pkg/contracts/domain"
)

// Refinitiv reads the Refinitiv ESG observation extract: one CSV with one
// row per (OrgPermID, year).
type Refinitiv struct {
	logger *slog.Logger
}

// NewRefinitiv creates the Refinitiv adapter.
func NewRefinitiv(logger *slog.Logger) *Refinitiv {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refinitiv{logger: logger}
}

// Name returns the provider's registry name.
func (p *Refinitiv) Name() string { return "refinitiv" }

// Strategies returns the identifier joins in priority order. Refinitiv
// publishes full CUSIPs, so the direct prefix join runs before the
// ISIN-derived one.
func (p *Refinitiv) Strategies() []match.Strategy {
	return []match.Strategy{match.CUSIP6Strategy(), match.ISINCUSIP6Strategy()}
}

// Load reads and normalizes the extract. Rows without an OrgPermID or a
// parseable year are skipped with a count; a missing file is fatal.
func (p *Refinitiv) Load(ctx context.Context, path string) ([]domain.ProviderRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("cannot open refinitiv file "+path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError("cannot read refinitiv header", err)
	}
	cols := newHeaderIndex(header)

	var records []domain.ProviderRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		id := domain.NormalizeIdentifier(cols.value(row, "orgpermid"))
		year, yearErr := strconv.Atoi(strings.TrimSpace(cols.value(row, "year")))
		if id == "" || yearErr != nil || year <= 0 {
			skipped++
			continue
		}

		rec := domain.ProviderRecord{
			ProviderEntityID: id,
			Year:             year,
			CompanyName:      strings.TrimSpace(cols.value(row, "comname")),
			Ticker:           domain.NormalizeIdentifier(cols.value(row, "ticker")),
			CUSIP:            domain.NormalizeIdentifier(cols.value(row, "cusip")),
			ISIN:             domain.NormalizeIdentifier(cols.value(row, "isin")),
			SEDOL:            domain.NormalizeIdentifier(cols.value(row, "sedol")),
		}
		rec.CUSIP6 = cusipPrefix(rec.CUSIP)
		rec.ISINCUSIP6 = domain.ExtractCUSIP6FromISIN(rec.ISIN)
		rec.ValidFrom, rec.ValidTo = domain.YearWindow(year)

		records = append(records, rec)
	}

	p.logger.InfoContext(ctx, "refinitiv data loaded",
		slog.String("path", path),
		slog.Int("records", len(records)),
		slog.Int("skipped_rows", skipped))

	return records, nil
}

// headerIndex maps lowercased trimmed column names to positions.
type headerIndex map[string]int

func newHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

func (h headerIndex) value(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func cusipPrefix(cusip string) string {
	if len(cusip) < 6 {
		return ""
	}
	return cusip[:6]
}
