package providers

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"regexp"
	"time"

	apperrors "esgmap/internal/errors"
	"esgmap/internal/match"
	"esgmap/pkg/contracts/domain"
)

// exchangeSuffix matches the exchange qualifier FMP appends to non-US
// symbols, e.g. "BMW.F" or "HSBA.L".
var exchangeSuffix = regexp.MustCompile(`\.[A-Z]+$`)

// fmpRecord is one entry of the FMP ESG score dump. Timestamps are unix
// milliseconds.
type fmpRecord struct {
	Symbol        string  `json:"symbol"`
	ISIN          string  `json:"isin"`
	PeriodEndDate int64   `json:"periodEndDate"`
	AcceptedDate  int64   `json:"acceptedDate"`
	Environmental float64 `json:"environmentalScore"`
	Social        float64 `json:"socialScore"`
	Governance    float64 `json:"governanceScore"`
	ESG           float64 `json:"ESGScore"`
}

// FMP reads the Financial Modeling Prep ESG score dump: a JSON array of
// per-period score records keyed by trading symbol.
type FMP struct {
	logger *slog.Logger
}

// NewFMP creates the FMP adapter.
func NewFMP(logger *slog.Logger) *FMP {
	if logger == nil {
		logger = slog.Default()
	}
	return &FMP{logger: logger}
}

// Name returns the provider's registry name.
func (p *FMP) Name() string { return "fmp" }

// Strategies returns the identifier joins in priority order. FMP carries no
// CUSIPs, so the ISIN join leads and the cleaned symbol catches the rest.
func (p *FMP) Strategies() []match.Strategy {
	return []match.Strategy{match.ISINStrategy(), match.TickerStrategy()}
}

// Load reads and normalizes the dump. Entries without a symbol or a period
// end date are skipped with a count; a missing or malformed file is fatal.
func (p *FMP) Load(ctx context.Context, path string) ([]domain.ProviderRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("cannot open fmp file "+path, err)
	}

	var raw []fmpRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.NewParsingError("cannot parse fmp json", err)
	}

	var records []domain.ProviderRecord
	skipped := 0
	for _, entry := range raw {
		symbol := domain.NormalizeIdentifier(entry.Symbol)
		if symbol == "" || entry.PeriodEndDate <= 0 {
			skipped++
			continue
		}
		year := time.UnixMilli(entry.PeriodEndDate).UTC().Year()

		rec := domain.ProviderRecord{
			ProviderEntityID: symbol,
			Year:             year,
			Ticker:           symbol,
			CleanTicker:      exchangeSuffix.ReplaceAllString(symbol, ""),
			ISIN:             domain.NormalizeIdentifier(entry.ISIN),
		}
		rec.ISINCUSIP6 = domain.ExtractCUSIP6FromISIN(rec.ISIN)
		rec.ValidFrom, rec.ValidTo = domain.YearWindow(year)

		records = append(records, rec)
	}

	p.logger.InfoContext(ctx, "fmp data loaded",
		slog.String("path", path),
		slog.Int("records", len(records)),
		slog.Int("skipped_entries", skipped))

	return records, nil
}
