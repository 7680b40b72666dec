package match

import (
	"context"

	"esgmap/pkg/contracts/domain"
)

// Strategy weights. More specific identifiers score higher: a full ISIN
// outranks a bare CUSIP prefix, which outranks a CUSIP prefix recovered from
// an ISIN, which outranks a free-text ticker.
const (
	WeightISIN       = 6
	WeightCUSIP6     = 5
	WeightISINCUSIP6 = 4
	WeightTicker     = 3
)

// Strategy names as reported in match output.
const (
	StrategyNameISIN       = "ISIN"
	StrategyNameCUSIP6     = "CUSIP6"
	StrategyNameISINCUSIP6 = "ISIN_CUSIP6"
	StrategyNameTicker     = "TICKER"
)

// Strategy is one identifier-based join between provider records and the
// security master. Strategies run in declared order; each sees only records
// left unmatched by earlier strategies. Key functions return "" when the row
// does not carry the identifier.
type Strategy struct {
	Name       string
	Weight     int
	RecordKey  func(domain.ProviderRecord) string
	SegmentKey func(domain.ResolvedSegment) string
}

// Provider adapts one external data source to the match engine: it loads and
// normalizes the provider's records and declares the identifier strategies
// to try, in priority order.
type Provider interface {
	Name() string
	Load(ctx context.Context, path string) ([]domain.ProviderRecord, error)
	Strategies() []Strategy
}

func segmentCUSIP6(seg domain.ResolvedSegment) string { return seg.CUSIP6 }
func segmentTicker(seg domain.ResolvedSegment) string { return seg.Ticker }

// CUSIP6Strategy joins the provider's CUSIP prefix against segment CUSIP6.
func CUSIP6Strategy() Strategy {
	return Strategy{
		Name:       StrategyNameCUSIP6,
		Weight:     WeightCUSIP6,
		RecordKey:  func(r domain.ProviderRecord) string { return r.CUSIP6 },
		SegmentKey: segmentCUSIP6,
	}
}

// ISINCUSIP6Strategy joins the CUSIP prefix recovered from a North American
// ISIN against segment CUSIP6.
func ISINCUSIP6Strategy() Strategy {
	return Strategy{
		Name:       StrategyNameISINCUSIP6,
		Weight:     WeightISINCUSIP6,
		RecordKey:  func(r domain.ProviderRecord) string { return r.ISINCUSIP6 },
		SegmentKey: segmentCUSIP6,
	}
}

// ISINStrategy joins via the ISIN-embedded CUSIP prefix but carries the full
// ISIN weight; used by providers whose only structured identifier is an ISIN.
func ISINStrategy() Strategy {
	return Strategy{
		Name:       StrategyNameISIN,
		Weight:     WeightISIN,
		RecordKey:  func(r domain.ProviderRecord) string { return r.ISINCUSIP6 },
		SegmentKey: segmentCUSIP6,
	}
}

// TickerStrategy joins the provider's cleaned ticker against segment tickers.
func TickerStrategy() Strategy {
	return Strategy{
		Name:   StrategyNameTicker,
		Weight: WeightTicker,
		RecordKey: func(r domain.ProviderRecord) string {
			if r.CleanTicker != "" {
				return r.CleanTicker
			}
			return r.Ticker
		},
		SegmentKey: segmentTicker,
	}
}
