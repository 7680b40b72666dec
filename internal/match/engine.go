package match

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	apperrors "esgmap/internal/errors"
	"esgmap/internal/interval"
	"esgmap/pkg/contracts/domain"
)

// Engine matches provider records against the security master using each
// provider's prioritized identifier strategies.
type Engine struct {
	score  ScoreConfig
	logger *slog.Logger
}

// NewEngine creates a match engine. A nil logger falls back to slog.Default.
func NewEngine(score ScoreConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{score: score, logger: logger}
}

// Result carries one provider's complete match run.
type Result struct {
	Matches   []domain.Match
	Unmatched []domain.ProviderRecord
	Coverage  domain.Coverage
}

// Match resolves a batch of provider records. Records are deduplicated to one
// per (provider entity id, year) first; every surviving record ends up either
// in Matches or in Unmatched, never both, never dropped. The cardinality
// invariant is re-checked post-hoc and violations abort the run.
func (e *Engine) Match(ctx context.Context, providerName string, records []domain.ProviderRecord, master []domain.ResolvedSegment, strategies []Strategy) (Result, error) {
	records = dedupeRecords(records)

	matched := make(map[domain.RecordKey]domain.Match, len(records))
	coverage := domain.Coverage{Provider: providerName, Total: len(records)}

	for _, strategy := range strategies {
		index := indexSegments(master, strategy)
		matchedBefore := len(matched)

		for _, rec := range records {
			if _, done := matched[rec.Key()]; done {
				continue
			}
			key := domain.NormalizeIdentifier(strategy.RecordKey(rec))
			if key == "" {
				continue
			}

			best, found := e.bestCandidate(rec, index[key], master, strategy)
			if found {
				matched[rec.Key()] = best
			}
		}

		coverage.ByStrategy = append(coverage.ByStrategy, domain.StrategyCount{
			Strategy: strategy.Name,
			Matched:  len(matched) - matchedBefore,
		})
	}

	result := Result{}
	for _, rec := range records {
		if m, ok := matched[rec.Key()]; ok {
			result.Matches = append(result.Matches, m)
		} else {
			result.Unmatched = append(result.Unmatched, rec)
		}
	}
	coverage.Matched = len(result.Matches)
	coverage.Unmatched = len(result.Unmatched)
	result.Coverage = coverage

	if err := checkCardinality(records, result); err != nil {
		return Result{}, err
	}

	e.logger.InfoContext(ctx, "match run complete",
		slog.String("provider", providerName),
		slog.Int("total", coverage.Total),
		slog.Int("matched", coverage.Matched),
		slog.Int("unmatched", coverage.Unmatched),
		slog.String("match_rate", fmt.Sprintf("%.1f%%", coverage.Rate())))
	for _, sc := range coverage.ByStrategy {
		e.logger.InfoContext(ctx, "strategy coverage",
			slog.String("provider", providerName),
			slog.String("strategy", sc.Strategy),
			slog.Int("matched", sc.Matched))
	}

	return result, nil
}

// bestCandidate scores all overlapping candidate segments for one record and
// returns the winner. Ties break by overlap days, common share class,
// primary listing, earliest segment start, then lowest security key.
func (e *Engine) bestCandidate(rec domain.ProviderRecord, candidates []int, master []domain.ResolvedSegment, strategy Strategy) (domain.Match, bool) {
	var best domain.Match
	found := false

	for _, i := range candidates {
		seg := master[i]
		if !interval.Overlaps(rec.ValidFrom, rec.ValidTo, seg.ValidFrom, seg.ValidTo) {
			continue
		}
		overlap := interval.OverlapDays(rec.ValidFrom, rec.ValidTo, seg.ValidFrom, seg.ValidTo)
		if overlap <= 0 {
			continue
		}

		breakdown := e.score.Score(strategy.Weight, seg, overlap)
		candidate := domain.Match{
			ProviderEntityID:   rec.ProviderEntityID,
			Year:               rec.Year,
			CompanyName:        rec.CompanyName,
			Strategy:           strategy.Name,
			Score:              breakdown.Total(),
			Breakdown:          breakdown,
			OverlapDays:        overlap,
			SecurityKey:        seg.SecurityKey,
			EntityKey:          seg.EntityKey,
			PrimarySecurityKey: seg.PrimarySecurityKey,
			IsPrimary:          seg.IsPrimary,
			IsCommon:           seg.IsCommon,
			ExchangeCode:       seg.ExchangeCode,
			Exchange:           seg.Exchange,
			Ticker:             seg.Ticker,
			CUSIP6:             seg.CUSIP6,
			SegmentFrom:        seg.ValidFrom,
			SegmentTo:          seg.ValidTo,
		}

		if !found || matchBetter(candidate, best) {
			best, found = candidate, true
		}
	}

	return best, found
}

// matchBetter reports whether candidate a outranks the current best b.
func matchBetter(a, b domain.Match) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.OverlapDays != b.OverlapDays {
		return a.OverlapDays > b.OverlapDays
	}
	if a.IsCommon != b.IsCommon {
		return a.IsCommon
	}
	if a.IsPrimary != b.IsPrimary {
		return a.IsPrimary
	}
	if !a.SegmentFrom.Equal(b.SegmentFrom) {
		return a.SegmentFrom.Before(b.SegmentFrom)
	}
	return a.SecurityKey < b.SecurityKey
}

// dedupeRecords keeps one record per (provider entity id, year) and sorts
// the batch so the engine's output order is independent of input order.
// Records without an entity id or year cannot be matched and are dropped
// here rather than carried as permanently unmatched noise.
//
// Providers contract to emit at most one record per key. If an input
// violates that with conflicting payloads under one key, the stable sort
// keeps the first row in input order, so the surviving payload follows the
// input ordering; the determinism guarantee covers the selection among
// candidate segments, not which contract-violating duplicate survives.
func dedupeRecords(records []domain.ProviderRecord) []domain.ProviderRecord {
	sorted := make([]domain.ProviderRecord, 0, len(records))
	for _, rec := range records {
		if !rec.IsValid() {
			continue
		}
		if rec.ValidFrom.IsZero() || rec.ValidTo.IsZero() {
			rec.ValidFrom, rec.ValidTo = domain.YearWindow(rec.Year)
		}
		sorted = append(sorted, rec)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ProviderEntityID != sorted[j].ProviderEntityID {
			return sorted[i].ProviderEntityID < sorted[j].ProviderEntityID
		}
		return sorted[i].Year < sorted[j].Year
	})

	deduped := sorted[:0]
	var prev domain.RecordKey
	for i, rec := range sorted {
		if i > 0 && rec.Key() == prev {
			continue
		}
		deduped = append(deduped, rec)
		prev = rec.Key()
	}

	return deduped
}

// indexSegments builds an identifier -> segment-index lookup for a strategy.
func indexSegments(master []domain.ResolvedSegment, strategy Strategy) map[string][]int {
	index := make(map[string][]int)
	for i, seg := range master {
		key := domain.NormalizeIdentifier(strategy.SegmentKey(seg))
		if key == "" {
			continue
		}
		index[key] = append(index[key], i)
	}
	return index
}

// checkCardinality verifies that every deduplicated record ends up exactly
// once in either the match set or the unmatched set.
func checkCardinality(records []domain.ProviderRecord, result Result) error {
	if len(result.Matches)+len(result.Unmatched) != len(records) {
		return apperrors.NewIntegrityError(
			fmt.Sprintf("match run produced %d matches and %d unmatched for %d records",
				len(result.Matches), len(result.Unmatched), len(records)), nil)
	}

	seen := make(map[domain.RecordKey]bool, len(records))
	for _, m := range result.Matches {
		if seen[m.Key()] {
			return apperrors.NewIntegrityError(
				fmt.Sprintf("record %s/%d matched more than once", m.ProviderEntityID, m.Year), nil)
		}
		seen[m.Key()] = true
	}
	for _, rec := range result.Unmatched {
		if seen[rec.Key()] {
			return apperrors.NewIntegrityError(
				fmt.Sprintf("record %s/%d is both matched and unmatched", rec.ProviderEntityID, rec.Year), nil)
		}
		seen[rec.Key()] = true
	}

	return nil
}
