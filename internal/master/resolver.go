package master

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	apperrors "esgmap/internal/errors"
	"esgmap/internal/interval"
	"esgmap/pkg/contracts/domain"
)

// Resolver merges identity segments with ownership links and keeps exactly
// the top-ranked overlapping link per segment.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil logger falls back to slog.Default.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

// ResolveStats summarizes one resolution pass.
type ResolveStats struct {
	Segments          int
	DuplicateSegments int
	Matched           int
	Unmatched         int
}

// segmentKey identifies one (security key, time window) segment.
type segmentKey struct {
	securityKey int64
	validFrom   time.Time
	validTo     time.Time
}

// Resolve produces the resolved-segment set. Every input segment appears
// exactly once in the output, matched or not; exact duplicate windows in the
// input are collapsed first and counted. The completeness invariant is
// re-checked post-hoc and violations abort the run.
func (r *Resolver) Resolve(ctx context.Context, segments []domain.Segment, links []domain.Link) ([]domain.ResolvedSegment, ResolveStats, error) {
	stats := ResolveStats{}

	// Collapse exact duplicate windows; the raw source contract is one row
	// per (security key, window).
	seen := make(map[segmentKey]bool, len(segments))
	unique := make([]domain.Segment, 0, len(segments))
	for _, seg := range segments {
		key := segmentKey{seg.SecurityKey, seg.ValidFrom, seg.ValidTo}
		if seen[key] {
			stats.DuplicateSegments++
			continue
		}
		seen[key] = true
		unique = append(unique, seg)
	}
	stats.Segments = len(unique)

	if stats.DuplicateSegments > 0 {
		r.logger.WarnContext(ctx, "collapsed duplicate segment windows",
			slog.Int("duplicates", stats.DuplicateSegments))
	}

	// Deterministic output order regardless of input order.
	sort.Slice(unique, func(i, j int) bool {
		if unique[i].SecurityKey != unique[j].SecurityKey {
			return unique[i].SecurityKey < unique[j].SecurityKey
		}
		return unique[i].ValidFrom.Before(unique[j].ValidFrom)
	})

	linksBySecurity := make(map[int64][]domain.Link, len(links))
	for _, link := range links {
		linksBySecurity[link.SecurityKey] = append(linksBySecurity[link.SecurityKey], link)
	}

	resolved := make([]domain.ResolvedSegment, 0, len(unique))
	for _, seg := range unique {
		best, found := bestLink(seg, linksBySecurity[seg.SecurityKey])

		row := domain.ResolvedSegment{Segment: seg}
		if found {
			row.EntityKey = best.EntityKey
			row.LinkFrom = best.ValidFrom
			row.LinkTo = best.ValidTo
			row.LinkCUSIP = best.CUSIP
			row.LinkCUSIP6 = best.CUSIP6
			row.LinkPrim = best.LinkPrim
			row.LinkType = best.LinkType
			row.PrimScore = best.PrimScore
			row.TypeRank = best.TypeRank
			row.OverlapDays = interval.OverlapDays(seg.ValidFrom, seg.ValidTo, best.ValidFrom, best.ValidTo)
			row.CUSIP6Match = cusip6Match(seg, best)
			stats.Matched++
		} else {
			stats.Unmatched++
		}
		resolved = append(resolved, row)
	}

	if err := checkCompleteness(unique, resolved); err != nil {
		return nil, stats, err
	}

	r.logger.InfoContext(ctx, "resolved segment links",
		slog.Int("segments", stats.Segments),
		slog.Int("matched", stats.Matched),
		slog.Int("unmatched", stats.Unmatched))

	return resolved, stats, nil
}

// bestLink returns the top-ranked overlapping candidate for a segment.
// Ranking order: link-primary score, link-type rank, CUSIP6 match, overlap
// days, then earliest link start and lowest entity key as deterministic
// final tie-breaks.
func bestLink(seg domain.Segment, candidates []domain.Link) (domain.Link, bool) {
	var best domain.Link
	var bestMatch, found = false, false
	var bestOverlap int

	for _, link := range candidates {
		if !interval.Overlaps(seg.ValidFrom, seg.ValidTo, link.ValidFrom, link.ValidTo) {
			continue
		}
		overlap := interval.OverlapDays(seg.ValidFrom, seg.ValidTo, link.ValidFrom, link.ValidTo)
		match := cusip6Match(seg, link)

		if !found || linkBetter(link, overlap, match, best, bestOverlap, bestMatch) {
			best, bestOverlap, bestMatch, found = link, overlap, match, true
		}
	}

	return best, found
}

// linkBetter reports whether candidate a outranks the current best b.
func linkBetter(a domain.Link, aOverlap int, aMatch bool, b domain.Link, bOverlap int, bMatch bool) bool {
	if a.PrimScore != b.PrimScore {
		return a.PrimScore > b.PrimScore
	}
	if a.TypeRank != b.TypeRank {
		return a.TypeRank > b.TypeRank
	}
	if aMatch != bMatch {
		return aMatch
	}
	if aOverlap != bOverlap {
		return aOverlap > bOverlap
	}
	if !a.ValidFrom.Equal(b.ValidFrom) {
		return a.ValidFrom.Before(b.ValidFrom)
	}
	return a.EntityKey < b.EntityKey
}

// cusip6Match reports whether both sides carry a CUSIP6 prefix and agree.
func cusip6Match(seg domain.Segment, link domain.Link) bool {
	return seg.CUSIP6 != "" && link.CUSIP6 != "" && seg.CUSIP6 == link.CUSIP6
}

// checkCompleteness verifies the defining correctness property: exactly one
// output row per input segment. A violation signals a bug in the resolver,
// not bad data, and is surfaced as an integrity error.
func checkCompleteness(segments []domain.Segment, resolved []domain.ResolvedSegment) error {
	if len(resolved) != len(segments) {
		return apperrors.NewIntegrityError(
			fmt.Sprintf("resolved %d rows for %d segments", len(resolved), len(segments)), nil)
	}

	seen := make(map[segmentKey]int, len(resolved))
	for _, row := range resolved {
		seen[segmentKey{row.SecurityKey, row.ValidFrom, row.ValidTo}]++
	}
	for key, n := range seen {
		if n > 1 {
			return apperrors.NewIntegrityError(
				fmt.Sprintf("segment %d [%s, %s) resolved %d times",
					key.securityKey,
					key.validFrom.Format("2006-01-02"),
					key.validTo.Format("2006-01-02"), n), nil)
		}
	}

	return nil
}
