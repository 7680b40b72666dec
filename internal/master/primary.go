package master

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	apperrors "esgmap/internal/errors"
	"esgmap/pkg/contracts/domain"
)

// PrimarySelector picks exactly one canonical security key per external
// entity key across its full linked history.
type PrimarySelector struct {
	logger *slog.Logger
}

// NewPrimarySelector creates a selector. A nil logger falls back to
// slog.Default.
func NewPrimarySelector(logger *slog.Logger) *PrimarySelector {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrimarySelector{logger: logger}
}

// pairStat accumulates evidence for one (entity key, security key) pair.
type pairStat struct {
	entityKey   string
	securityKey int64
	oneToOne    bool
	hasCommon   bool
	maxPrim     int
	maxType     int
	segmentDays int
}

// Select computes the primary identity table and annotates the resolved
// segments in place with the chosen primary security key. Entities with zero
// linked segments have no primary identity. The uniqueness invariant is
// re-checked post-hoc; a violation is an integrity failure.
func (p *PrimarySelector) Select(ctx context.Context, resolved []domain.ResolvedSegment) ([]domain.PrimaryIdentity, error) {
	// Accumulate per-pair statistics over linked segments only.
	stats := make(map[string]map[int64]*pairStat)
	entityDegree := make(map[string]map[int64]bool)
	securityDegree := make(map[int64]map[string]bool)

	for _, row := range resolved {
		if !row.HasLink() {
			continue
		}

		bySec, ok := stats[row.EntityKey]
		if !ok {
			bySec = make(map[int64]*pairStat)
			stats[row.EntityKey] = bySec
		}
		st, ok := bySec[row.SecurityKey]
		if !ok {
			st = &pairStat{entityKey: row.EntityKey, securityKey: row.SecurityKey}
			bySec[row.SecurityKey] = st
		}

		st.hasCommon = st.hasCommon || row.IsCommon
		if row.PrimScore > st.maxPrim {
			st.maxPrim = row.PrimScore
		}
		if row.TypeRank > st.maxType {
			st.maxType = row.TypeRank
		}
		st.segmentDays += row.Days()

		if entityDegree[row.EntityKey] == nil {
			entityDegree[row.EntityKey] = make(map[int64]bool)
		}
		entityDegree[row.EntityKey][row.SecurityKey] = true
		if securityDegree[row.SecurityKey] == nil {
			securityDegree[row.SecurityKey] = make(map[string]bool)
		}
		securityDegree[row.SecurityKey][row.EntityKey] = true
	}

	// A pair is one-to-one when the security maps to only this entity and
	// the entity maps to only this security across the whole dataset.
	for entityKey, bySec := range stats {
		for securityKey, st := range bySec {
			st.oneToOne = len(entityDegree[entityKey]) == 1 &&
				len(securityDegree[securityKey]) == 1
		}
	}

	primaries := make([]domain.PrimaryIdentity, 0, len(stats))
	for entityKey, bySec := range stats {
		pairs := make([]*pairStat, 0, len(bySec))
		for _, st := range bySec {
			pairs = append(pairs, st)
		}
		sort.Slice(pairs, func(i, j int) bool {
			return pairBetter(pairs[i], pairs[j])
		})
		primaries = append(primaries, domain.PrimaryIdentity{
			EntityKey:   entityKey,
			SecurityKey: pairs[0].securityKey,
		})
	}

	sort.Slice(primaries, func(i, j int) bool {
		return primaries[i].EntityKey < primaries[j].EntityKey
	})

	primaryByEntity := make(map[string]int64, len(primaries))
	for _, pi := range primaries {
		primaryByEntity[pi.EntityKey] = pi.SecurityKey
	}

	for i := range resolved {
		if !resolved[i].HasLink() {
			continue
		}
		primary := primaryByEntity[resolved[i].EntityKey]
		resolved[i].PrimarySecurityKey = primary
		resolved[i].IsPrimary = resolved[i].SecurityKey == primary
	}

	if err := checkPrimaryUniqueness(resolved, primaries); err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "selected primary identities",
		slog.Int("entities", len(primaries)))

	return primaries, nil
}

// pairBetter ranks candidate pairs for one entity: one-to-one relationships
// first, then common share class, link-primary score, link-type rank, total
// covered days, and lowest security key as the deterministic final key.
func pairBetter(a, b *pairStat) bool {
	if a.oneToOne != b.oneToOne {
		return a.oneToOne
	}
	if a.hasCommon != b.hasCommon {
		return a.hasCommon
	}
	if a.maxPrim != b.maxPrim {
		return a.maxPrim > b.maxPrim
	}
	if a.maxType != b.maxType {
		return a.maxType > b.maxType
	}
	if a.segmentDays != b.segmentDays {
		return a.segmentDays > b.segmentDays
	}
	return a.securityKey < b.securityKey
}

// checkPrimaryUniqueness verifies that every linked entity key has exactly
// one primary identity and that no entity carries two distinct security keys
// flagged primary across its segments.
func checkPrimaryUniqueness(resolved []domain.ResolvedSegment, primaries []domain.PrimaryIdentity) error {
	byEntity := make(map[string]int64, len(primaries))
	for _, pi := range primaries {
		if prev, ok := byEntity[pi.EntityKey]; ok && prev != pi.SecurityKey {
			return apperrors.NewIntegrityError(
				fmt.Sprintf("entity %s has two primary identities: %d and %d",
					pi.EntityKey, prev, pi.SecurityKey), nil)
		}
		byEntity[pi.EntityKey] = pi.SecurityKey
	}

	flagged := make(map[string]map[int64]bool)
	for _, row := range resolved {
		if !row.HasLink() {
			if _, ok := byEntity[row.EntityKey]; ok {
				return apperrors.NewIntegrityError(
					fmt.Sprintf("unlinked segment annotated with entity %s", row.EntityKey), nil)
			}
			continue
		}
		if _, ok := byEntity[row.EntityKey]; !ok {
			return apperrors.NewIntegrityError(
				fmt.Sprintf("linked entity %s has no primary identity", row.EntityKey), nil)
		}
		if row.IsPrimary {
			if flagged[row.EntityKey] == nil {
				flagged[row.EntityKey] = make(map[int64]bool)
			}
			flagged[row.EntityKey][row.SecurityKey] = true
			if len(flagged[row.EntityKey]) > 1 {
				return apperrors.NewIntegrityError(
					fmt.Sprintf("entity %s has multiple securities flagged primary", row.EntityKey), nil)
			}
		}
	}

	return nil
}
