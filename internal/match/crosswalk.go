package match

import (
	"sort"

	"esgmap/pkg/contracts/domain"
)

// crosswalkKey identifies one (provider entity, matched entity) pairing being
// accumulated across periods.
type crosswalkKey struct {
	providerID string
	entityKey  string
}

// Aggregate collapses per-period matches into one crosswalk row per provider
// entity. Matches without an entity key carry no linkable identity and are
// skipped. For each provider entity, the entity key with the highest
// accumulated evidence wins the whole history: total score first, then
// periods covered, then the single best overlap, with the lexically smallest
// entity key as the final deterministic tie-break.
func Aggregate(matches []domain.Match) []domain.CrosswalkEntry {
	accumulated := make(map[crosswalkKey]*domain.CrosswalkEntry)

	for _, m := range matches {
		if m.EntityKey == "" {
			continue
		}
		key := crosswalkKey{providerID: m.ProviderEntityID, entityKey: m.EntityKey}
		entry, ok := accumulated[key]
		if !ok {
			entry = &domain.CrosswalkEntry{
				ProviderEntityID:   m.ProviderEntityID,
				EntityKey:          m.EntityKey,
				PrimarySecurityKey: m.PrimarySecurityKey,
				FirstPeriod:        m.Year,
				LastPeriod:         m.Year,
			}
			accumulated[key] = entry
		}

		entry.TotalScore += m.Score
		entry.PeriodsCovered++
		if m.OverlapDays > entry.MaxOverlapDays {
			entry.MaxOverlapDays = m.OverlapDays
		}
		if m.Year < entry.FirstPeriod {
			entry.FirstPeriod = m.Year
		}
		if m.Year > entry.LastPeriod {
			entry.LastPeriod = m.Year
		}
	}

	byProvider := make(map[string][]*domain.CrosswalkEntry)
	for _, entry := range accumulated {
		byProvider[entry.ProviderEntityID] = append(byProvider[entry.ProviderEntityID], entry)
	}

	crosswalk := make([]domain.CrosswalkEntry, 0, len(byProvider))
	for _, candidates := range byProvider {
		sort.Slice(candidates, func(i, j int) bool {
			return crosswalkBetter(candidates[i], candidates[j])
		})
		crosswalk = append(crosswalk, *candidates[0])
	}

	sort.Slice(crosswalk, func(i, j int) bool {
		return crosswalk[i].ProviderEntityID < crosswalk[j].ProviderEntityID
	})

	return crosswalk
}

// crosswalkBetter reports whether candidate a outranks candidate b for the
// same provider entity.
func crosswalkBetter(a, b *domain.CrosswalkEntry) bool {
	if a.TotalScore != b.TotalScore {
		return a.TotalScore > b.TotalScore
	}
	if a.PeriodsCovered != b.PeriodsCovered {
		return a.PeriodsCovered > b.PeriodsCovered
	}
	if a.MaxOverlapDays != b.MaxOverlapDays {
		return a.MaxOverlapDays > b.MaxOverlapDays
	}
	return a.EntityKey < b.EntityKey
}
