package domain

// CrosswalkEntry is one stable provider-entity to external-entity mapping,
// chosen by accumulating match quality across all periods. A provider entity
// that matched different entity keys in different periods resolves to the key
// with the highest accumulated evidence; the winner takes the whole history.
type CrosswalkEntry struct {
	ProviderEntityID   string `json:"provider_entity_id" csv:"provider_entity_id"`
	EntityKey          string `json:"entity_key" csv:"entity_key"`
	PrimarySecurityKey int64  `json:"primary_security_key,omitempty" csv:"primary_security_key"`

	TotalScore     int `json:"total_score" csv:"total_score"`
	PeriodsCovered int `json:"periods_covered" csv:"periods_covered"`
	MaxOverlapDays int `json:"max_overlap_days" csv:"max_overlap_days"`
	FirstPeriod    int `json:"first_period" csv:"first_period"`
	LastPeriod     int `json:"last_period" csv:"last_period"`
}
