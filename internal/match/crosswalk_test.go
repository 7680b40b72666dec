package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esgmap/pkg/contracts/domain"
)

func TestAggregate_WinnerTakesWholeHistory(t *testing.T) {
	// E1 matched entity 000888 in three periods and 000999 in one, and the
	// single 000999 match scored higher than any individual 000888 match.
	// The accumulated total still favors 000888, so it takes all periods.
	matches := []domain.Match{
		{ProviderEntityID: "E1", Year: 2003, EntityKey: "000888", Score: 10, OverlapDays: 365, PrimarySecurityKey: 10001},
		{ProviderEntityID: "E1", Year: 2004, EntityKey: "000888", Score: 10, OverlapDays: 366, PrimarySecurityKey: 10001},
		{ProviderEntityID: "E1", Year: 2005, EntityKey: "000888", Score: 10, OverlapDays: 365, PrimarySecurityKey: 10001},
		{ProviderEntityID: "E1", Year: 2006, EntityKey: "000999", Score: 14, OverlapDays: 365, PrimarySecurityKey: 20002},
	}

	crosswalk := Aggregate(matches)
	require.Len(t, crosswalk, 1)

	entry := crosswalk[0]
	assert.Equal(t, "E1", entry.ProviderEntityID)
	assert.Equal(t, "000888", entry.EntityKey)
	assert.Equal(t, int64(10001), entry.PrimarySecurityKey)
	assert.Equal(t, 30, entry.TotalScore)
	assert.Equal(t, 3, entry.PeriodsCovered)
	assert.Equal(t, 366, entry.MaxOverlapDays)
	assert.Equal(t, 2003, entry.FirstPeriod)
	assert.Equal(t, 2005, entry.LastPeriod)
}

func TestAggregate_TieBreakChain(t *testing.T) {
	tests := []struct {
		name    string
		matches []domain.Match
		want    string
	}{
		{
			name: "total score wins",
			matches: []domain.Match{
				{ProviderEntityID: "E1", Year: 2000, EntityKey: "000111", Score: 5},
				{ProviderEntityID: "E1", Year: 2001, EntityKey: "000222", Score: 9},
			},
			want: "000222",
		},
		{
			name: "periods break a score tie",
			matches: []domain.Match{
				{ProviderEntityID: "E1", Year: 2000, EntityKey: "000111", Score: 5},
				{ProviderEntityID: "E1", Year: 2001, EntityKey: "000111", Score: 5},
				{ProviderEntityID: "E1", Year: 2002, EntityKey: "000222", Score: 10},
			},
			want: "000111",
		},
		{
			name: "overlap breaks score and period ties",
			matches: []domain.Match{
				{ProviderEntityID: "E1", Year: 2000, EntityKey: "000111", Score: 5, OverlapDays: 100},
				{ProviderEntityID: "E1", Year: 2001, EntityKey: "000222", Score: 5, OverlapDays: 300},
			},
			want: "000222",
		},
		{
			name: "lexical entity key as final tie-break",
			matches: []domain.Match{
				{ProviderEntityID: "E1", Year: 2000, EntityKey: "000333", Score: 5, OverlapDays: 100},
				{ProviderEntityID: "E1", Year: 2001, EntityKey: "000222", Score: 5, OverlapDays: 100},
			},
			want: "000222",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crosswalk := Aggregate(tt.matches)
			require.Len(t, crosswalk, 1)
			assert.Equal(t, tt.want, crosswalk[0].EntityKey)
		})
	}
}

func TestAggregate_SortedByProviderID(t *testing.T) {
	matches := []domain.Match{
		{ProviderEntityID: "E9", Year: 2000, EntityKey: "000111", Score: 5},
		{ProviderEntityID: "E1", Year: 2000, EntityKey: "000222", Score: 5},
		{ProviderEntityID: "E5", Year: 2000, EntityKey: "000333", Score: 5},
	}

	crosswalk := Aggregate(matches)
	require.Len(t, crosswalk, 3)
	assert.Equal(t, "E1", crosswalk[0].ProviderEntityID)
	assert.Equal(t, "E5", crosswalk[1].ProviderEntityID)
	assert.Equal(t, "E9", crosswalk[2].ProviderEntityID)
}

func TestAggregate_SkipsMatchesWithoutEntityKey(t *testing.T) {
	matches := []domain.Match{
		{ProviderEntityID: "E1", Year: 2000, Score: 5},
	}
	assert.Empty(t, Aggregate(matches))
}
