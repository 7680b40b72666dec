package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "esgmap/internal/errors"
	"esgmap/internal/match"
)

func TestFMP_Load(t *testing.T) {
	// periodEndDate 1546214400000 is 2018-12-31T00:00:00Z.
	jsonData := `[
		{"symbol": "AAPL", "isin": "US0378331005", "periodEndDate": 1546214400000, "ESGScore": 72.5},
		{"symbol": "BMW.F", "isin": "DE0005190003", "periodEndDate": 1546214400000},
		{"symbol": "", "isin": "US1234567890", "periodEndDate": 1546214400000},
		{"symbol": "NODATE", "isin": "US1234567890"}
	]`
	path := writeTemp(t, "fmp.json", jsonData)

	records, err := NewFMP(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	apple := records[0]
	assert.Equal(t, "AAPL", apple.ProviderEntityID)
	assert.Equal(t, 2018, apple.Year)
	assert.Equal(t, "AAPL", apple.CleanTicker)
	assert.Equal(t, "037833", apple.ISINCUSIP6)
	assert.Equal(t, 2018, apple.ValidFrom.Year())
	assert.Equal(t, 2019, apple.ValidTo.Year())

	// Exchange suffix stripped; non-NA ISIN yields no CUSIP prefix.
	bmw := records[1]
	assert.Equal(t, "BMW.F", bmw.ProviderEntityID)
	assert.Equal(t, "BMW", bmw.CleanTicker)
	assert.Equal(t, "", bmw.ISINCUSIP6)
}

func TestFMP_MalformedJSONIsFatal(t *testing.T) {
	path := writeTemp(t, "fmp.json", "{not json")
	_, err := NewFMP(nil).Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestFMP_Strategies(t *testing.T) {
	strategies := NewFMP(nil).Strategies()
	require.Len(t, strategies, 2)
	assert.Equal(t, match.StrategyNameISIN, strategies[0].Name)
	assert.Equal(t, match.StrategyNameTicker, strategies[1].Name)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(nil)

	assert.Equal(t, []string{"fmp", "msci", "refinitiv"}, registry.Names())

	p, err := registry.Get("refinitiv")
	require.NoError(t, err)
	assert.Equal(t, "refinitiv", p.Name())

	_, err = registry.Get("bloomberg")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	all := registry.All()
	require.Len(t, all, 3)
	assert.Equal(t, "fmp", all[0].Name())
}
