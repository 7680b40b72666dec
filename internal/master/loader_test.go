package master

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "esgmap/internal/errors"
)

var testSentinels = Sentinels{
	FarFuture: time.Date(2262, 4, 11, 0, 0, 0, 0, time.UTC),
	EarlyPast: time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSegments(t *testing.T) {
	csv := `PERMNO,PERMCO,NAMEDT,NAMEENDT,COMNAM,TICKER,TSYMBOL,SHRCLS,SHRCD,EXCHCD,NCUSIP
10001,501,1990-06-01,2000-01-01,acme corp,acme,acme,A,10,1,123456789
10001,501,2000-01-01,,ACME HOLDINGS,ACME,ACME,A,11,3,123456789
10002,502,1995-03-15,2262-04-11,BETA INC,BETA,,,"73",2,987654321
badkey,503,2001-01-01,2002-01-01,GAMMA,GAM,,,10,1,111111111
10003,504,not-a-date,2005-01-01,DELTA,DEL,,,10,1,222222222
`
	path := writeTemp(t, "segments.csv", csv)

	segments, err := LoadSegments(context.Background(), path, testSentinels, nil)
	require.NoError(t, err)
	require.Len(t, segments, 3)

	first := segments[0]
	assert.Equal(t, int64(10001), first.SecurityKey)
	assert.Equal(t, int64(501), first.GroupKey)
	assert.Equal(t, "ACME CORP", first.Name)
	assert.Equal(t, "ACME", first.Ticker)
	assert.Equal(t, "123456", first.CUSIP6)
	assert.True(t, first.IsCommon)
	assert.Equal(t, "NYSE", first.Exchange)

	// Blank end date becomes the far-future sentinel.
	second := segments[1]
	assert.Equal(t, testSentinels.FarFuture, second.ValidTo)
	assert.True(t, second.IsCommon) // share code 11

	// Share code 73 is not a common class; exchange 2 maps to AMEX.
	third := segments[2]
	assert.False(t, third.IsCommon)
	assert.Equal(t, "AMEX", third.Exchange)
}

func TestLoadSegments_MissingFileIsFatal(t *testing.T) {
	_, err := LoadSegments(context.Background(),
		filepath.Join(t.TempDir(), "missing.csv"), testSentinels, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestLoadLinks(t *testing.T) {
	csv := `LPERMNO,LPERMCO,GVKEY,LINKDT,LINKENDDT,LINKPRIM,LINKTYPE,CUSIP
10001,501,12345,1990-06-01,E,P,LU,123456789
10001,501,12345.0,,2000-01-01,C,LC,123456789
10002,502,notdigits,1995-01-01,2262-04-11,N,LX,987654321
10002,502,678,1995-01-01,2005-01-01,N,LX,987654321
`
	path := writeTemp(t, "links.csv", csv)

	links, stats, err := LoadLinks(context.Background(), path, testSentinels, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Rows)
	assert.Equal(t, 3, stats.Loaded)
	assert.Equal(t, 1, stats.DroppedEntityKeys)
	require.Len(t, links, 3)

	first := links[0]
	assert.Equal(t, "012345", first.EntityKey)
	// "E" end marker becomes the far-future sentinel.
	assert.Equal(t, testSentinels.FarFuture, first.ValidTo)
	assert.Equal(t, 1, first.PrimScore)
	assert.Equal(t, 2, first.TypeRank)

	// Float-formatted entity key normalizes; missing start becomes the
	// early sentinel.
	second := links[1]
	assert.Equal(t, "012345", second.EntityKey)
	assert.Equal(t, testSentinels.EarlyPast, second.ValidFrom)
	assert.Equal(t, 1, second.PrimScore) // linkprim C
	assert.Equal(t, 1, second.TypeRank)  // linktype LC

	// Unlisted prim/type codes rank lowest; short keys zero-pad.
	fourth := links[2]
	assert.Equal(t, "000678", fourth.EntityKey)
	assert.Equal(t, 0, fourth.PrimScore)
	assert.Equal(t, 0, fourth.TypeRank)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2000-01-02", time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"2000/01/02", time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"01/02/2000", time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"20000102", time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"", time.Time{}, true},
		{"E", time.Time{}, true},
		{"garbage", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExchangeLabel(t *testing.T) {
	assert.Equal(t, "NYSE", ExchangeLabel(1))
	assert.Equal(t, "AMEX", ExchangeLabel(2))
	assert.Equal(t, "NASDAQ", ExchangeLabel(3))
	assert.Equal(t, "", ExchangeLabel(99))
}
