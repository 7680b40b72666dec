package interval

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestOverlapDays(t *testing.T) {
	tests := []struct {
		name  string
		aFrom time.Time
		aTo   time.Time
		bFrom time.Time
		bTo   time.Time
		want  int
	}{
		{
			name:  "no overlap",
			aFrom: date(2000, 1, 1), aTo: date(2001, 1, 1),
			bFrom: date(2005, 1, 1), bTo: date(2006, 1, 1),
			want: 0,
		},
		{
			name:  "partial overlap",
			aFrom: date(2000, 1, 1), aTo: date(2000, 1, 20),
			bFrom: date(2000, 1, 10), bTo: date(2000, 2, 1),
			want: 10,
		},
		{
			name:  "containment",
			aFrom: date(2000, 1, 1), aTo: date(2001, 1, 1),
			bFrom: date(2000, 3, 1), bTo: date(2000, 3, 11),
			want: 10,
		},
		{
			name:  "exact equality",
			aFrom: date(2000, 1, 1), aTo: date(2000, 1, 31),
			bFrom: date(2000, 1, 1), bTo: date(2000, 1, 31),
			want: 30,
		},
		{
			name:  "touching endpoints",
			aFrom: date(2000, 1, 1), aTo: date(2000, 6, 1),
			bFrom: date(2000, 6, 1), bTo: date(2001, 1, 1),
			want: 0,
		},
		{
			name:  "five year overlap",
			aFrom: date(2000, 1, 1), aTo: date(2010, 1, 1),
			bFrom: date(1999, 1, 1), bTo: date(2005, 1, 1),
			want: 1827, // 2000-01-01 .. 2005-01-01 includes leap days
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverlapDays(tt.aFrom, tt.aTo, tt.bFrom, tt.bTo))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, OverlapDays(tt.bFrom, tt.bTo, tt.aFrom, tt.aTo))
		})
	}
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(date(2000, 1, 1), date(2001, 1, 1), date(2000, 6, 1), date(2002, 1, 1)))
	assert.False(t, Overlaps(date(2000, 1, 1), date(2001, 1, 1), date(2002, 1, 1), date(2003, 1, 1)))
	// Touching at a single endpoint still counts as overlapping for the
	// validity check; the day count is zero in that case.
	assert.True(t, Overlaps(date(2000, 1, 1), date(2001, 1, 1), date(2001, 1, 1), date(2002, 1, 1)))
}

func TestDays(t *testing.T) {
	assert.Equal(t, 31, Days(date(2000, 1, 1), date(2000, 2, 1)))
	assert.Equal(t, 0, Days(date(2000, 2, 1), date(2000, 1, 1)))
	assert.Equal(t, 0, Days(date(2000, 1, 1), date(2000, 1, 1)))
}

// TestOverlapDays_Property cross-checks the closed-form day count against a
// brute-force reference over random interval pairs.
func TestOverlapDays_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := date(1990, 1, 1)

	randInterval := func() (time.Time, time.Time) {
		start := base.AddDate(0, 0, rng.Intn(10000))
		return start, start.AddDate(0, 0, rng.Intn(4000))
	}

	for i := 0; i < 500; i++ {
		aFrom, aTo := randInterval()
		bFrom, bTo := randInterval()

		got := OverlapDays(aFrom, aTo, bFrom, bTo)

		// Reference: max(0, min(aTo, bTo) - max(aFrom, bFrom)).
		start := aFrom
		if bFrom.After(start) {
			start = bFrom
		}
		end := aTo
		if bTo.Before(end) {
			end = bTo
		}
		want := int(end.Sub(start).Hours() / 24)
		if want < 0 {
			want = 0
		}

		assert.Equal(t, want, got, "a=[%v,%v) b=[%v,%v)", aFrom, aTo, bFrom, bTo)
		assert.GreaterOrEqual(t, got, 0)

		if got > 0 {
			assert.True(t, Overlaps(aFrom, aTo, bFrom, bTo))
		}
	}
}
