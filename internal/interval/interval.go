// Package interval computes overlaps between half-open [from, to) date
// intervals. Every higher stage of the pipeline measures link and match
// quality in overlap days, so the arithmetic lives here once.
//
// Callers pass sentineled dates (far-future for open-ended windows, early
// sentinel for missing starts), never zero times; the functions do not treat
// the zero time specially.
package interval

import "time"

const hoursPerDay = 24

// Overlaps reports whether [aFrom, aTo) and [bFrom, bTo) overlap.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !aFrom.After(bTo) && !aTo.Before(bFrom)
}

// OverlapDays returns the overlap between [aFrom, aTo) and [bFrom, bTo) in
// whole days: max(0, min(aTo, bTo) - max(aFrom, bFrom)).
func OverlapDays(aFrom, aTo, bFrom, bTo time.Time) int {
	start := aFrom
	if bFrom.After(start) {
		start = bFrom
	}
	end := aTo
	if bTo.Before(end) {
		end = bTo
	}
	return Days(start, end)
}

// Days returns the number of whole days between from and to, clamped at 0.
func Days(from, to time.Time) int {
	d := int(to.Sub(from).Hours() / hoursPerDay)
	if d < 0 {
		return 0
	}
	return d
}
