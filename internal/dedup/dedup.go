// Package dedup flags short calls that were also picked up as accepted long calls.
package dedup

import "github.com/tphakala/squeakmerge/internal/calls"

// Interval is an accepted long call, in seconds.
type Interval struct {
	Lo float64
	Hi float64
}

// AcceptedIntervals returns the intervals of the accepted long calls in order.
func AcceptedIntervals(long *calls.Sheet) []Interval {
	if long == nil {
		return nil
	}
	out := make([]Interval, 0, long.Len())
	for _, c := range long.Calls {
		if c.Accepted {
			out = append(out, Interval{Lo: c.Begin, Hi: c.End})
		}
	}
	return out
}

// Overlaps reports whether the short call (b, e) collides with iv.
//
// A call starting inside the interval always matches, even when its end
// is before its begin. Otherwise it matches when it ends at or after
// iv.Lo and begins at or before iv.Hi.
func (iv Interval) Overlaps(b, e float64) bool {
	return (iv.Lo <= b && b <= iv.Hi) || (e >= iv.Lo && b <= iv.Hi)
}

// Unique reports whether (b, e) overlaps none of intervals.
func Unique(intervals []Interval, b, e float64) bool {
	for _, iv := range intervals {
		if iv.Overlaps(b, e) {
			return false
		}
	}
	return true
}

// MarkShort returns the uniqueness of every short call. A nil long sheet
// means the group has no long file and every short call is unique.
func MarkShort(long, short *calls.Sheet) []bool {
	if short == nil {
		return nil
	}
	intervals := AcceptedIntervals(long)
	out := make([]bool, short.Len())
	for i, c := range short.Calls {
		out[i] = Unique(intervals, c.Begin, c.End)
	}
	return out
}

// MarkLong returns the uniqueness of every long call, which is always true.
func MarkLong(long *calls.Sheet) []bool {
	out := make([]bool, long.Len())
	for i := range out {
		out[i] = true
	}
	return out
}
