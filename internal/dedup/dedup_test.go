package dedup

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/squeakmerge/internal/calls"
)

func sheet(spans ...[3]float64) *calls.Sheet {
	s := &calls.Sheet{Columns: []string{calls.ColumnBegin, calls.ColumnEnd, calls.ColumnAccepted}}
	for _, sp := range spans {
		s.Calls = append(s.Calls, calls.Call{Begin: sp[0], End: sp[1], Accepted: sp[2] == 1})
	}
	return s
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	iv := Interval{Lo: 10, Hi: 20}
	tests := []struct {
		name string
		b, e float64
		want bool
	}{
		{"inside", 12, 15, true},
		{"begins at lo", 10, 25, true},
		{"begins at hi", 20, 30, true},
		{"straddles lo", 5, 12, true},
		{"ends at lo", 5, 10, true},
		{"covers interval", 5, 25, true},
		{"before", 1, 9.99, false},
		{"after", 20.01, 30, false},
		{"inverted inside", 15, 1, true},
		{"nan begin", math.NaN(), 15, false},
		{"nan end inside", 12, math.NaN(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, iv.Overlaps(tt.b, tt.e))
		})
	}
}

func TestAcceptedIntervals(t *testing.T) {
	t.Parallel()

	long := sheet([3]float64{0, 5, 1}, [3]float64{10, 12, 0}, [3]float64{30, 31, 1})
	assert.Equal(t, []Interval{{0, 5}, {30, 31}}, AcceptedIntervals(long))
	assert.Nil(t, AcceptedIntervals(nil))
}

func TestMarkShort(t *testing.T) {
	t.Parallel()

	long := sheet([3]float64{0, 5, 1}, [3]float64{10, 12, 0})
	short := sheet([3]float64{2, 3, 1}, [3]float64{11, 13, 1}, [3]float64{20, 21, 0})

	// (11,13) only overlaps the unaccepted long call
	assert.Equal(t, []bool{false, true, true}, MarkShort(long, short))
}

func TestMarkShortWithoutLongFile(t *testing.T) {
	t.Parallel()

	short := sheet([3]float64{0, 1, 1}, [3]float64{2, 3, 0})
	assert.Equal(t, []bool{true, true}, MarkShort(nil, short))
	assert.Nil(t, MarkShort(nil, nil))
}

func TestMarkShortNoAcceptedLongCalls(t *testing.T) {
	t.Parallel()

	long := sheet([3]float64{0, 100, 0})
	short := sheet([3]float64{2, 3, 1})
	assert.Equal(t, []bool{true}, MarkShort(long, short))
}

func TestMarkLong(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []bool{true, true}, MarkLong(sheet([3]float64{0, 5, 0}, [3]float64{1, 2, 1})))
	assert.Empty(t, MarkLong(nil))
}
