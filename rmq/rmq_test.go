package rmq

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// bruteMin returns the index of the left-most minimum of values[a:b] by
// a linear scan.
func bruteMin(values []uint64, a, b int) int {
	best := a
	for i := a + 1; i < b; i++ {
		if values[i] < values[best] {
			best = i
		}
	}
	return best
}

func checkAllRanges(t *testing.T, values []uint64) {
	t.Helper()
	table := New(values)
	for a := 0; a < len(values); a++ {
		for b := a + 1; b <= len(values); b++ {
			assert.Equal(t, bruteMin(values, a, b), table.Min(a, b), "range %v:%v", a, b)
		}
	}
}

func TestTable(t *testing.T) {
	tests := map[string]struct {
		values []uint64
	}{
		"single": {
			values: []uint64{7},
		},
		"two": {
			values: []uint64{9, 3},
		},
		"increasing": {
			values: []uint64{1, 2, 3, 4, 5, 6, 7, 8},
		},
		"decreasing": {
			values: []uint64{8, 7, 6, 5, 4, 3, 2, 1},
		},
		"plateau": {
			values: []uint64{5, 5, 5, 5, 5},
		},
		"valley": {
			values: []uint64{9, 4, 1, 4, 9},
		},
		"repeated minima": {
			values: []uint64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5},
		},
		"power of two length": {
			values: []uint64{6, 2, 8, 2, 6, 2, 8, 2, 6, 2, 8, 2, 6, 2, 8, 2},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			checkAllRanges(t, tc.values)
		})
	}
}

func TestTableRandom(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, n := range []int{3, 10, 137, 1000} {
		values := make([]uint64, n)
		for i := range values {
			// A small value range forces ties, exercising the
			// left-most-index rule.
			values[i] = uint64(r.Intn(50))
		}
		table := New(values)
		if n <= 137 {
			checkAllRanges(t, values)
			continue
		}
		for q := 0; q < 2000; q++ {
			a := r.Intn(n)
			b := a + 1 + r.Intn(n-a)
			assert.Equal(t, bruteMin(values, a, b), table.Min(a, b), "range %v:%v", a, b)
		}
	}
}

func TestTableInvalidRange(t *testing.T) {
	table := New([]uint64{1, 2, 3})
	assert.Panics(t, func() { table.Min(1, 1) })
	assert.Panics(t, func() { table.Min(2, 1) })
	assert.Panics(t, func() { table.Min(-1, 2) })
	assert.Panics(t, func() { table.Min(0, 4) })
	empty := New(nil)
	assert.Panics(t, func() { empty.Min(0, 0) })
}

func TestMinValue(t *testing.T) {
	table := New([]uint64{4, 2, 5, 3, 1, 6})
	assert.EqualValues(t, 1, table.MinValue(0, 6))
	assert.EqualValues(t, 2, table.MinValue(0, 3))
	assert.EqualValues(t, 3, table.MinValue(2, 4))
	assert.Equal(t, 6, table.Len())
}
