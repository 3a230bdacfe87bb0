// Package rmq provides a range-minimum oracle over a sequence of
// values. Construction precomputes a sparse table in O(n log n) time
// and space; queries answer in constant time.
package rmq

import (
	"fmt"
	"math/bits"
)

// A Table is a preprocessed sequence that answers range-minimum queries
// in constant time. A Table is immutable after construction and safe
// for concurrent queries.
type Table struct {
	values []uint64
	index  [][]int // index[k][i] = index of the minimum in values[i : i+2^k)
}

// New builds a sparse table over values. The slice is retained; callers
// must not mutate it while the table is in use.
func New(values []uint64) *Table {
	n := len(values)
	levels := 1
	if n > 0 {
		levels = bits.Len(uint(n))
	}
	index := make([][]int, levels)
	base := make([]int, n)
	for i := range base {
		base[i] = i
	}
	index[0] = base
	for k := 1; k < levels; k++ {
		width := 1 << k
		prev := index[k-1]
		row := make([]int, n-width+1)
		for i := range row {
			a, b := prev[i], prev[i+width/2]
			// Ties keep the left window's index, so minima are
			// always the left-most occurrence.
			if values[b] < values[a] {
				row[i] = b
			} else {
				row[i] = a
			}
		}
		index[k] = row
	}
	return &Table{values: values, index: index}
}

// Min returns the index of the left-most minimum value on the half-open
// range [a, b).
//
// Min panics if the range is empty or out of bounds; querying an empty
// range is a programming error.
func (t *Table) Min(a, b int) int {
	if a < 0 || b > len(t.values) || a >= b {
		panic(fmt.Sprintf("rmq: invalid query range %v:%v", a, b))
	}
	k := bits.Len(uint(b-a)) - 1
	i, j := t.index[k][a], t.index[k][b-(1<<k)]
	if t.values[j] < t.values[i] {
		return j
	}
	return i
}

// MinValue returns the minimum value on the half-open range [a, b). It
// panics under the same conditions as Min.
func (t *Table) MinValue(a, b int) uint64 {
	return t.values[t.Min(a, b)]
}

// Len returns the length of the underlying sequence.
func (t *Table) Len() int { return len(t.values) }
