package ansv

import "sort"

// A candidate identifies an element that may still serve as the nearest
// smaller value for positions outside its block. It names the owning
// worker and the element's local index; the pair is converted to a
// global index only when an output entry is written.
type candidate struct {
	rank  int
	index int
	value uint64
}

// leftSweep computes left nearest smaller values for the block s whose
// first element has global index lo. left[k] holds a global index, or
// the sentinel 0 when no strictly smaller element precedes position k
// inside the block; those positions are also collected in open. The
// returned residual is what remains of the monotone stack after the
// sweep, bottom to top: the elements visible from the block's right
// edge, with strictly increasing values, which may serve left queries
// from higher-ranked workers.
func leftSweep(s []uint64, lo, rank int) (left []int, open []int, residual []candidate) {
	left = make([]int, len(s))
	stack := make([]int, 0, 64)
	for i := range s {
		for len(stack) > 0 && s[stack[len(stack)-1]] >= s[i] {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			left[i] = lo + stack[len(stack)-1]
		} else {
			open = append(open, i)
		}
		stack = append(stack, i)
	}
	residual = make([]candidate, len(stack))
	for k, i := range stack {
		residual[k] = candidate{rank: rank, index: i, value: s[i]}
	}
	return left, open, residual
}

// rightSweep is the mirror of leftSweep: it sweeps the block from its
// right edge, producing right nearest smaller values and the residual
// stack visible from the block's left edge, which may serve right
// queries from lower-ranked workers.
func rightSweep(s []uint64, lo, rank int) (right []int, open []int, residual []candidate) {
	right = make([]int, len(s))
	stack := make([]int, 0, 64)
	for i := len(s) - 1; i >= 0; i-- {
		for len(stack) > 0 && s[stack[len(stack)-1]] >= s[i] {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			right[i] = lo + stack[len(stack)-1]
		} else {
			open = append(open, i)
		}
		stack = append(stack, i)
	}
	residual = make([]candidate, len(stack))
	for k, i := range stack {
		residual[k] = candidate{rank: rank, index: i, value: s[i]}
	}
	return right, open, residual
}

// searchBelow returns the entry of stack nearest to the querying block
// whose value is strictly smaller than v. Stack values are strictly
// increasing bottom to top and stack indices grow toward the querying
// block, so the entry is the top-most one below v, located with a
// binary search on the value array.
func searchBelow(stack []candidate, v uint64) (candidate, bool) {
	j := sort.Search(len(stack), func(m int) bool { return stack[m].value >= v })
	if j == 0 {
		return candidate{}, false
	}
	return stack[j-1], true
}

// monotone reports whether the stack's values are strictly increasing
// bottom to top.
func monotone(stack []candidate) bool {
	for k := 1; k < len(stack); k++ {
		if stack[k].value <= stack[k-1].value {
			return false
		}
	}
	return true
}
