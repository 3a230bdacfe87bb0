package psac

import "fmt"

// BlockPartition splits a sequence of n elements into p contiguous
// blocks whose sizes differ by at most one, assigning the remainder to
// the lowest ranks. The returned slice holds the block size for each
// rank, in rank order.
//
// BlockPartition panics if n < 0 or p < 1.
func BlockPartition(n, p int) []int {
	if n < 0 || p < 1 {
		panic(fmt.Sprintf("invalid partition: %v elements across %v blocks", n, p))
	}
	counts := make([]int, p)
	size, rem := n/p, n%p
	for r := range counts {
		counts[r] = size
		if r < rem {
			counts[r]++
		}
	}
	return counts
}

// Displacements returns the exclusive prefix sums of counts: the global
// offset at which each block starts when the blocks are laid out
// contiguously in rank order.
func Displacements(counts []int) []int {
	displs := make([]int, len(counts))
	sum := 0
	for r, count := range counts {
		displs[r] = sum
		sum += count
	}
	return displs
}
