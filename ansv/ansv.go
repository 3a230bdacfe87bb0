// Package ansv computes All Nearest Smaller Values: for every position
// of a sequence, the index of the nearest position to its left, and
// separately to its right, holding a strictly smaller value.
//
// Sequential computes both arrays for an in-memory sequence with the
// classic monotone-stack sweep. Parallel computes the same arrays for a
// sequence block-distributed across a worker group: each worker sweeps
// its own block, the residual boundary stacks of all blocks are
// exchanged with one all-gather, and positions whose nearest smaller
// value lies outside their block are resolved against the merged
// boundary data. The outputs of Parallel are identical to those of
// Sequential for every group size.
//
// Both arrays use the sentinel encoding of the surrounding pipeline:
// entry 0 means either that no strictly smaller value exists on that
// side, or that the answer is global index 0. Consumers that must
// distinguish the two check the first element of the sequence.
// Comparisons are strict throughout; equal values never serve as each
// other's nearest smaller value.
package ansv

import (
	"errors"

	"github.com/esaliya/psac"
	"github.com/esaliya/psac/comm"
	"github.com/esaliya/psac/internal"
)

var (
	// ErrEmptyInput reports a sequence with no elements.
	ErrEmptyInput = errors.New("ansv: empty input sequence")

	// ErrUnbalancedBlocks reports local block sizes differing by more
	// than one across the workers of a group.
	ErrUnbalancedBlocks = errors.New("ansv: block sizes differ by more than one across workers")
)

// Sequential computes the left and right nearest-smaller-value arrays
// for s. left[i] holds the largest j < i with s[j] < s[i] and right[i]
// the smallest j > i with s[j] < s[i], each 0 when no such j exists.
//
// Sequential returns ErrEmptyInput when s has no elements.
func Sequential(s []uint64) (left, right []int, err error) {
	if len(s) == 0 {
		return nil, nil, ErrEmptyInput
	}
	left, _, _ = leftSweep(s, 0, 0)
	right, _, _ = rightSweep(s, 0, 0)
	return left, right, nil
}

// Parallel computes the nearest-smaller-value arrays for the sequence
// whose balanced contiguous blocks the workers of c hold, one block per
// rank in rank order. Every worker returns the slices covering its own
// block, with entries expressed as global indices.
//
// Parallel must be called by every worker of the group. It returns
// ErrEmptyInput when the global sequence is empty and
// ErrUnbalancedBlocks when the block sizes differ by more than one;
// both conditions are reported consistently on all workers.
func Parallel(local []uint64, c *comm.Comm) (left, right []int, err error) {
	sizes := comm.AllGather(c, len(local))
	n, lowest, highest := 0, len(local), len(local)
	for _, size := range sizes {
		n += size
		if size < lowest {
			lowest = size
		}
		if size > highest {
			highest = size
		}
	}
	if n == 0 {
		return nil, nil, ErrEmptyInput
	}
	if highest-lowest > 1 {
		return nil, nil, ErrUnbalancedBlocks
	}
	offsets := psac.Displacements(sizes)
	rank := c.Rank()
	lo := offsets[rank]

	left, openLeft, residualLeft := leftSweep(local, lo, rank)
	right, openRight, residualRight := rightSweep(local, lo, rank)

	leftStacks := comm.AllGatherV(c, residualLeft)
	rightStacks := comm.AllGatherV(c, residualRight)
	for q := range leftStacks {
		internal.Assert(monotone(leftStacks[q]),
			"ansv: left boundary stack of rank %v is not strictly increasing", q)
		internal.Assert(monotone(rightStacks[q]),
			"ansv: right boundary stack of rank %v is not strictly increasing", q)
	}

	// An unresolved position's true answer, if it exists, is the
	// nearest surviving boundary element with a strictly smaller
	// value. Scanning outward from the caller's block, the first block
	// whose residual stack holds such an element also holds the
	// nearest one.
	for _, i := range openLeft {
		v := local[i]
		for q := rank - 1; q >= 0; q-- {
			if e, ok := searchBelow(leftStacks[q], v); ok {
				left[i] = offsets[e.rank] + e.index
				break
			}
		}
	}
	for _, i := range openRight {
		v := local[i]
		for q := rank + 1; q < c.Size(); q++ {
			if e, ok := searchBelow(rightStacks[q], v); ok {
				right[i] = offsets[e.rank] + e.index
				break
			}
		}
	}
	return left, right, nil
}
