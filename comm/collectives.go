package comm

import (
	"fmt"

	"github.com/esaliya/psac"
)

// Broadcast distributes the root's value to every worker. The
// contributions of non-root workers are ignored.
func Broadcast[T any](c *Comm, x T, root int) T {
	c.checkRank(root)
	g := c.g
	if c.rank == root {
		g.slots[root] = x
	}
	g.bar.await(g.aborted)
	v := g.slots[root].(T)
	g.bar.await(g.aborted)
	return v
}

// AllGather collects one value from every worker. The result holds the
// contributions in rank order and is identical on all workers.
func AllGather[T any](c *Comm, x T) []T {
	g := c.g
	g.slots[c.rank] = x
	g.bar.await(g.aborted)
	out := make([]T, g.size)
	for q := range out {
		out[q] = g.slots[q].(T)
	}
	g.bar.await(g.aborted)
	return out
}

// AllGatherV collects every worker's variable-length contribution. The
// result holds one copied buffer per rank, in rank order, and is
// identical on all workers.
func AllGatherV[T any](c *Comm, local []T) [][]T {
	g := c.g
	g.slots[c.rank] = local
	g.bar.await(g.aborted)
	out := make([][]T, g.size)
	for q := range out {
		src := g.slots[q].([]T)
		out[q] = append(make([]T, 0, len(src)), src...)
	}
	g.bar.await(g.aborted)
	return out
}

// GatherV collects every worker's variable-length contribution at the
// root, which receives the concatenation in rank order. All other
// workers receive nil.
func GatherV[T any](c *Comm, local []T, root int) []T {
	c.checkRank(root)
	g := c.g
	g.slots[c.rank] = local
	g.bar.await(g.aborted)
	var out []T
	if c.rank == root {
		total := 0
		for q := 0; q < g.size; q++ {
			total += len(g.slots[q].([]T))
		}
		out = make([]T, 0, total)
		for q := 0; q < g.size; q++ {
			out = append(out, g.slots[q].([]T)...)
		}
	}
	g.bar.await(g.aborted)
	return out
}

// AllToAllV delivers sends[q] to worker q, for every pair of workers at
// once. The result holds in recvs[q] the (copied) buffer worker q
// addressed to the caller. Buffer order follows rank order on both
// sides.
//
// AllToAllV panics if len(sends) differs from the group size.
func AllToAllV[T any](c *Comm, sends [][]T) [][]T {
	g := c.g
	if len(sends) != g.size {
		panic(fmt.Sprintf("comm: AllToAllV expects %v send buffers, got %v", g.size, len(sends)))
	}
	g.slots[c.rank] = sends
	g.bar.await(g.aborted)
	recvs := make([][]T, g.size)
	for q := range recvs {
		src := g.slots[q].([][]T)[c.rank]
		recvs[q] = append(make([]T, 0, len(src)), src...)
	}
	g.bar.await(g.aborted)
	return recvs
}

// BlockDistribute fans the root-held sequence out into balanced
// contiguous blocks. Every worker returns a copy of its block together
// with the half-open global index range [lo, hi) the block covers. The
// global slice is consulted only at the root; other workers may pass
// nil.
func BlockDistribute[T any](c *Comm, global []T, root int) (local []T, lo, hi int) {
	c.checkRank(root)
	g := c.g
	n := Broadcast(c, len(global), root)
	counts := psac.BlockPartition(n, g.size)
	displs := psac.Displacements(counts)
	lo = displs[c.rank]
	hi = lo + counts[c.rank]
	if c.rank == root {
		g.slots[root] = global
	}
	g.bar.await(g.aborted)
	src := g.slots[root].([]T)
	local = append(make([]T, 0, hi-lo), src[lo:hi]...)
	g.bar.await(g.aborted)
	return local, lo, hi
}

// Rebalance redistributes an arbitrarily partitioned sequence into
// balanced contiguous blocks, preserving the global element order. The
// concatenation of the returned blocks in rank order equals the
// concatenation of the input blocks in rank order.
func Rebalance[T any](c *Comm, local []T) []T {
	g := c.g
	lo := c.ExclusiveScan(len(local))
	n := Broadcast(c, lo+len(local), g.size-1)
	counts := psac.BlockPartition(n, g.size)
	displs := psac.Displacements(counts)
	sends := make([][]T, g.size)
	for q := 0; q < g.size; q++ {
		s := max(lo, displs[q])
		e := min(lo+len(local), displs[q]+counts[q])
		if s < e {
			sends[q] = local[s-lo : e-lo]
		}
	}
	recvs := AllToAllV(c, sends)
	out := make([]T, 0, counts[c.rank])
	for q := 0; q < g.size; q++ {
		out = append(out, recvs[q]...)
	}
	return out
}

// Send delivers x to the worker with rank dest. It blocks while the
// destination's mailbox from the caller is full.
func Send[T any](c *Comm, dest int, x T) {
	c.checkRank(dest)
	select {
	case c.g.mail[c.rank*c.g.size+dest] <- x:
	case <-c.g.aborted:
		panic(ErrGroupAborted)
	}
}

// Recv returns the next value the worker with rank src addressed to the
// caller, blocking until one is available.
func Recv[T any](c *Comm, src int) T {
	c.checkRank(src)
	select {
	case v := <-c.g.mail[src*c.g.size+c.rank]:
		return v.(T)
	case <-c.g.aborted:
		panic(ErrGroupAborted)
	}
}
