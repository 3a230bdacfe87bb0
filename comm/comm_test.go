package comm

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankAndSize(t *testing.T) {
	const p = 5
	var visits [p]int32
	err := Run(p, func(c *Comm) error {
		assert.Equal(t, p, c.Size())
		atomic.AddInt32(&visits[c.Rank()], 1)
		return nil
	})
	require.NoError(t, err)
	for r := range visits {
		assert.EqualValues(t, 1, visits[r], "rank %v", r)
	}
}

func TestRunInvalidSize(t *testing.T) {
	assert.Panics(t, func() {
		Run(0, func(c *Comm) error { return nil })
	})
}

func TestRunPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(4, func(c *Comm) error {
		if c.Rank() == 1 {
			return boom
		}
		// The remaining workers block in a collective until the
		// erroring worker tears the group down.
		c.Barrier()
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestRunPropagatesPanic(t *testing.T) {
	assert.Panics(t, func() {
		_ = Run(4, func(c *Comm) error {
			if c.Rank() == 2 {
				panic("boom")
			}
			c.Barrier()
			return nil
		})
	})
}

func TestBarrier(t *testing.T) {
	const p = 6
	var arrived int32
	err := Run(p, func(c *Comm) error {
		atomic.AddInt32(&arrived, 1)
		c.Barrier()
		assert.EqualValues(t, p, atomic.LoadInt32(&arrived))
		return nil
	})
	require.NoError(t, err)
}

func TestBroadcast(t *testing.T) {
	err := Run(4, func(c *Comm) error {
		x := -1
		if c.Rank() == 2 {
			x = 42
		}
		assert.Equal(t, 42, Broadcast(c, x, 2))
		return nil
	})
	require.NoError(t, err)
}

func TestAllGather(t *testing.T) {
	const p = 4
	err := Run(p, func(c *Comm) error {
		got := AllGather(c, c.Rank()*10)
		assert.Equal(t, []int{0, 10, 20, 30}, got)
		return nil
	})
	require.NoError(t, err)
}

func TestAllGatherV(t *testing.T) {
	const p = 4
	want := make([][]int, p)
	for r := 0; r < p; r++ {
		want[r] = make([]int, r)
		for i := range want[r] {
			want[r][i] = r*10 + i
		}
	}
	err := Run(p, func(c *Comm) error {
		local := make([]int, c.Rank())
		for i := range local {
			local[i] = c.Rank()*10 + i
		}
		assert.Equal(t, want, AllGatherV(c, local))
		return nil
	})
	require.NoError(t, err)
}

func TestGatherV(t *testing.T) {
	const p = 4
	err := Run(p, func(c *Comm) error {
		local := []int{c.Rank() * 2, c.Rank()*2 + 1}
		got := GatherV(c, local, 1)
		if c.Rank() == 1 {
			assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, got)
		} else {
			assert.Nil(t, got)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestAllToAllV(t *testing.T) {
	const p = 4
	err := Run(p, func(c *Comm) error {
		sends := make([][]int, p)
		for q := range sends {
			sends[q] = []int{c.Rank()*10 + q}
		}
		recvs := AllToAllV(c, sends)
		require.Len(t, recvs, p)
		for q := range recvs {
			assert.Equal(t, []int{q*10 + c.Rank()}, recvs[q])
		}
		return nil
	})
	require.NoError(t, err)
}

func TestExclusiveScan(t *testing.T) {
	const p = 7
	err := Run(p, func(c *Comm) error {
		got := c.ExclusiveScan(c.Rank() + 1)
		assert.Equal(t, c.Rank()*(c.Rank()+1)/2, got)
		return nil
	})
	require.NoError(t, err)
}

func TestSendRecv(t *testing.T) {
	const p = 5
	err := Run(p, func(c *Comm) error {
		Send(c, (c.Rank()+1)%p, c.Rank())
		got := Recv[int](c, (c.Rank()+p-1)%p)
		assert.Equal(t, (c.Rank()+p-1)%p, got)
		return nil
	})
	require.NoError(t, err)
}

func TestBlockDistribute(t *testing.T) {
	const p = 4
	global := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	wantCounts := []int{3, 3, 2, 2}
	err := Run(p, func(c *Comm) error {
		var in []int
		if c.Rank() == 0 {
			in = global
		}
		local, lo, hi := BlockDistribute(c, in, 0)
		assert.Equal(t, wantCounts[c.Rank()], hi-lo)
		assert.Equal(t, global[lo:hi], local)
		return nil
	})
	require.NoError(t, err)
}

func TestRebalance(t *testing.T) {
	const p = 4
	// Ranks start with 0, 1, 2, and 3 elements of the global sequence
	// 0..5 and must end with balanced contiguous blocks of it.
	starts := []int{0, 0, 1, 3}
	want := [][]int{{0, 1}, {2, 3}, {4}, {5}}
	err := Run(p, func(c *Comm) error {
		local := make([]int, c.Rank())
		for i := range local {
			local[i] = starts[c.Rank()] + i
		}
		assert.Equal(t, want[c.Rank()], Rebalance(c, local))
		return nil
	})
	require.NoError(t, err)
}
