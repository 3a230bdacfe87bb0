// Package comm provides static groups of cooperating workers and the
// collective operations they communicate through.
//
// A group of size P runs one single-threaded worker per rank. Workers
// share no memory; they exchange data only through the collectives in
// this package, which are synchronous and totally ordered within the
// group. Every worker must issue the same sequence of collective calls;
// mismatched sequences are programming errors and deadlock or panic.
//
// Slice payloads of AllGatherV, GatherV, AllToAllV and BlockDistribute
// are transmitted by value: the buffers they return are copies, never
// aliases of another worker's memory. Broadcast and AllGather return
// the contributed values as they are, so a slice, map or pointer passed
// through them still refers to the sender's memory.
//
// A worker that returns an error or panics aborts the group. Workers
// still blocked in a collective are released by panicking with
// ErrGroupAborted, which Run recognizes as secondary: Run returns the
// left-most real error and rethrows the left-most real panic, so the
// cause of the abort is what the caller observes.
package comm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/esaliya/psac/internal"
)

// ErrGroupAborted reports that the worker group was torn down while a
// collective was in flight. It is the panic value used to release
// blocked workers, and the error Run returns when a group aborts
// without a more specific cause.
var ErrGroupAborted = errors.New("comm: group aborted")

// A Group is the shared state of a static set of workers. It is created
// by Run and accessed only through per-worker Comm handles.
type Group struct {
	size    int
	slots   []interface{} // one collective payload slot per rank
	bar     *barrier
	mail    []chan interface{} // size*size point-to-point mailboxes
	aborted chan struct{}
	abort   sync.Once
}

func newGroup(size int) *Group {
	g := &Group{
		size:    size,
		slots:   make([]interface{}, size),
		bar:     &barrier{size: size, release: make(chan struct{})},
		mail:    make([]chan interface{}, size*size),
		aborted: make(chan struct{}),
	}
	for i := range g.mail {
		g.mail[i] = make(chan interface{}, 1)
	}
	return g
}

func (g *Group) doAbort() {
	g.abort.Do(func() { close(g.aborted) })
}

// A Comm is one worker's handle on its group. It identifies the calling
// rank to the collectives and is valid only for the duration of the
// worker function it was passed to.
type Comm struct {
	g    *Group
	rank int
}

// Rank returns the calling worker's rank, in [0, Size()).
func (c *Comm) Rank() int { return c.rank }

// Size returns the number of workers in the group.
func (c *Comm) Size() int { return c.g.size }

func (c *Comm) checkRank(rank int) {
	if rank < 0 || rank >= c.g.size {
		panic(fmt.Sprintf("comm: invalid rank %v for group of size %v", rank, c.g.size))
	}
}

// Barrier blocks until every worker in the group has entered it.
func (c *Comm) Barrier() {
	c.g.bar.await(c.g.aborted)
}

// ExclusiveScan returns the sum of the values contributed by all lower
// ranks; rank 0 receives 0.
func (c *Comm) ExclusiveScan(x int) int {
	g := c.g
	g.slots[c.rank] = x
	g.bar.await(g.aborted)
	sum := 0
	for q := 0; q < c.rank; q++ {
		sum += g.slots[q].(int)
	}
	g.bar.await(g.aborted)
	return sum
}

// Run spawns a group of p workers, invokes f once per rank in its own
// goroutine, and returns only when all workers have terminated.
//
// Run returns the left-most error value that is different from nil,
// preferring real worker errors over the secondary ErrGroupAborted that
// released the remaining workers.
//
// If one or more workers panic, the group is aborted, the corresponding
// goroutines recover the panics, and Run eventually panics with the
// left-most recovered panic value, annotated with the worker's stack
// trace.
//
// Run panics if p < 1.
func Run(p int, f func(c *Comm) error) error {
	if p < 1 {
		panic(fmt.Sprintf("comm: invalid group size: %v", p))
	}
	g := newGroup(p)
	errs := make([]error, p)
	panics := make([]interface{}, p)
	var wg sync.WaitGroup
	wg.Add(p)
	for r := 0; r < p; r++ {
		go func(rank int) {
			defer wg.Done()
			defer func() {
				if pv := recover(); pv != nil {
					if e, ok := pv.(error); ok && errors.Is(e, ErrGroupAborted) {
						errs[rank] = ErrGroupAborted
						return
					}
					panics[rank] = internal.WrapPanic(pv)
					g.doAbort()
				}
			}()
			if err := f(&Comm{g: g, rank: rank}); err != nil {
				errs[rank] = err
				g.doAbort()
			}
		}(r)
	}
	wg.Wait()
	for _, pv := range panics {
		if pv != nil {
			panic(pv)
		}
	}
	var aborted bool
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, ErrGroupAborted):
			aborted = true
		default:
			return err
		}
	}
	if aborted {
		return ErrGroupAborted
	}
	return nil
}

// barrier is a reusable counting barrier. The last worker to arrive
// releases the waiters of the current phase and opens the next one.
type barrier struct {
	mu      sync.Mutex
	size    int
	count   int
	release chan struct{}
}

func (b *barrier) await(aborted <-chan struct{}) {
	b.mu.Lock()
	b.count++
	ch := b.release
	if b.count == b.size {
		b.count = 0
		b.release = make(chan struct{})
		b.mu.Unlock()
		close(ch)
		return
	}
	b.mu.Unlock()
	select {
	case <-ch:
	case <-aborted:
		panic(ErrGroupAborted)
	}
}
