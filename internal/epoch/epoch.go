// Package epoch implements epoch-based reclamation: a way to defer freeing
// memory until every reader that might still be dereferencing it has left
// its read section. It is not reference counting — no per-node counter is
// touched on the hot lookup path; instead each participating goroutine
// periodically announces the current global epoch it has observed, and
// garbage tagged with an older epoch is only reclaimed once every
// goroutine has announced past it.
package epoch

import (
	"sync"
	"sync/atomic"
)

// retiredBatch collects callbacks deferred during one epoch, to be run once
// that epoch is no longer observable by any active reader.
type retiredBatch struct {
	epoch     uint64
	callbacks []func()
}

// Domain owns the global epoch counter and the set of callbacks deferred
// against each past epoch. One Domain is shared by every Guard taken on a
// given tree.
type Domain struct {
	global uint64 // atomic

	mu        sync.Mutex
	local     map[*Guard]uint64 // per-pinned-guard observed epoch
	retired   []retiredBatch
	threshold int // Defer calls Flush once len(retired) exceeds this
}

// NewDomain creates an empty reclamation domain. threshold controls how
// many retired batches accumulate before Defer calls Flush on its own;
// a threshold of 0 means every Defer call flushes.
func NewDomain(threshold int) *Domain {
	return &Domain{
		local:     make(map[*Guard]uint64),
		threshold: threshold,
	}
}

// Guard is obtained by Pin and must be released by Unpin once the calling
// goroutine is done touching any tree-owned memory. While pinned, no data
// reachable at pin time can be reclaimed.
type Guard struct {
	domain *Domain
	epoch  uint64
}

// Pin announces that the calling goroutine is about to begin reading the
// tree, and returns a Guard recording the epoch observed at that moment.
// The goroutine must call Unpin when it is done.
func (d *Domain) Pin() *Guard {
	g := &Guard{domain: d, epoch: atomic.LoadUint64(&d.global)}
	d.mu.Lock()
	d.local[g] = g.epoch
	d.mu.Unlock()
	return g
}

// Unpin retires the guard, making its observed epoch eligible for advance.
func (g *Guard) Unpin() {
	d := g.domain
	d.mu.Lock()
	delete(d.local, g)
	d.mu.Unlock()
}

// Defer schedules fn to run once no pinned guard could still be observing
// memory retired at the current epoch. fn must not block and must not pin
// or retire further epoch state itself.
func (g *Guard) Defer(fn func()) {
	d := g.domain
	cur := atomic.LoadUint64(&d.global)
	d.mu.Lock()
	d.retired = append(d.retired, retiredBatch{epoch: cur, callbacks: []func(){fn}})
	shouldFlush := len(d.retired) > d.threshold
	d.mu.Unlock()
	if shouldFlush {
		d.Flush()
	}
}

// Flush advances the global epoch and reclaims any retired batch whose
// epoch predates every currently pinned guard's observed epoch.
func (d *Domain) Flush() {
	atomic.AddUint64(&d.global, 1)

	d.mu.Lock()
	minObserved := ^uint64(0)
	for _, e := range d.local {
		if e < minObserved {
			minObserved = e
		}
	}

	var runNow []func()
	kept := d.retired[:0]
	for _, batch := range d.retired {
		if batch.epoch < minObserved {
			runNow = append(runNow, batch.callbacks...)
		} else {
			kept = append(kept, batch)
		}
	}
	d.retired = kept
	d.mu.Unlock()

	for _, fn := range runNow {
		fn()
	}
}

// Pending reports how many retired batches are still waiting on a reader.
// Intended for tests and diagnostics only.
func (d *Domain) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.retired)
}
