package alloc

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	set3 "github.com/TomTonic/Set3"

	"github.com/olcart/olcart/internal/node"
)

// sizes gives the in-memory footprint of each variant, used only for the
// byte counters below; it is approximate (it is the unsafe.Sizeof struct
// size and does not count the runtime's size-class rounding) and
// exists for observability, not for any correctness-critical bookkeeping.
var sizes = map[node.Type]uintptr{
	node.TypeN4Internal:   unsafe.Sizeof(node.N4Internal{}),
	node.TypeN4Leaf:       unsafe.Sizeof(node.N4Leaf{}),
	node.TypeN16Internal:  unsafe.Sizeof(node.N16Internal{}),
	node.TypeN16Leaf:      unsafe.Sizeof(node.N16Leaf{}),
	node.TypeN48Internal:  unsafe.Sizeof(node.N48Internal{}),
	node.TypeN48Leaf:      unsafe.Sizeof(node.N48Leaf{}),
	node.TypeN256Internal: unsafe.Sizeof(node.N256Internal{}),
	node.TypeN256Leaf:     unsafe.Sizeof(node.N256Leaf{}),
}

// Instrumented allocates like Default but adds byte counters, a live-block set for leak
// and double-free detection, and an optional out-of-memory injection
// budget for fault testing.
type Instrumented struct {
	mu   sync.Mutex
	live *set3.Set3[uintptr]

	bytesAllocated atomic.Int64
	bytesLive      atomic.Int64
	allocCount     atomic.Int64
	freeCount      atomic.Int64

	// oomBudget, when >= 0, is decremented on every successful Alloc* call;
	// once it reaches zero every further allocation fails with
	// ErrOutOfBudget. A negative budget (NewInstrumented with -1) disables
	// injection.
	oomBudget atomic.Int64
}

// ErrOutOfBudget is returned once the configured allocation budget is
// exhausted, simulating an out-of-memory condition for fault-injection tests.
var ErrOutOfBudget = fmt.Errorf("alloc: out-of-memory budget exhausted")

// ErrDoubleFreePanic is the value Free panics with when h was not a
// currently live block, i.e. it was already freed or never allocated by
// this Instrumented.
var ErrDoubleFreePanic = "alloc: double free detected"

// NewInstrumented creates an Instrumented allocator. A negative oomBudget
// disables fault injection; a non-negative one is the number of successful
// allocations permitted before Alloc* starts returning ErrOutOfBudget.
func NewInstrumented(oomBudget int64) *Instrumented {
	a := &Instrumented{live: set3.Empty[uintptr]()}
	a.oomBudget.Store(oomBudget)
	return a
}

func (a *Instrumented) checkBudget() error {
	for {
		b := a.oomBudget.Load()
		if b < 0 {
			return nil
		}
		if b == 0 {
			return ErrOutOfBudget
		}
		if a.oomBudget.CompareAndSwap(b, b-1) {
			return nil
		}
	}
}

func (a *Instrumented) track(p unsafe.Pointer, t node.Type) {
	a.mu.Lock()
	a.live.Add(uintptr(p))
	a.mu.Unlock()
	a.allocCount.Add(1)
	a.bytesAllocated.Add(int64(sizes[t]))
	a.bytesLive.Add(int64(sizes[t]))
}

func (a *Instrumented) AllocN4Internal() (*node.N4Internal, error) {
	if err := a.checkBudget(); err != nil {
		return nil, err
	}
	n := new(node.N4Internal)
	a.track(unsafe.Pointer(n), node.TypeN4Internal)
	return n, nil
}

func (a *Instrumented) AllocN4Leaf() (*node.N4Leaf, error) {
	if err := a.checkBudget(); err != nil {
		return nil, err
	}
	n := new(node.N4Leaf)
	a.track(unsafe.Pointer(n), node.TypeN4Leaf)
	return n, nil
}

func (a *Instrumented) AllocN16Internal() (*node.N16Internal, error) {
	if err := a.checkBudget(); err != nil {
		return nil, err
	}
	n := new(node.N16Internal)
	a.track(unsafe.Pointer(n), node.TypeN16Internal)
	return n, nil
}

func (a *Instrumented) AllocN16Leaf() (*node.N16Leaf, error) {
	if err := a.checkBudget(); err != nil {
		return nil, err
	}
	n := new(node.N16Leaf)
	a.track(unsafe.Pointer(n), node.TypeN16Leaf)
	return n, nil
}

func (a *Instrumented) AllocN48Internal() (*node.N48Internal, error) {
	if err := a.checkBudget(); err != nil {
		return nil, err
	}
	n := new(node.N48Internal)
	a.track(unsafe.Pointer(n), node.TypeN48Internal)
	return n, nil
}

func (a *Instrumented) AllocN48Leaf() (*node.N48Leaf, error) {
	if err := a.checkBudget(); err != nil {
		return nil, err
	}
	n := new(node.N48Leaf)
	a.track(unsafe.Pointer(n), node.TypeN48Leaf)
	return n, nil
}

func (a *Instrumented) AllocN256Internal() (*node.N256Internal, error) {
	if err := a.checkBudget(); err != nil {
		return nil, err
	}
	n := new(node.N256Internal)
	a.track(unsafe.Pointer(n), node.TypeN256Internal)
	return n, nil
}

func (a *Instrumented) AllocN256Leaf() (*node.N256Leaf, error) {
	if err := a.checkBudget(); err != nil {
		return nil, err
	}
	n := new(node.N256Leaf)
	a.track(unsafe.Pointer(n), node.TypeN256Leaf)
	return n, nil
}

func (a *Instrumented) Free(h *node.Header) {
	p := uintptr(unsafe.Pointer(h))
	a.mu.Lock()
	if !a.live.Contains(p) {
		a.mu.Unlock()
		panic(ErrDoubleFreePanic)
	}
	a.live.Remove(p)
	a.mu.Unlock()
	a.freeCount.Add(1)
	a.bytesLive.Add(-int64(sizes[h.Type()]))
}

// Stats reports cumulative and current allocator counters.
type Stats struct {
	AllocCount     int64
	FreeCount      int64
	BytesAllocated int64
	BytesLive      int64
	LiveBlocks     int
}

func (a *Instrumented) Stats() Stats {
	a.mu.Lock()
	live := a.live.Len()
	a.mu.Unlock()
	return Stats{
		AllocCount:     a.allocCount.Load(),
		FreeCount:      a.freeCount.Load(),
		BytesAllocated: a.bytesAllocated.Load(),
		BytesLive:      a.bytesLive.Load(),
		LiveBlocks:     int(live),
	}
}

var _ node.Allocator = (*Instrumented)(nil)
