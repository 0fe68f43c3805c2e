package olcart

import (
	"github.com/olcart/olcart/internal/alloc"
	"github.com/olcart/olcart/internal/node"
)

// Options configures a Tree at construction time. The zero value is a
// usable, sensible default.
type Options struct {
	// Allocator mints and retires internal node memory. Nil selects
	// alloc.Default, a thin wrapper over Go's own allocator. Pass
	// alloc.NewInstrumented(budget) to track byte usage, detect leaks and
	// double frees, or inject out-of-memory faults in tests.
	Allocator node.Allocator

	// EpochFlushThreshold controls how many retired node batches accumulate
	// before a deferred free opportunistically triggers reclamation. Zero
	// selects a small internal default; set higher to batch more
	// reclamation work per flush at the cost of higher peak memory.
	EpochFlushThreshold int

	// Drain, if non-nil, is invoked once per (key, value) pair still
	// present in the tree when Close runs, before every node is freed. It
	// must not call back into the Tree.
	Drain func(Key, uint64)
}

func (o Options) allocator() node.Allocator {
	if o.Allocator != nil {
		return o.Allocator
	}
	return alloc.Default{}
}

func (o Options) epochThreshold() int {
	if o.EpochFlushThreshold > 0 {
		return o.EpochFlushThreshold
	}
	return 64
}
