package olcart

import (
	"fmt"
	"strings"

	"github.com/olcart/olcart/internal/alloc"
	"github.com/olcart/olcart/internal/backoff"
	"github.com/olcart/olcart/internal/node"
)

// TypeCounts tallies how many nodes of each fan-out/kind exist in a tree at
// the moment Stats was taken.
type TypeCounts struct {
	N4Internal, N4Leaf     int
	N16Internal, N16Leaf   int
	N48Internal, N48Leaf   int
	N256Internal, N256Leaf int
}

// Stats summarizes a tree's current structural shape, useful for judging
// whether path compression and node fan-out are behaving as expected under
// a given workload.
type Stats struct {
	Counts     TypeCounts
	NodeCount  int
	ValueCount int

	// PerDepth breaks Counts down by nesting level, PerDepth[0] being the
	// root. A node whose own compressed prefix pushes it past KeyLen-1
	// levels from the root (impossible in practice, since every level
	// consumes at least one branch byte) would be clamped into the last
	// bucket.
	PerDepth [KeyLen]TypeCounts

	// ApproxMemoryBytes is the allocator's live byte count, or 0 if the
	// configured allocator does not expose one (alloc.Default does not;
	// alloc.Instrumented does).
	ApproxMemoryBytes int64
}

// byteStatsProvider is implemented by allocators that track live byte
// counts, such as alloc.Instrumented.
type byteStatsProvider interface {
	Stats() alloc.Stats
}

// LoadFactor is the number of stored values divided by the total slot
// capacity (fan-out) of all nodes, internal and leaf. Occupied child slots
// of internal nodes add to the capacity but not to the count. A healthy, well-compacted tree trends toward 0.5-1.0;
// a value much lower suggests node growth is outpacing actual key density.
func (s Stats) LoadFactor() float64 {
	if s.NodeCount == 0 {
		return 0
	}
	totalSlots := 4*(s.Counts.N4Internal+s.Counts.N4Leaf) +
		16*(s.Counts.N16Internal+s.Counts.N16Leaf) +
		48*(s.Counts.N48Internal+s.Counts.N48Leaf) +
		256*(s.Counts.N256Internal+s.Counts.N256Leaf)
	if totalSlots == 0 {
		return 0
	}
	return float64(s.ValueCount) / float64(totalSlots)
}

func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "nodes: N4=%d/%d N16=%d/%d N48=%d/%d N256=%d/%d (internal/leaf)\n",
		s.Counts.N4Internal, s.Counts.N4Leaf,
		s.Counts.N16Internal, s.Counts.N16Leaf,
		s.Counts.N48Internal, s.Counts.N48Leaf,
		s.Counts.N256Internal, s.Counts.N256Leaf)
	fmt.Fprintf(&b, "total nodes: %d, total values: %d, load factor: %.2f, approx memory: %d bytes\n",
		s.NodeCount, s.ValueCount, s.LoadFactor(), s.ApproxMemoryBytes)
	return b.String()
}

// Stats walks the whole tree and reports its current shape. Like Range, a
// concurrent structural change observed mid-walk restarts the entire walk.
func (t *Tree) Stats() (Stats, error) {
	if t.closed.Load() {
		return Stats{}, ErrClosed
	}
	g := t.pin()
	defer g.Unpin()

	var bo backoff.Backoff
	for {
		s, ok := t.tryStats()
		if ok {
			if provider, ok := t.alloc.(byteStatsProvider); ok {
				s.ApproxMemoryBytes = provider.Stats().BytesLive
			}
			return s, nil
		}
		bo.Wait()
	}
}

func (t *Tree) tryStats() (Stats, bool) {
	root := t.root.Load()
	if root == nil {
		return Stats{}, true
	}
	var s Stats
	if !walkStats(root, 0, &s) {
		return Stats{}, false
	}
	return s, true
}

func tallyType(t node.Type, c *TypeCounts) {
	switch t {
	case node.TypeN4Internal:
		c.N4Internal++
	case node.TypeN4Leaf:
		c.N4Leaf++
	case node.TypeN16Internal:
		c.N16Internal++
	case node.TypeN16Leaf:
		c.N16Leaf++
	case node.TypeN48Internal:
		c.N48Internal++
	case node.TypeN48Leaf:
		c.N48Leaf++
	case node.TypeN256Internal:
		c.N256Internal++
	case node.TypeN256Leaf:
		c.N256Leaf++
	}
}

// walkStats recurses depth-first, tallying h into both the running totals
// and the per-nesting-level breakdown. level is the number of edges from
// the root to h.
func walkStats(h *node.Header, level int, s *Stats) (ok bool) {
	rg, err := node.ReadLock(h)
	if err != nil {
		return false
	}

	tallyType(h.Type(), &s.Counts)
	depthIdx := level
	if depthIdx >= KeyLen {
		depthIdx = KeyLen - 1
	}
	tallyType(h.Type(), &s.PerDepth[depthIdx])
	s.NodeCount++

	if h.Type().IsLeaf() {
		s.ValueCount += h.NumChildren()
		return rg.CheckVersion() == nil
	}

	allOK := true
	node.IterInternal(h, 0, 0xFF, func(_ byte, child *node.Header) bool {
		if !walkStats(child, level+1, s) {
			allOK = false
			return false
		}
		return true
	})
	if !allOK {
		return false
	}
	return rg.CheckVersion() == nil
}
