package olcart

import (
	"bytes"
	"sync/atomic"

	"github.com/olcart/olcart/internal/epoch"
	"github.com/olcart/olcart/internal/node"
	"github.com/olcart/olcart/internal/xdebug"
)

// Tree is a concurrent, ordered key-value index over fixed 8-byte keys and
// uint64 payloads. The zero value is not usable; construct one with Open.
//
// All exported methods are safe for concurrent use by multiple goroutines.
// Lookups and range scans never block, even during concurrent mutation;
// mutations take short-lived write locks on only the handful of nodes they
// touch, coupled one step at a time down the path from the root.
type Tree struct {
	root  atomic.Pointer[node.Header]
	alloc node.Allocator
	epoch *epoch.Domain
	size  atomic.Int64
	drain func(Key, uint64)

	closed atomic.Bool
}

// Open constructs an empty Tree configured by opts.
func Open(opts Options) *Tree {
	return &Tree{
		alloc: opts.allocator(),
		epoch: epoch.NewDomain(opts.epochThreshold()),
		drain: opts.Drain,
	}
}

// drainFlushIterations bounds how many times Close flushes the epoch domain
// to give already-deferred frees (from growth/remove before Close ran) a
// chance to run, since Flush only advances the epoch by one step per call.
const drainFlushIterations = 128

// Close marks the tree closed, invokes the configured drain callback once
// per (key, value) pair still present, and frees every remaining node.
// Close assumes no concurrent callers — like ToCompactSnapshot, it performs
// no locking of its own. After the DFS free pass, the epoch domain is
// flushed repeatedly so any frees deferred by earlier growth or remove
// calls also run before Close returns.
func (t *Tree) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	if root := t.root.Load(); root != nil {
		var path Key
		t.drainAndFree(root, 0, path)
		t.root.Store(nil)
	}
	for i := 0; i < drainFlushIterations; i++ {
		t.epoch.Flush()
	}
	return nil
}

// drainAndFree walks h and everything beneath it, invoking t.drain on every
// stored (key, value) pair and freeing every node post-order so a node is
// never freed before its children have been visited.
func (t *Tree) drainAndFree(h *node.Header, depth int, path Key) {
	prefix := h.Prefix()
	copy(path[depth:], prefix)
	depth += len(prefix)

	if h.Type().IsLeaf() {
		if t.drain != nil {
			node.IterLeaf(h, 0, 0xFF, func(b byte, v uint64) bool {
				path[depth] = b
				t.drain(path, v)
				return true
			})
		}
		t.alloc.Free(h)
		return
	}

	node.IterInternal(h, 0, 0xFF, func(b byte, child *node.Header) bool {
		path[depth] = b
		t.drainAndFree(child, depth+1, path)
		return true
	})
	t.alloc.Free(h)
}

// Len returns the number of keys currently stored. It is tracked with a
// plain atomic counter rather than derived from the tree, so it is exact
// but does not itself validate against concurrent structural changes.
func (t *Tree) Len() int {
	return int(t.size.Load())
}

// IsEmpty reports whether the tree currently holds no keys.
func (t *Tree) IsEmpty() bool {
	return t.Len() == 0
}

// pin begins an epoch-protected section; the caller must call guard.Unpin
// exactly once, typically via defer, before returning from the exported
// method that called pin.
func (t *Tree) pin() *epoch.Guard {
	return t.epoch.Pin()
}

// buildLeaf allocates a single new leaf-type node holding value under the
// final byte of key, with every byte between startDepth and the last byte
// compressed into the node's prefix. This is the only node ever created for
// a brand-new, previously untouched path through the tree.
func (t *Tree) buildLeaf(key Key, startDepth int, value uint64) (*node.N4Leaf, error) {
	xdebug.Assert(startDepth <= KeyLen-1, "buildLeaf: startDepth %d leaves no room for a branch byte", startDepth)
	prefix := key[startDepth : KeyLen-1]
	leaf, err := node.NewN4Leaf(t.alloc, prefix)
	if err != nil {
		return nil, err
	}
	leaf.InsertValue(key[KeyLen-1], value)
	return leaf, nil
}

// commonPrefixLen returns the number of leading bytes shared by a and b.
func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// matchesFullPrefix reports whether h's stored prefix equals key's bytes at
// [depth, depth+prefixLen).
func matchesFullPrefix(h *node.Header, key Key, depth int) bool {
	p := h.Prefix()
	return bytes.Equal(p, key[depth:depth+len(p)])
}
