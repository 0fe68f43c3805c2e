package olcart

import (
	"github.com/olcart/olcart/internal/backoff"
	"github.com/olcart/olcart/internal/node"
)

// Range calls yield for every key in [lo, hi) in ascending order, stopping
// early if yield returns false. Like Get, Range is lock-free with respect
// to concurrent writers, but a structural change observed partway through
// a scan invalidates the whole scan rather than just the node it touched:
// Range restarts from the root in that case, so yield may see a given key
// more than once across restarts. Callers that can't tolerate that should
// dedupe by key themselves.
func (t *Tree) Range(lo, hi Key, yield func(Key, uint64) bool) error {
	if t.closed.Load() {
		return ErrClosed
	}
	if !lo.Less(hi) {
		return ErrInvalidRange
	}
	g := t.pin()
	defer g.Unpin()

	var bo backoff.Backoff
	for {
		ok := t.tryRange(lo, hi, yield)
		if ok {
			return nil
		}
		bo.Wait()
	}
}

func (t *Tree) tryRange(lo, hi Key, yield func(Key, uint64) bool) (completed bool) {
	root := t.root.Load()
	if root == nil {
		return true
	}
	var path Key
	stopped := false
	ok := scanSubtree(root, 0, path, lo, hi, true, true, yield, &stopped)
	return ok
}

// scanSubtree recursively scans cur and everything beneath it that can
// possibly fall in [lo, hi), given that the key bytes fixed by ancestors
// are held in path[:depth]. loTight/hiTight record whether the path so far
// is still exactly pinned to lo/hi's own bytes (false once the path has
// provably diverged above lo or below hi, at which point the rest of the
// subtree needs no further bound checking).
func scanSubtree(cur *node.Header, depth int, path Key, lo, hi Key, loTight, hiTight bool, yield func(Key, uint64) bool, stopped *bool) (ok bool) {
	rg, err := node.ReadLock(cur)
	if err != nil {
		return false
	}

	prefix := cur.Prefix()
	for i, pb := range prefix {
		path[depth+i] = pb
		if loTight {
			switch {
			case pb < lo[depth+i]:
				return rg.CheckVersion() == nil
			case pb > lo[depth+i]:
				loTight = false
			}
		}
		if hiTight {
			switch {
			case pb > hi[depth+i]:
				return rg.CheckVersion() == nil
			case pb < hi[depth+i]:
				hiTight = false
			}
		}
	}
	depth += len(prefix)
	if rg.CheckVersion() != nil {
		return false
	}

	effLo := byte(0)
	if loTight {
		effLo = lo[depth]
	}
	effHi := byte(0xFF)
	if hiTight {
		if depth == KeyLen-1 {
			if hi[depth] == 0 {
				return rg.CheckVersion() == nil
			}
			effHi = hi[depth] - 1
		} else {
			effHi = hi[depth]
		}
	}
	if effLo > effHi {
		return rg.CheckVersion() == nil
	}

	if depth == KeyLen-1 {
		node.IterLeaf(cur, effLo, effHi, func(b byte, v uint64) bool {
			if *stopped {
				return false
			}
			path[depth] = b
			if !yield(path, v) {
				*stopped = true
				return false
			}
			return true
		})
		return rg.CheckVersion() == nil
	}

	allOK := true
	node.IterInternal(cur, effLo, effHi, func(b byte, child *node.Header) bool {
		if *stopped {
			return false
		}
		childLoTight := loTight && b == lo[depth]
		childHiTight := hiTight && b == hi[depth]
		path[depth] = b
		if !scanSubtree(child, depth+1, path, lo, hi, childLoTight, childHiTight, yield, stopped) {
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
