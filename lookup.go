package olcart

import (
	"github.com/olcart/olcart/internal/backoff"
	"github.com/olcart/olcart/internal/node"
)

// Get returns the value stored for key and whether it was present. Get
// never blocks on a concurrent writer: it restarts its descent from the
// root whenever it detects that a node it read was concurrently modified.
func (t *Tree) Get(key Key) (uint64, bool, error) {
	if t.closed.Load() {
		return 0, false, ErrClosed
	}
	g := t.pin()
	defer g.Unpin()

	var bo backoff.Backoff
	for {
		v, found, retry := t.tryGet(key)
		if !retry {
			return v, found, nil
		}
		bo.Wait()
	}
}

// tryGet performs one optimistic descent attempt. retry is true if the
// descent was invalidated partway through and must be restarted.
func (t *Tree) tryGet(key Key) (value uint64, found bool, retry bool) {
	cur := t.root.Load()
	if cur == nil {
		return 0, false, false
	}
	depth := 0
	for {
		rg, err := node.ReadLock(cur)
		if err != nil {
			return 0, false, true
		}
		if !matchesFullPrefix(cur, key, depth) {
			if rg.CheckVersion() != nil {
				return 0, false, true
			}
			return 0, false, false
		}
		depth += cur.PrefixLen()

		if depth == KeyLen-1 {
			v, ok := node.LeafValue(cur, key[depth])
			if rg.CheckVersion() != nil {
				return 0, false, true
			}
			return v, ok, false
		}

		child, ok := node.InternalChild(cur, key[depth])
		if rg.CheckVersion() != nil {
			return 0, false, true
		}
		if !ok {
			return 0, false, false
		}
		cur = child
		depth++
	}
}
