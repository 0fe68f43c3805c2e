package olcart

import (
	"github.com/olcart/olcart/internal/backoff"
	"github.com/olcart/olcart/internal/epoch"
	"github.com/olcart/olcart/internal/node"
)

// Put inserts value under key, or overwrites the existing value if key is
// already present. It reports the value previously stored and whether key
// existed before the call.
func (t *Tree) Put(key Key, value uint64) (old uint64, existed bool, err error) {
	return t.mutate(key, func(old uint64, found bool) (uint64, mutateOp) {
		return value, opStore
	})
}

// Insert is Put without reporting the displaced value, for callers that
// only care whether the key was newly created.
func (t *Tree) Insert(key Key, value uint64) (existed bool, err error) {
	_, existed, err = t.Put(key, value)
	return existed, err
}

// mutate runs decide against the current value for key (if any), applies
// whatever mutateOp it returns, and retries the whole optimistic descent
// from the root whenever a concurrent structural change is detected.
// decide may be called more than once if retries occur, and must be free
// of side effects beyond its return value.
func (t *Tree) mutate(key Key, decide func(old uint64, found bool) (uint64, mutateOp)) (old uint64, found bool, err error) {
	if t.closed.Load() {
		return 0, false, ErrClosed
	}
	g := t.pin()
	defer g.Unpin()

	var bo backoff.Backoff
	for {
		v, f, done, retry, err := t.tryMutate(g, key, decide)
		if err != nil {
			// The only error tryMutate's descent can produce is an
			// allocator failure on the growth/insert path; internal lock
			// contention is signaled via retry, not err.
			return 0, false, ErrOutOfMemory
		}
		if done {
			return v, f, nil
		}
		_ = retry
		bo.Wait()
	}
}

// tryMutate performs one optimistic-descent mutation attempt.
func (t *Tree) tryMutate(g *epoch.Guard, key Key, decide func(uint64, bool) (uint64, mutateOp)) (old uint64, found, done, retry bool, err error) {
	root := t.root.Load()
	if root == nil {
		newVal, op := decide(0, false)
		if op != opStore {
			return 0, false, true, false, nil
		}
		leaf, err := t.buildLeaf(key, 0, newVal)
		if err != nil {
			return 0, false, false, false, err
		}
		if !t.root.CompareAndSwap(nil, &leaf.Header) {
			t.alloc.Free(&leaf.Header)
			return 0, false, false, true, nil
		}
		t.size.Add(1)
		return 0, false, true, false, nil
	}

	depth := 0
	var parent *node.Header
	var parentGuard node.ReadGuard
	parentIsRoot := true
	var parentByte byte
	cur := root

	for {
		curGuard, err := node.ReadLock(cur)
		if err != nil {
			return 0, false, false, true, nil
		}

		if !matchesFullPrefix(cur, key, depth) {
			return t.splitAndStore(g, key, depth, parent, parentIsRoot, parentGuard, parentByte, cur, curGuard, decide)
		}
		depth += cur.PrefixLen()

		if depth == KeyLen-1 {
			return t.storeInLeaf(g, key, depth, parent, parentIsRoot, parentGuard, parentByte, cur, curGuard, decide)
		}

		branchByte := key[depth]
		child, ok := node.InternalChild(cur, branchByte)
		if curGuard.CheckVersion() != nil {
			return 0, false, false, true, nil
		}
		if !ok {
			return t.insertMissingChild(g, key, depth, branchByte, parent, parentIsRoot, parentGuard, parentByte, cur, curGuard, decide)
		}

		parent = cur
		parentGuard = curGuard
		parentIsRoot = false
		parentByte = branchByte
		cur = child
		depth++
	}
}

// installReplacement swaps cur's identity for grown, either as the tree
// root or as parent's child at parentByte.
func (t *Tree) installReplacement(parent *node.Header, parentIsRoot bool, parentByte byte, grown *node.Header) {
	if parentIsRoot {
		t.root.Store(grown)
		return
	}
	node.ChangeChildAny(parent, parentByte, grown)
}

// splitAndStore handles the case where cur's compressed prefix does not
// fully match the key: the key is provably absent under cur, so only
// opStore does any work, creating a new branch node above the (prefix-
// shortened) cur and a brand-new leaf for the diverging key.
func (t *Tree) splitAndStore(
	g *epoch.Guard, key Key, depth int,
	parent *node.Header, parentIsRoot bool, parentGuard node.ReadGuard, parentByte byte,
	cur *node.Header, curGuard node.ReadGuard,
	decide func(uint64, bool) (uint64, mutateOp),
) (old uint64, found, done, retry bool, err error) {
	newVal, op := decide(0, false)
	if op != opStore {
		if curGuard.CheckVersion() != nil {
			return 0, false, false, true, nil
		}
		return 0, false, true, false, nil
	}

	var parentWG node.WriteGuard
	haveParentWG := false
	if !parentIsRoot {
		wg, err := node.Upgrade(parentGuard)
		if err != nil {
			return 0, false, false, true, nil
		}
		parentWG = wg
		haveParentWG = true
	}
	curWG, err := node.Upgrade(curGuard)
	if err != nil {
		if haveParentWG {
			parentWG.Unlock()
		}
		return 0, false, false, true, nil
	}

	prefix := cur.Prefix()
	limit := len(prefix)
	if depth+limit > KeyLen {
		limit = KeyLen - depth
	}
	matched := commonPrefixLen(prefix, key[depth:depth+limit])
	if matched >= len(prefix) {
		// Prefix now matches fully under the write lock (another writer
		// already resolved the mismatch); bail and let the caller retry
		// the whole descent from scratch.
		curWG.Unlock()
		if haveParentWG {
			parentWG.Unlock()
		}
		return 0, false, false, true, nil
	}

	divergeByte := prefix[matched]
	newKeyByte := key[depth+matched]

	branch, err := node.NewN4Internal(t.alloc, prefix[:matched])
	if err != nil {
		curWG.Unlock()
		if haveParentWG {
			parentWG.Unlock()
		}
		return 0, false, false, false, err
	}
	newLeaf, err := t.buildLeaf(key, depth+matched+1, newVal)
	if err != nil {
		t.alloc.Free(&branch.Header)
		curWG.Unlock()
		if haveParentWG {
			parentWG.Unlock()
		}
		return 0, false, false, false, err
	}

	remaining := make([]byte, len(prefix)-matched-1)
	copy(remaining, prefix[matched+1:])
	curWG.Node().SetPrefix(remaining)

	branch.InsertChild(divergeByte, cur)
	branch.InsertChild(newKeyByte, &newLeaf.Header)

	t.installReplacement(parent, parentIsRoot, parentByte, &branch.Header)

	curWG.Unlock()
	if haveParentWG {
		parentWG.Unlock()
	}
	t.size.Add(1)
	return 0, false, true, false, nil
}

// insertMissingChild handles descending into an internal node that has no
// edge yet for the required key byte.
func (t *Tree) insertMissingChild(
	g *epoch.Guard, key Key, depth int, branchByte byte,
	parent *node.Header, parentIsRoot bool, parentGuard node.ReadGuard, parentByte byte,
	cur *node.Header, curGuard node.ReadGuard,
	decide func(uint64, bool) (uint64, mutateOp),
) (old uint64, found, done, retry bool, err error) {
	newVal, op := decide(0, false)
	if op != opStore {
		if curGuard.CheckVersion() != nil {
			return 0, false, false, true, nil
		}
		return 0, false, true, false, nil
	}

	optimisticFull := cur.IsFull()
	var parentWG node.WriteGuard
	haveParentWG := false
	if optimisticFull && !parentIsRoot {
		wg, err := node.Upgrade(parentGuard)
		if err != nil {
			return 0, false, false, true, nil
		}
		parentWG = wg
		haveParentWG = true
	}
	curWG, err := node.Upgrade(curGuard)
	if err != nil {
		if haveParentWG {
			parentWG.Unlock()
		}
		return 0, false, false, true, nil
	}

	newLeaf, err := t.buildLeaf(key, depth+1, newVal)
	if err != nil {
		curWG.Unlock()
		if haveParentWG {
			parentWG.Unlock()
		}
		return 0, false, false, false, err
	}

	if cur.IsFull() {
		if !parentIsRoot && !haveParentWG {
			t.alloc.Free(&newLeaf.Header)
			curWG.Unlock()
			return 0, false, false, true, nil
		}
		grown, err := node.Grow(t.alloc, cur)
		if err != nil {
			t.alloc.Free(&newLeaf.Header)
			curWG.Unlock()
			if haveParentWG {
				parentWG.Unlock()
			}
			return 0, false, false, false, err
		}
		node.InsertChildAny(grown, branchByte, &newLeaf.Header)
		t.installReplacement(parent, parentIsRoot, parentByte, grown)
		curWG.UnlockObsolete()
		if haveParentWG {
			parentWG.Unlock()
		}
		retired := cur
		g.Defer(func() { t.alloc.Free(retired) })
		t.size.Add(1)
		return 0, false, true, false, nil
	}

	node.InsertChildAny(cur, branchByte, &newLeaf.Header)
	curWG.Unlock()
	if haveParentWG {
		parentWG.Unlock()
	}
	t.size.Add(1)
	return 0, false, true, false, nil
}

// storeInLeaf handles the terminal-depth case where cur's children are
// payload values rather than subnode pointers.
func (t *Tree) storeInLeaf(
	g *epoch.Guard, key Key, depth int,
	parent *node.Header, parentIsRoot bool, parentGuard node.ReadGuard, parentByte byte,
	cur *node.Header, curGuard node.ReadGuard,
	decide func(uint64, bool) (uint64, mutateOp),
) (old uint64, found, done, retry bool, err error) {
	b := key[depth]
	curOld, curFound := node.LeafValue(cur, b)
	if curGuard.CheckVersion() != nil {
		return 0, false, false, true, nil
	}

	newVal, op := decide(curOld, curFound)

	switch op {
	case opNoop:
		if curGuard.CheckVersion() != nil {
			return 0, false, false, true, nil
		}
		return curOld, curFound, true, false, nil

	case opStore:
		if curFound {
			curWG, err := node.Upgrade(curGuard)
			if err != nil {
				return 0, false, false, true, nil
			}
			node.ChangeValueAny(cur, b, newVal)
			curWG.Unlock()
			return curOld, true, true, false, nil
		}
		return t.growLeafAndStore(g, parent, parentIsRoot, parentGuard, parentByte, cur, curGuard, b, newVal)

	case opRemove:
		if !curFound {
			if curGuard.CheckVersion() != nil {
				return 0, false, false, true, nil
			}
			return 0, false, true, false, nil
		}
		return t.removeFromLeaf(g, parent, parentIsRoot, parentGuard, parentByte, cur, curGuard, b, curOld)

	default:
		return 0, false, true, false, nil
	}
}

func (t *Tree) growLeafAndStore(
	g *epoch.Guard,
	parent *node.Header, parentIsRoot bool, parentGuard node.ReadGuard, parentByte byte,
	cur *node.Header, curGuard node.ReadGuard,
	b byte, newVal uint64,
) (old uint64, found, done, retry bool, err error) {
	optimisticFull := cur.IsFull()
	var parentWG node.WriteGuard
	haveParentWG := false
	if optimisticFull && !parentIsRoot {
		wg, err := node.Upgrade(parentGuard)
		if err != nil {
			return 0, false, false, true, nil
		}
		parentWG = wg
		haveParentWG = true
	}
	curWG, err := node.Upgrade(curGuard)
	if err != nil {
		if haveParentWG {
			parentWG.Unlock()
		}
		return 0, false, false, true, nil
	}

	if cur.IsFull() {
		if !parentIsRoot && !haveParentWG {
			curWG.Unlock()
			return 0, false, false, true, nil
		}
		grown, err := node.Grow(t.alloc, cur)
		if err != nil {
			curWG.Unlock()
			if haveParentWG {
				parentWG.Unlock()
			}
			return 0, false, false, false, err
		}
		node.InsertValueAny(grown, b, newVal)
		t.installReplacement(parent, parentIsRoot, parentByte, grown)
		curWG.UnlockObsolete()
		if haveParentWG {
			parentWG.Unlock()
		}
		retired := cur
		g.Defer(func() { t.alloc.Free(retired) })
		t.size.Add(1)
		return 0, false, true, false, nil
	}

	node.InsertValueAny(cur, b, newVal)
	curWG.Unlock()
	if haveParentWG {
		parentWG.Unlock()
	}
	t.size.Add(1)
	return 0, false, true, false, nil
}

// removeFromLeaf deletes key byte b's value from cur. If cur becomes
// entirely empty, its edge is detached from parent (or the root pointer is
// cleared) and cur is retired through epoch reclamation. Single-child
// internal nodes left behind by a removal are not collapsed back into a
// compressed path; see DESIGN.md.
func (t *Tree) removeFromLeaf(
	g *epoch.Guard,
	parent *node.Header, parentIsRoot bool, parentGuard node.ReadGuard, parentByte byte,
	cur *node.Header, curGuard node.ReadGuard,
	b byte, oldVal uint64,
) (old uint64, found, done, retry bool, err error) {
	optimisticLast := cur.NumChildren() <= 1
	var parentWG node.WriteGuard
	haveParentWG := false
	if optimisticLast && !parentIsRoot {
		wg, err := node.Upgrade(parentGuard)
		if err != nil {
			return 0, false, false, true, nil
		}
		parentWG = wg
		haveParentWG = true
	}
	curWG, err := node.Upgrade(curGuard)
	if err != nil {
		if haveParentWG {
			parentWG.Unlock()
		}
		return 0, false, false, true, nil
	}

	willEmpty := cur.NumChildren() <= 1
	if willEmpty && !parentIsRoot && !haveParentWG {
		curWG.Unlock()
		return 0, false, false, true, nil
	}

	node.RemoveValueAny(cur, b)
	t.size.Add(-1)

	if cur.NumChildren() > 0 {
		curWG.Unlock()
		if haveParentWG {
			parentWG.Unlock()
		}
		return oldVal, true, true, false, nil
	}

	if parentIsRoot {
		t.root.Store(nil)
	} else {
		node.RemoveChildAny(parent, parentByte)
	}
	curWG.UnlockObsolete()
	if haveParentWG {
		parentWG.Unlock()
	}
	retired := cur
	g.Defer(func() { t.alloc.Free(retired) })
	return oldVal, true, true, false, nil
}
