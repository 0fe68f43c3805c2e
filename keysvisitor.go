package olcart

import "github.com/olcart/olcart/internal/backoff"

// Keys calls yield for every key currently stored, in ascending order,
// stopping early if yield returns false. It shares Range's whole-scan
// restart behavior on concurrent structural changes.
func (t *Tree) Keys(yield func(Key, uint64) bool) error {
	if t.closed.Load() {
		return ErrClosed
	}
	g := t.pin()
	defer g.Unpin()

	var bo backoff.Backoff
	var zero Key
	for {
		root := t.root.Load()
		if root == nil {
			return nil
		}
		var path Key
		stopped := false
		if scanSubtree(root, 0, path, zero, zero, true, false, yield, &stopped) {
			return nil
		}
		bo.Wait()
	}
}
