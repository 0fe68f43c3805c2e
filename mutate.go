package olcart

// Remove deletes key if present, reporting the value that was removed.
func (t *Tree) Remove(key Key) (old uint64, existed bool, err error) {
	return t.mutate(key, func(old uint64, found bool) (uint64, mutateOp) {
		if !found {
			return 0, opNoop
		}
		return 0, opRemove
	})
}

// ComputeOrInsert atomically replaces the value stored for key with
// fn(old, found), inserting a new entry if key was absent. It reports the
// value previously stored, if any. fn may be invoked more than once if
// retries occur and must be free of side effects beyond its return value.
func (t *Tree) ComputeOrInsert(key Key, fn func(old uint64, found bool) (newValue uint64)) (previous uint64, found bool, err error) {
	return t.mutate(key, func(old uint64, found bool) (uint64, mutateOp) {
		return fn(old, found), opStore
	})
}

// ComputeIfPresent atomically replaces the value stored for key with
// fn(old), or removes key entirely if fn reports remove. It is a no-op if
// key is absent. found reports whether key existed at the time fn ran.
func (t *Tree) ComputeIfPresent(key Key, fn func(old uint64) (newValue uint64, remove bool)) (found bool, err error) {
	_, found, err = t.mutate(key, func(old uint64, found bool) (uint64, mutateOp) {
		if !found {
			return 0, opNoop
		}
		newValue, remove := fn(old)
		if remove {
			return 0, opRemove
		}
		return newValue, opStore
	})
	return found, err
}

// CompareExchange atomically replaces the value stored for key with
// newValue, but only if the current value equals expected. It returns
// ErrNotFound if key does not exist, or ErrCompareMismatch if the current
// value differs from expected.
func (t *Tree) CompareExchange(key Key, expected, newValue uint64) error {
	var notFound, mismatch bool
	_, _, err := t.mutate(key, func(old uint64, found bool) (uint64, mutateOp) {
		notFound, mismatch = false, false
		if !found {
			notFound = true
			return 0, opNoop
		}
		if old != expected {
			mismatch = true
			return 0, opNoop
		}
		return newValue, opStore
	})
	if err != nil {
		return err
	}
	switch {
	case notFound:
		return ErrNotFound
	case mismatch:
		return ErrCompareMismatch
	default:
		return nil
	}
}
