package node

import "errors"

// ErrLocked and ErrVersionMismatch are the two internal-only retry causes.
// Callers never see these escape the public API; every read section that
// observes one restarts from its last structural safe point.
var (
	ErrLocked          = errors.New("olcart: node locked")
	ErrVersionMismatch = errors.New("olcart: node version changed")
)

// Version word layout:
//
//	bit 0        obsolete
//	bit 1        write-locked
//	bits 2..63   monotonic counter
//
// upgrade() CASes version -> version+2, which flips bit 1 (the node was
// unlocked, so bit 1 was 0) while leaving bit 0 untouched. A plain
// write_unlock() adds 2 again, flipping bit 1 back off. write_unlock_obsolete
// adds 3: +1 sets the obsolete bit, +2 clears the lock bit.
const (
	obsoleteBit = uint64(1)
	lockBit     = uint64(2)
)

func isLocked(v uint64) bool   { return v&lockBit != 0 }
func isObsolete(v uint64) bool { return v&obsoleteBit != 0 }

// ReadGuard is an optimistic read-section token: the version observed at
// read_lock time, to be re-validated with CheckVersion before any value read
// through the node is trusted.
type ReadGuard struct {
	node    *Header
	version uint64
}

// ReadLock begins an optimistic read section on h. It fails fast with
// ErrLocked if the node is currently write-locked or already obsolete —
// the caller must restart its operation from its entry point (typically the
// root).
func ReadLock(h *Header) (ReadGuard, error) {
	v := h.version.Load()
	if isLocked(v) || isObsolete(v) {
		return ReadGuard{}, ErrLocked
	}
	return ReadGuard{node: h, version: v}, nil
}

// CheckVersion re-validates that the node's version has not changed since
// the guard was taken. A read section that spans multiple field reads must
// call this before trusting any of them.
func (g ReadGuard) CheckVersion() error {
	if g.node.version.Load() != g.version {
		return ErrVersionMismatch
	}
	return nil
}

// Obsolete reports whether the node had already been marked obsolete when
// this guard observed it. Combined with CheckVersion this lets a caller
// detect "my parent edge may now point at garbage" without a second load.
func (g ReadGuard) Obsolete() bool { return isObsolete(g.version) }

// Node returns the header the guard is validating. Callers must not mutate
// through it without first upgrading to a WriteGuard.
func (g ReadGuard) Node() *Header { return g.node }

// WriteGuard is held after a successful Upgrade; it grants exclusive
// structural access to the node until Unlock or UnlockObsolete is called.
type WriteGuard struct {
	node *Header
}

// Upgrade attempts to promote a read section to exclusive write access via
// compare-and-swap from the observed version to version+2. On failure the
// caller must back off and restart; g itself is left unusable either way
// per spec — there is no "retry the same guard" path.
func Upgrade(g ReadGuard) (WriteGuard, error) {
	if !g.node.version.CompareAndSwap(g.version, g.version+lockBit) {
		return WriteGuard{}, ErrVersionMismatch
	}
	return WriteGuard{node: g.node}, nil
}

// Node returns the header under exclusive write access.
func (w WriteGuard) Node() *Header { return w.node }

// Unlock releases the write lock, bumping the version by 2.
func (w WriteGuard) Unlock() {
	w.node.version.Add(lockBit)
}

// UnlockObsolete releases the write lock and marks the node obsolete in one
// step, bumping the version by 3. After this call no reader that takes a
// fresh ReadLock will ever observe the node as live again.
func (w WriteGuard) UnlockObsolete() {
	w.node.version.Add(obsoleteBit + lockBit)
}
