package node

// Allocator mints and retires the eight concrete node/leaf variants. A
// default implementation just wraps Go's own allocator, while a separate
// instrumented implementation can layer byte counters and an optional
// out-of-memory budget on top for fault-injection testing.
//
// The interface lives here rather than alongside its implementations
// because its methods are typed in terms of the concrete node structs;
// implementations import this package, not the other way around.
type Allocator interface {
	AllocN4Internal() (*N4Internal, error)
	AllocN4Leaf() (*N4Leaf, error)
	AllocN16Internal() (*N16Internal, error)
	AllocN16Leaf() (*N16Leaf, error)
	AllocN48Internal() (*N48Internal, error)
	AllocN48Leaf() (*N48Leaf, error)
	AllocN256Internal() (*N256Internal, error)
	AllocN256Leaf() (*N256Leaf, error)

	// Free releases a node previously returned by one of the Alloc* methods.
	// A node that was ever reachable from the tree is freed from an
	// epoch-deferred callback or by Close; a node that was never published
	// (a failed insert's leftovers) is freed directly.
	Free(h *Header)
}

// NewN4Internal allocates and initializes an empty N4 internal node with the
// given compressed prefix.
func NewN4Internal(a Allocator, prefix []byte) (*N4Internal, error) {
	n, err := a.AllocN4Internal()
	if err != nil {
		return nil, err
	}
	n.Header.init(TypeN4Internal, prefix)
	return n, nil
}

// NewN4Leaf allocates and initializes an empty N4 leaf node.
func NewN4Leaf(a Allocator, prefix []byte) (*N4Leaf, error) {
	n, err := a.AllocN4Leaf()
	if err != nil {
		return nil, err
	}
	n.Header.init(TypeN4Leaf, prefix)
	return n, nil
}

// NewN16Internal allocates and initializes an empty N16 internal node.
func NewN16Internal(a Allocator, prefix []byte) (*N16Internal, error) {
	n, err := a.AllocN16Internal()
	if err != nil {
		return nil, err
	}
	n.Header.init(TypeN16Internal, prefix)
	return n, nil
}

// NewN16Leaf allocates and initializes an empty N16 leaf node.
func NewN16Leaf(a Allocator, prefix []byte) (*N16Leaf, error) {
	n, err := a.AllocN16Leaf()
	if err != nil {
		return nil, err
	}
	n.Header.init(TypeN16Leaf, prefix)
	return n, nil
}

// NewN48Internal allocates and initializes an empty N48 internal node,
// including its 256-byte index (all slots sentinel-empty).
func NewN48Internal(a Allocator, prefix []byte) (*N48Internal, error) {
	n, err := a.AllocN48Internal()
	if err != nil {
		return nil, err
	}
	n.Header.init(TypeN48Internal, prefix)
	n.initFreeList()
	return n, nil
}

// NewN48Leaf allocates and initializes an empty N48 leaf node.
func NewN48Leaf(a Allocator, prefix []byte) (*N48Leaf, error) {
	n, err := a.AllocN48Leaf()
	if err != nil {
		return nil, err
	}
	n.Header.init(TypeN48Leaf, prefix)
	n.initFreeList()
	return n, nil
}

// NewN256Internal allocates and initializes an empty N256 internal node.
func NewN256Internal(a Allocator, prefix []byte) (*N256Internal, error) {
	n, err := a.AllocN256Internal()
	if err != nil {
		return nil, err
	}
	n.Header.init(TypeN256Internal, prefix)
	return n, nil
}

// NewN256Leaf allocates and initializes an empty N256 leaf node.
func NewN256Leaf(a Allocator, prefix []byte) (*N256Leaf, error) {
	n, err := a.AllocN256Leaf()
	if err != nil {
		return nil, err
	}
	n.Header.init(TypeN256Leaf, prefix)
	return n, nil
}
