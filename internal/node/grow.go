package node

// Grow replaces a full node with the next larger fan-out variant holding
// the same edges, preserving its compressed path prefix. The caller must
// hold h's write lock and is responsible for swapping the returned header
// into h's parent (or the tree root) and retiring h via epoch reclamation —
// Grow does not mutate h or free it.
func Grow(a Allocator, h *Header) (*Header, error) {
	prefix := h.Prefix()
	switch h.Type() {
	case TypeN4Internal:
		dst, err := NewN16Internal(a, prefix)
		if err != nil {
			return nil, err
		}
		AsN4Internal(h).CopyInto(dst)
		return &dst.Header, nil
	case TypeN4Leaf:
		dst, err := NewN16Leaf(a, prefix)
		if err != nil {
			return nil, err
		}
		AsN4Leaf(h).CopyInto(dst)
		return &dst.Header, nil
	case TypeN16Internal:
		dst, err := NewN48Internal(a, prefix)
		if err != nil {
			return nil, err
		}
		AsN16Internal(h).CopyInto(dst)
		return &dst.Header, nil
	case TypeN16Leaf:
		dst, err := NewN48Leaf(a, prefix)
		if err != nil {
			return nil, err
		}
		AsN16Leaf(h).CopyInto(dst)
		return &dst.Header, nil
	case TypeN48Internal:
		dst, err := NewN256Internal(a, prefix)
		if err != nil {
			return nil, err
		}
		AsN48Internal(h).CopyInto(dst)
		return &dst.Header, nil
	case TypeN48Leaf:
		dst, err := NewN256Leaf(a, prefix)
		if err != nil {
			return nil, err
		}
		AsN48Leaf(h).CopyInto(dst)
		return &dst.Header, nil
	default:
		panic("node: Grow called on a node with no larger variant")
	}
}

// InsertChildAny inserts a child edge into an internal node of any fan-out,
// dispatching on h.Type(). The caller must hold h's write lock and must
// have already checked !h.IsFull().
func InsertChildAny(h *Header, b byte, child *Header) {
	switch h.Type() {
	case TypeN4Internal:
		AsN4Internal(h).InsertChild(b, child)
	case TypeN16Internal:
		AsN16Internal(h).InsertChild(b, child)
	case TypeN48Internal:
		AsN48Internal(h).InsertChild(b, child)
	case TypeN256Internal:
		AsN256Internal(h).InsertChild(b, child)
	}
}

// InsertValueAny inserts a payload into a leaf node of any fan-out.
func InsertValueAny(h *Header, b byte, v uint64) {
	switch h.Type() {
	case TypeN4Leaf:
		AsN4Leaf(h).InsertValue(b, v)
	case TypeN16Leaf:
		AsN16Leaf(h).InsertValue(b, v)
	case TypeN48Leaf:
		AsN48Leaf(h).InsertValue(b, v)
	case TypeN256Leaf:
		AsN256Leaf(h).InsertValue(b, v)
	}
}

// ChangeValueAny overwrites an existing payload, returning the previous
// value and whether b was present.
func ChangeValueAny(h *Header, b byte, v uint64) (uint64, bool) {
	switch h.Type() {
	case TypeN4Leaf:
		return AsN4Leaf(h).ChangeValue(b, v)
	case TypeN16Leaf:
		return AsN16Leaf(h).ChangeValue(b, v)
	case TypeN48Leaf:
		return AsN48Leaf(h).ChangeValue(b, v)
	case TypeN256Leaf:
		return AsN256Leaf(h).ChangeValue(b, v)
	default:
		return 0, false
	}
}

// ChangeChildAny overwrites an existing child pointer, returning the
// previous one.
func ChangeChildAny(h *Header, b byte, child *Header) *Header {
	switch h.Type() {
	case TypeN4Internal:
		return AsN4Internal(h).ChangeChild(b, child)
	case TypeN16Internal:
		return AsN16Internal(h).ChangeChild(b, child)
	case TypeN48Internal:
		return AsN48Internal(h).ChangeChild(b, child)
	case TypeN256Internal:
		return AsN256Internal(h).ChangeChild(b, child)
	default:
		return nil
	}
}

// RemoveChildAny deletes a child edge.
func RemoveChildAny(h *Header, b byte) {
	switch h.Type() {
	case TypeN4Internal:
		AsN4Internal(h).RemoveChild(b)
	case TypeN16Internal:
		AsN16Internal(h).RemoveChild(b)
	case TypeN48Internal:
		AsN48Internal(h).RemoveChild(b)
	case TypeN256Internal:
		AsN256Internal(h).RemoveChild(b)
	}
}

// RemoveValueAny deletes a payload.
func RemoveValueAny(h *Header, b byte) {
	switch h.Type() {
	case TypeN4Leaf:
		AsN4Leaf(h).RemoveValue(b)
	case TypeN16Leaf:
		AsN16Leaf(h).RemoveValue(b)
	case TypeN48Leaf:
		AsN48Leaf(h).RemoveValue(b)
	case TypeN256Leaf:
		AsN256Leaf(h).RemoveValue(b)
	}
}
