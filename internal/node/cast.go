package node

import "unsafe"

// Since Header is always embedded as the first field of every variant, a
// *Header and the corresponding variant pointer share an address; casting
// between them is sound as long as the caller has checked h.Type() first.

func AsN4Internal(h *Header) *N4Internal     { return (*N4Internal)(unsafe.Pointer(h)) }
func AsN4Leaf(h *Header) *N4Leaf             { return (*N4Leaf)(unsafe.Pointer(h)) }
func AsN16Internal(h *Header) *N16Internal   { return (*N16Internal)(unsafe.Pointer(h)) }
func AsN16Leaf(h *Header) *N16Leaf           { return (*N16Leaf)(unsafe.Pointer(h)) }
func AsN48Internal(h *Header) *N48Internal   { return (*N48Internal)(unsafe.Pointer(h)) }
func AsN48Leaf(h *Header) *N48Leaf           { return (*N48Leaf)(unsafe.Pointer(h)) }
func AsN256Internal(h *Header) *N256Internal { return (*N256Internal)(unsafe.Pointer(h)) }
func AsN256Leaf(h *Header) *N256Leaf         { return (*N256Leaf)(unsafe.Pointer(h)) }

// InternalChild looks up the child header reached by key byte b from an
// internal node of any fan-out, dispatching on h.Type().
func InternalChild(h *Header, b byte) (*Header, bool) {
	switch h.Type() {
	case TypeN4Internal:
		return AsN4Internal(h).GetChild(b)
	case TypeN16Internal:
		return AsN16Internal(h).GetChild(b)
	case TypeN48Internal:
		return AsN48Internal(h).GetChild(b)
	case TypeN256Internal:
		return AsN256Internal(h).GetChild(b)
	default:
		return nil, false
	}
}

// LeafValue looks up the payload stored under key byte b from a leaf node of
// any fan-out, dispatching on h.Type().
func LeafValue(h *Header, b byte) (uint64, bool) {
	switch h.Type() {
	case TypeN4Leaf:
		return AsN4Leaf(h).GetValue(b)
	case TypeN16Leaf:
		return AsN16Leaf(h).GetValue(b)
	case TypeN48Leaf:
		return AsN48Leaf(h).GetValue(b)
	case TypeN256Leaf:
		return AsN256Leaf(h).GetValue(b)
	default:
		return 0, false
	}
}

// IterInternal calls yield for every (byte, child) edge of h, whose key byte
// lies in [lo, hi], dispatching on h.Type().
func IterInternal(h *Header, lo, hi byte, yield func(byte, *Header) bool) {
	switch h.Type() {
	case TypeN4Internal:
		AsN4Internal(h).IterChildren(lo, hi, yield)
	case TypeN16Internal:
		AsN16Internal(h).IterChildren(lo, hi, yield)
	case TypeN48Internal:
		AsN48Internal(h).IterChildren(lo, hi, yield)
	case TypeN256Internal:
		AsN256Internal(h).IterChildren(lo, hi, yield)
	}
}

// IterLeaf calls yield for every (byte, value) payload of h, whose key byte
// lies in [lo, hi], dispatching on h.Type().
func IterLeaf(h *Header, lo, hi byte, yield func(byte, uint64) bool) {
	switch h.Type() {
	case TypeN4Leaf:
		AsN4Leaf(h).IterValues(lo, hi, yield)
	case TypeN16Leaf:
		AsN16Leaf(h).IterValues(lo, hi, yield)
	case TypeN48Leaf:
		AsN48Leaf(h).IterValues(lo, hi, yield)
	case TypeN256Leaf:
		AsN256Leaf(h).IterValues(lo, hi, yield)
	}
}
