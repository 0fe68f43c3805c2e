package node

import "sync/atomic"

// Header is the common base embedded as the first field of every concrete
// node/leaf variant: a type discriminant, population count, compressed path
// prefix, and an atomic optimistic-lock-coupling version word.
//
// Because Header is always the first field, a *Header obtained from a
// variant's address and a variant pointer obtained from a *Header via
// unsafe.Pointer round-trip safely.
type Header struct {
	version     atomic.Uint64
	typ         Type
	numChildren uint8
	prefixLen   uint8
	prefix      [MaxPrefixLen]byte
}

// Type returns the node's variant/leaf discriminant.
func (h *Header) Type() Type { return h.typ }

// NumChildren returns the current population of the node.
func (h *Header) NumChildren() int { return int(h.numChildren) }

// Prefix returns the compressed path prefix bytes stored in this node.
func (h *Header) Prefix() []byte { return h.prefix[:h.prefixLen] }

// PrefixLen returns the number of valid prefix bytes.
func (h *Header) PrefixLen() int { return int(h.prefixLen) }

// SetPrefix stores up to MaxPrefixLen bytes of compressed path.
func (h *Header) SetPrefix(p []byte) {
	n := copy(h.prefix[:], p)
	h.prefixLen = uint8(n)
}

func (h *Header) init(t Type, prefix []byte) {
	h.typ = t
	h.numChildren = 0
	h.SetPrefix(prefix)
}

// IsFull reports whether the node has reached its variant's fan-out.
func (h *Header) IsFull() bool {
	return int(h.numChildren) >= h.typ.Fanout() && h.typ.Fanout() != 256
}
