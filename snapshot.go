package olcart

import (
	"bytes"
	"encoding/binary"

	"github.com/olcart/olcart/internal/node"
)

const snapshotMagic = "OLCART01"

// ToCompactSnapshot serializes the tree into a compact, read-only set image
// that SnapshotOpen can later map back for allocation-free Contains checks.
// It carries key presence only, never a payload. Nodes are laid out
// breadth-first so that most child offsets are small; internal nodes keep
// the same indexing scheme their live in-memory counterpart does (a sorted
// key array for N4/N16, a 256-byte byte-to-slot index for N48, a 256-bit
// presence bitmap for N256), while leaf nodes shrink further to N4/N16's
// bare key-byte array or N48/N256's shared 32-byte bitmap.
//
// ToCompactSnapshot takes no internal locks. The caller must ensure no
// concurrent mutation is in flight — producing a consistent snapshot while
// writers are active would require copying the whole tree under a
// consistent epoch, which this export format does not attempt.
func (t *Tree) ToCompactSnapshot() ([]byte, error) {
	root := t.root.Load()

	var order []*node.Header
	offsets := make(map[*node.Header]uint32)

	if root != nil {
		queue := []*node.Header{root}
		for len(queue) > 0 {
			h := queue[0]
			queue = queue[1:]
			order = append(order, h)
			if !h.Type().IsLeaf() {
				node.IterInternal(h, 0, 0xFF, func(_ byte, child *node.Header) bool {
					queue = append(queue, child)
					return true
				})
			}
		}
		var off uint32
		for _, h := range order {
			offsets[h] = off
			off += nodeEncodedSize(h)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(snapshotMagic)
	writeU32(&buf, 1)
	writeU64(&buf, uint64(t.Len()))
	if root == nil {
		buf.WriteByte(0)
		writeU32(&buf, 0)
	} else {
		buf.WriteByte(1)
		writeU32(&buf, offsets[root])
	}

	for _, h := range order {
		encodeNode(&buf, h, offsets)
	}
	return buf.Bytes(), nil
}

// nodeEncodedSize computes the exact on-disk size of h per the §4.7 shape
// rules. Leaf variants carry presence only, never a value: a snapshot is a
// compact set image, not a map.
func nodeEncodedSize(h *node.Header) uint32 {
	n := uint32(h.NumChildren())
	base := uint32(4 + h.PrefixLen())
	switch h.Type() {
	case node.TypeN4Internal, node.TypeN16Internal:
		return base + n*(1+4)
	case node.TypeN4Leaf, node.TypeN16Leaf:
		return base + n
	case node.TypeN48Internal:
		return base + 256 + n*4
	case node.TypeN48Leaf:
		return base + 32
	case node.TypeN256Internal:
		return base + 32 + n*4
	case node.TypeN256Leaf:
		return base + 32
	default:
		return base
	}
}

func encodeNode(buf *bytes.Buffer, h *node.Header, offsets map[*node.Header]uint32) {
	buf.WriteByte(byte(h.Type()))
	buf.WriteByte(byte(h.PrefixLen()))
	writeU16(buf, uint16(h.NumChildren()))
	buf.Write(h.Prefix())

	switch h.Type() {
	case node.TypeN4Internal, node.TypeN16Internal:
		var keys []byte
		var kids []*node.Header
		node.IterInternal(h, 0, 0xFF, func(b byte, child *node.Header) bool {
			keys = append(keys, b)
			kids = append(kids, child)
			return true
		})
		for i, b := range keys {
			buf.WriteByte(b)
			writeU32(buf, offsets[kids[i]])
		}

	case node.TypeN4Leaf, node.TypeN16Leaf:
		node.IterLeaf(h, 0, 0xFF, func(b byte, _ uint64) bool {
			buf.WriteByte(b)
			return true
		})

	case node.TypeN48Internal:
		var index [256]byte
		var kids []*node.Header
		slot := 1
		node.IterInternal(h, 0, 0xFF, func(b byte, child *node.Header) bool {
			index[b] = byte(slot)
			slot++
			kids = append(kids, child)
			return true
		})
		buf.Write(index[:])
		for _, k := range kids {
			writeU32(buf, offsets[k])
		}

	case node.TypeN256Internal:
		var bitmap [32]byte
		var kids []*node.Header
		node.IterInternal(h, 0, 0xFF, func(b byte, child *node.Header) bool {
			bitmap[b>>3] |= 1 << (b & 7)
			kids = append(kids, child)
			return true
		})
		buf.Write(bitmap[:])
		for _, k := range kids {
			writeU32(buf, offsets[k])
		}

	case node.TypeN48Leaf, node.TypeN256Leaf:
		var bitmap [32]byte
		node.IterLeaf(h, 0, 0xFF, func(b byte, _ uint64) bool {
			bitmap[b>>3] |= 1 << (b & 7)
			return true
		})
		buf.Write(bitmap[:])
	}
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}
