package olcart

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/bits"

	"github.com/olcart/olcart/internal/node"
)

// ErrBadSnapshot is returned by SnapshotOpen when data does not begin with
// a recognized snapshot header.
var ErrBadSnapshot = errors.New("olcart: not a valid snapshot")

const snapshotHeaderSize = len(snapshotMagic) + 4 + 8 + 1 + 4

// Reader serves point lookups directly against a byte slice produced by
// Tree.ToCompactSnapshot, without allocating or copying node memory. data
// may be a plain []byte or a memory-mapped region; Reader only ever reads
// from it.
type Reader struct {
	data     []byte
	hasRoot  bool
	root     uint32
	entries  uint64
	nodesOff int
}

// SnapshotOpen parses a byte slice produced by ToCompactSnapshot.
func SnapshotOpen(data []byte) (*Reader, error) {
	if len(data) < snapshotHeaderSize || string(data[:len(snapshotMagic)]) != snapshotMagic {
		return nil, ErrBadSnapshot
	}
	p := len(snapshotMagic)
	_ = binary.BigEndian.Uint32(data[p : p+4]) // format version, currently always 1
	p += 4
	entries := binary.BigEndian.Uint64(data[p : p+8])
	p += 8
	hasRoot := data[p] != 0
	p++
	root := binary.BigEndian.Uint32(data[p : p+4])
	p += 4
	return &Reader{data: data, hasRoot: hasRoot, root: root, entries: entries, nodesOff: p}, nil
}

// Len returns the number of keys recorded in the snapshot.
func (r *Reader) Len() int { return int(r.entries) }

// Contains reports whether key was present when the snapshot was taken.
// The snapshot image is a compact set, not a map: it carries no payload,
// only presence.
func (r *Reader) Contains(key Key) (bool, error) {
	if !r.hasRoot {
		return false, nil
	}
	off := int(r.root)
	depth := 0
	for {
		nh, err := r.readHeader(off)
		if err != nil {
			return false, err
		}
		if !bytes.Equal(nh.prefix, key[depth:depth+len(nh.prefix)]) {
			return false, nil
		}
		depth += len(nh.prefix)

		if depth == KeyLen-1 {
			return r.lookupLeaf(nh, key[depth])
		}
		childOff, ok := r.lookupChildOffset(nh, key[depth])
		if !ok {
			return false, nil
		}
		off = int(childOff)
		depth++
	}
}

type snapNodeHeader struct {
	typ         node.Type
	prefix      []byte
	numChildren int
	regionOff   int // start of the children region, relative to r.data
}

func (r *Reader) readHeader(off int) (snapNodeHeader, error) {
	base := r.nodesOff + off
	if base+4 > len(r.data) {
		return snapNodeHeader{}, ErrBadSnapshot
	}
	typ := node.Type(r.data[base])
	prefixLen := int(r.data[base+1])
	numChildren := int(binary.BigEndian.Uint16(r.data[base+2 : base+4]))
	prefixStart := base + 4
	regionOff := prefixStart + prefixLen
	if regionOff > len(r.data) {
		return snapNodeHeader{}, ErrBadSnapshot
	}
	return snapNodeHeader{
		typ:         typ,
		prefix:      r.data[prefixStart:regionOff],
		numChildren: numChildren,
		regionOff:   regionOff,
	}, nil
}

func (r *Reader) lookupChildOffset(nh snapNodeHeader, b byte) (uint32, bool) {
	region := r.data[nh.regionOff:]
	switch nh.typ {
	case node.TypeN4Internal, node.TypeN16Internal:
		for i := 0; i < nh.numChildren; i++ {
			entry := region[i*5 : i*5+5]
			if entry[0] == b {
				return binary.BigEndian.Uint32(entry[1:5]), true
			}
		}
		return 0, false

	case node.TypeN48Internal:
		index := region[:256]
		slot := index[b]
		if slot == 0 {
			return 0, false
		}
		pos := int(slot - 1)
		off := 256 + pos*4
		return binary.BigEndian.Uint32(region[off : off+4]), true

	case node.TypeN256Internal:
		bitmap := region[:32]
		if bitmap[b>>3]&(1<<(b&7)) == 0 {
			return 0, false
		}
		pos := bitmapRank(bitmap, b)
		off := 32 + pos*4
		return binary.BigEndian.Uint32(region[off : off+4]), true

	default:
		return 0, false
	}
}

func (r *Reader) lookupLeaf(nh snapNodeHeader, b byte) (bool, error) {
	region := r.data[nh.regionOff:]
	switch nh.typ {
	case node.TypeN4Leaf, node.TypeN16Leaf:
		if len(region) < nh.numChildren {
			return false, ErrBadSnapshot
		}
		for i := 0; i < nh.numChildren; i++ {
			if region[i] == b {
				return true, nil
			}
		}
		return false, nil

	case node.TypeN48Leaf, node.TypeN256Leaf:
		if len(region) < 32 {
			return false, ErrBadSnapshot
		}
		bitmap := region[:32]
		return bitmap[b>>3]&(1<<(b&7)) != 0, nil

	default:
		return false, ErrBadSnapshot
	}
}

func bitmapRank(bitmap []byte, b byte) int {
	byteIdx := int(b >> 3)
	count := 0
	for i := 0; i < byteIdx; i++ {
		count += bits.OnesCount8(bitmap[i])
	}
	mask := byte(1<<(b&7)) - 1
	count += bits.OnesCount8(bitmap[byteIdx] & mask)
	return count
}
