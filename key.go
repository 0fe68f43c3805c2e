package olcart

import "encoding/binary"

// KeyLen is the fixed width of every key in the index, in bytes.
const KeyLen = 8

// Key is a fixed 8-byte sequence compared byte-lexicographically. Integer
// constructors encode big-endian so numeric order equals key order.
//
// Unlike the string/rune constructors on a typed key facade, Key here is
// deliberately narrow: variable-length keys are out of scope for this index
// (spec non-goal). Building Keys from domain values (UUIDs, composite keys,
// etc.) is a caller concern, not the index's.
type Key [KeyLen]byte

// FromUint64 encodes u as a Key, preserving unsigned numeric order.
func FromUint64(u uint64) Key {
	var k Key
	binary.BigEndian.PutUint64(k[:], u)
	return k
}

// FromInt64 encodes i as a Key. The value is shifted by 1<<63 so that
// lexicographic Key order matches signed numeric order, so
// FromInt64(0) == FromUint64(1<<63).
func FromInt64(i int64) Key {
	const offset = uint64(1) << 63
	return FromUint64(uint64(i) + offset)
}

// FromBytes copies an 8-byte big-endian slice into a Key. It panics if b is
// not exactly KeyLen bytes — callers constructing keys from untrusted input
// should check len(b) first.
func FromBytes(b []byte) Key {
	var k Key
	if len(b) != KeyLen {
		panic("olcart: key must be exactly 8 bytes")
	}
	copy(k[:], b)
	return k
}

// Bytes returns the Key's big-endian byte representation.
func (k Key) Bytes() []byte {
	b := make([]byte, KeyLen)
	copy(b, k[:])
	return b
}

// Uint64 decodes the Key as an unsigned big-endian integer.
func (k Key) Uint64() uint64 {
	return binary.BigEndian.Uint64(k[:])
}

// Less reports whether k sorts strictly before other.
func (k Key) Less(other Key) bool {
	for i := 0; i < KeyLen; i++ {
		if k[i] != other[i] {
			return k[i] < other[i]
		}
	}
	return false
}

// Equal reports whether k and other hold the same bytes.
func (k Key) Equal(other Key) bool {
	return k == other
}

// String renders the Key as uppercase hex pairs, e.g. "01AB00FF00000000".
func (k Key) String() string {
	const hex = "0123456789ABCDEF"
	var out [KeyLen * 2]byte
	for i, b := range k {
		out[i*2] = hex[b>>4]
		out[i*2+1] = hex[b&0x0F]
	}
	return string(out[:])
}
