package node

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresenceBitmapSetGetClear(t *testing.T) {
	var p PresenceBitmap
	require.False(t, p.Get(200))
	p.Set(200)
	require.True(t, p.Get(200))
	p.Clear(200)
	require.False(t, p.Get(200))
}

func TestPresenceBitmapLowest(t *testing.T) {
	var p PresenceBitmap
	p.Set(5)
	p.Set(130)
	p.Set(255)

	b, ok := p.Lowest(0)
	require.True(t, ok)
	require.Equal(t, byte(5), b)

	b, ok = p.Lowest(6)
	require.True(t, ok)
	require.Equal(t, byte(130), b)

	b, ok = p.Lowest(131)
	require.True(t, ok)
	require.Equal(t, byte(255), b)

	_, ok = p.Lowest(256 - 1)
	require.True(t, ok) // bit 255 is still within range at from=255

	var empty PresenceBitmap
	_, ok = empty.Lowest(0)
	require.False(t, ok)
}

func TestSortedInsertPosFindsExistingAndGap(t *testing.T) {
	keys := []byte{1, 3, 5, 7, 0, 0}
	pos, found := sortedInsertPos(keys, 4, 5)
	require.True(t, found)
	require.Equal(t, 2, pos)

	pos, found = sortedInsertPos(keys, 4, 4)
	require.False(t, found)
	require.Equal(t, 2, pos)
}

func TestShiftInsertAndRemoveByte(t *testing.T) {
	keys := make([]byte, 6)
	copy(keys, []byte{1, 3, 5})
	shiftInsertByte(keys, 3, 1, 2)
	require.Equal(t, []byte{1, 2, 3, 5, 0, 0}, keys)

	shiftRemoveByte(keys, 4, 1)
	require.Equal(t, byte(3), keys[1])
}

func TestEqualityMaskSearch16MatchesScalarSearch(t *testing.T) {
	var keys [16]byte
	for i := range keys {
		keys[i] = byte(i * 3)
	}
	for n := 1; n <= 16; n++ {
		for b := 0; b < 256; b++ {
			wantPos, wantFound := sortedInsertPos(keys[:], n, byte(b))
			gotPos, gotFound := equalityMaskSearch16(&keys, n, byte(b))
			if wantFound {
				require.True(t, gotFound, "byte %d should be found with n=%d", b, n)
				require.Equal(t, wantPos, gotPos)
			} else {
				require.False(t, gotFound, "byte %d should not be found with n=%d", b, n)
			}
		}
	}
}

func TestEqualityMaskSearch16EmptyNode(t *testing.T) {
	var keys [16]byte
	_, ok := equalityMaskSearch16(&keys, 0, 5)
	require.False(t, ok)
}
