package node_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olcart/olcart/internal/alloc"
	"github.com/olcart/olcart/internal/node"
)

func TestHeaderPrefixRoundTrip(t *testing.T) {
	n, err := node.NewN4Internal(alloc.Default{}, []byte{1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)
	require.Equal(t, 7, n.PrefixLen())
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7}, n.Prefix())
}

func TestHeaderSetPrefixTruncatesToMaxPrefixLen(t *testing.T) {
	n, err := node.NewN4Internal(alloc.Default{}, nil)
	require.NoError(t, err)
	n.SetPrefix([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	require.Equal(t, node.MaxPrefixLen, n.PrefixLen())
}

func TestHeaderSetPrefixCanShrink(t *testing.T) {
	n, err := node.NewN4Internal(alloc.Default{}, []byte{1, 2, 3})
	require.NoError(t, err)
	n.SetPrefix([]byte{9})
	require.Equal(t, 1, n.PrefixLen())
	require.Equal(t, []byte{9}, n.Prefix())
}

func TestHeaderIsFullForBoundedVariants(t *testing.T) {
	n, err := node.NewN4Internal(alloc.Default{}, nil)
	require.NoError(t, err)
	for i := byte(0); i < 3; i++ {
		n.InsertChild(i, &node.Header{})
		require.False(t, n.IsFull())
	}
	n.InsertChild(3, &node.Header{})
	require.True(t, n.IsFull())
}

func TestHeaderTypeMatchesConstructor(t *testing.T) {
	n, _ := node.NewN48Leaf(alloc.Default{}, nil)
	require.Equal(t, node.TypeN48Leaf, n.Type())
}
