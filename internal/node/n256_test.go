package node_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olcart/olcart/internal/alloc"
	"github.com/olcart/olcart/internal/node"
)

func TestN256InternalNeverReportsFull(t *testing.T) {
	n, err := node.NewN256Internal(alloc.Default{}, nil)
	require.NoError(t, err)
	for i := 0; i < 256; i++ {
		n.InsertChild(byte(i), &node.Header{})
		require.False(t, n.IsFull())
	}
	require.Equal(t, 256, n.NumChildren())
}

func TestN256InternalGetAndRemove(t *testing.T) {
	n, _ := node.NewN256Internal(alloc.Default{}, nil)
	c := &node.Header{}
	n.InsertChild(42, c)

	got, ok := n.GetChild(42)
	require.True(t, ok)
	require.Same(t, c, got)

	n.RemoveChild(42)
	_, ok = n.GetChild(42)
	require.False(t, ok)
	require.Equal(t, 0, n.NumChildren())
}

func TestN256InternalIterChildrenRespectsByteRange(t *testing.T) {
	n, _ := node.NewN256Internal(alloc.Default{}, nil)
	for _, b := range []byte{0, 50, 100, 150, 255} {
		n.InsertChild(b, &node.Header{})
	}
	var order []byte
	n.IterChildren(10, 200, func(b byte, _ *node.Header) bool {
		order = append(order, b)
		return true
	})
	require.Equal(t, []byte{50, 100, 150}, order)
}

func TestN256InternalIterChildrenFullByteRangeIncludesZeroAnd255(t *testing.T) {
	n, _ := node.NewN256Internal(alloc.Default{}, nil)
	n.InsertChild(0, &node.Header{})
	n.InsertChild(255, &node.Header{})

	var order []byte
	n.IterChildren(0, 0xFF, func(b byte, _ *node.Header) bool {
		order = append(order, b)
		return true
	})
	require.Equal(t, []byte{0, 255}, order)
}

func TestN256LeafChangeValue(t *testing.T) {
	n, err := node.NewN256Leaf(alloc.Default{}, nil)
	require.NoError(t, err)

	n.InsertValue(1, 100)
	old, ok := n.ChangeValue(1, 200)
	require.True(t, ok)
	require.Equal(t, uint64(100), old)

	v, ok := n.GetValue(1)
	require.True(t, ok)
	require.Equal(t, uint64(200), v)

	_, ok = n.ChangeValue(2, 1)
	require.False(t, ok)
}
