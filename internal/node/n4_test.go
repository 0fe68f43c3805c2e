package node_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olcart/olcart/internal/alloc"
	"github.com/olcart/olcart/internal/node"
)

func TestN4InternalInsertGetSortedOrder(t *testing.T) {
	n, err := node.NewN4Internal(alloc.Default{}, []byte{1, 2, 3})
	require.NoError(t, err)

	c1, c2, c3 := &node.Header{}, &node.Header{}, &node.Header{}
	n.InsertChild(20, c2)
	n.InsertChild(10, c1)
	n.InsertChild(30, c3)

	got, ok := n.GetChild(10)
	require.True(t, ok)
	require.Same(t, c1, got)

	got, ok = n.GetChild(20)
	require.True(t, ok)
	require.Same(t, c2, got)

	_, ok = n.GetChild(99)
	require.False(t, ok)

	var order []byte
	n.IterChildren(0, 0xFF, func(b byte, _ *node.Header) bool {
		order = append(order, b)
		return true
	})
	require.Equal(t, []byte{10, 20, 30}, order)
}

func TestN4InternalChangeAndRemoveChild(t *testing.T) {
	n, _ := node.NewN4Internal(alloc.Default{}, nil)
	c1, c2 := &node.Header{}, &node.Header{}
	n.InsertChild(5, c1)

	old := n.ChangeChild(5, c2)
	require.Same(t, c1, old)
	got, _ := n.GetChild(5)
	require.Same(t, c2, got)

	n.RemoveChild(5)
	require.Equal(t, 0, n.NumChildren())
	_, ok := n.GetChild(5)
	require.False(t, ok)
}

func TestN4InternalIsFullAtFourChildren(t *testing.T) {
	n, _ := node.NewN4Internal(alloc.Default{}, nil)
	require.False(t, n.IsFull())
	for i := byte(0); i < 4; i++ {
		n.InsertChild(i, &node.Header{})
	}
	require.True(t, n.IsFull())
}

func TestN4LeafInsertGetValues(t *testing.T) {
	n, err := node.NewN4Leaf(alloc.Default{}, []byte{9})
	require.NoError(t, err)

	n.InsertValue(3, 300)
	n.InsertValue(1, 100)
	n.InsertValue(2, 200)

	v, ok := n.GetValue(1)
	require.True(t, ok)
	require.Equal(t, uint64(100), v)

	var order []byte
	n.IterValues(0, 0xFF, func(b byte, _ uint64) bool {
		order = append(order, b)
		return true
	})
	require.Equal(t, []byte{1, 2, 3}, order)
}

func TestN4LeafIterValuesRespectsRange(t *testing.T) {
	n, _ := node.NewN4Leaf(alloc.Default{}, nil)
	n.InsertValue(1, 1)
	n.InsertValue(5, 5)
	n.InsertValue(9, 9)

	var order []byte
	n.IterValues(2, 8, func(b byte, _ uint64) bool {
		order = append(order, b)
		return true
	})
	require.Equal(t, []byte{5}, order)
}

func TestN4LeafChangeAndRemoveValue(t *testing.T) {
	n, _ := node.NewN4Leaf(alloc.Default{}, nil)
	n.InsertValue(4, 40)

	old, ok := n.ChangeValue(4, 41)
	require.True(t, ok)
	require.Equal(t, uint64(40), old)

	_, ok = n.ChangeValue(99, 1)
	require.False(t, ok)

	n.RemoveValue(4)
	_, ok = n.GetValue(4)
	require.False(t, ok)
}

func TestN4CopyIntoN16PreservesEdges(t *testing.T) {
	n, _ := node.NewN4Internal(alloc.Default{}, []byte{1, 2})
	children := make([]*node.Header, 4)
	for i := range children {
		children[i] = &node.Header{}
		n.InsertChild(byte(i*10), children[i])
	}

	dst, err := node.NewN16Internal(alloc.Default{}, []byte{1, 2})
	require.NoError(t, err)
	n.CopyInto(dst)

	require.Equal(t, 4, dst.NumChildren())
	for i, c := range children {
		got, ok := dst.GetChild(byte(i * 10))
		require.True(t, ok)
		require.Same(t, c, got)
	}
}
