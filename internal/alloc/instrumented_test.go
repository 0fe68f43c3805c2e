package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olcart/olcart/internal/alloc"
)

func TestInstrumentedTracksAllocationsAndFrees(t *testing.T) {
	a := alloc.NewInstrumented(-1)

	n, err := a.AllocN4Internal()
	require.NoError(t, err)
	require.NotNil(t, n)

	stats := a.Stats()
	require.Equal(t, int64(1), stats.AllocCount)
	require.Equal(t, 1, stats.LiveBlocks)
	require.Positive(t, stats.BytesAllocated)

	a.Free(&n.Header)
	stats = a.Stats()
	require.Equal(t, int64(1), stats.FreeCount)
	require.Equal(t, 0, stats.LiveBlocks)
	require.Zero(t, stats.BytesLive)
}

func TestInstrumentedDoubleFreePanics(t *testing.T) {
	a := alloc.NewInstrumented(-1)
	n, err := a.AllocN4Leaf()
	require.NoError(t, err)

	a.Free(&n.Header)
	require.PanicsWithValue(t, alloc.ErrDoubleFreePanic, func() { a.Free(&n.Header) })
}

func TestInstrumentedOutOfMemoryBudget(t *testing.T) {
	a := alloc.NewInstrumented(2)

	_, err := a.AllocN4Internal()
	require.NoError(t, err)
	_, err = a.AllocN4Internal()
	require.NoError(t, err)

	_, err = a.AllocN4Internal()
	require.ErrorIs(t, err, alloc.ErrOutOfBudget)
}

func TestInstrumentedNegativeBudgetDisablesInjection(t *testing.T) {
	a := alloc.NewInstrumented(-1)
	for i := 0; i < 1000; i++ {
		_, err := a.AllocN256Internal()
		require.NoError(t, err)
	}
}

func TestDefaultAllocatorFreeIsNoop(t *testing.T) {
	var d alloc.Default
	n, err := d.AllocN4Internal()
	require.NoError(t, err)
	require.NotPanics(t, func() { d.Free(&n.Header) })
}
