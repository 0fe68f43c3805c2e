package node_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olcart/olcart/internal/alloc"
	"github.com/olcart/olcart/internal/node"
)

func newTestHeader(t *testing.T) *node.Header {
	t.Helper()
	n, err := node.NewN4Internal(alloc.Default{}, nil)
	require.NoError(t, err)
	return &n.Header
}

func TestReadLockThenCheckVersionSucceedsWithoutMutation(t *testing.T) {
	h := newTestHeader(t)
	g, err := node.ReadLock(h)
	require.NoError(t, err)
	require.NoError(t, g.CheckVersion())
	require.False(t, g.Obsolete())
}

func TestUpgradeThenUnlockBumpsVersionAndAllowsFutureReads(t *testing.T) {
	h := newTestHeader(t)
	g, err := node.ReadLock(h)
	require.NoError(t, err)

	wg, err := node.Upgrade(g)
	require.NoError(t, err)
	wg.Unlock()

	g2, err := node.ReadLock(h)
	require.NoError(t, err)
	require.NoError(t, g2.CheckVersion())
}

func TestConcurrentUpgradeOnlyOneSucceeds(t *testing.T) {
	h := newTestHeader(t)
	g1, err := node.ReadLock(h)
	require.NoError(t, err)
	g2, err := node.ReadLock(h)
	require.NoError(t, err)

	wg, err := node.Upgrade(g1)
	require.NoError(t, err)

	_, err = node.Upgrade(g2)
	require.ErrorIs(t, err, node.ErrVersionMismatch)

	wg.Unlock()
}

func TestReadLockFailsWhileWriteLocked(t *testing.T) {
	h := newTestHeader(t)
	g, err := node.ReadLock(h)
	require.NoError(t, err)
	wg, err := node.Upgrade(g)
	require.NoError(t, err)

	_, err = node.ReadLock(h)
	require.ErrorIs(t, err, node.ErrLocked)

	wg.Unlock()
	_, err = node.ReadLock(h)
	require.NoError(t, err)
}

func TestUnlockObsoleteMakesNodePermanentlyUnreadable(t *testing.T) {
	h := newTestHeader(t)
	g, err := node.ReadLock(h)
	require.NoError(t, err)
	wg, err := node.Upgrade(g)
	require.NoError(t, err)

	wg.UnlockObsolete()

	_, err = node.ReadLock(h)
	require.ErrorIs(t, err, node.ErrLocked)
}

func TestCheckVersionDetectsConcurrentWrite(t *testing.T) {
	h := newTestHeader(t)
	g, err := node.ReadLock(h)
	require.NoError(t, err)

	g2, err := node.ReadLock(h)
	require.NoError(t, err)
	wg, err := node.Upgrade(g2)
	require.NoError(t, err)
	wg.Unlock()

	require.ErrorIs(t, g.CheckVersion(), node.ErrVersionMismatch)
}
