package backoff_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olcart/olcart/internal/backoff"
)

func TestWaitDoesNotPanicAcrossManyAttempts(t *testing.T) {
	var b backoff.Backoff
	for i := 0; i < 20; i++ {
		b.Wait()
	}
}

func TestResetAllowsReuseAtShortDelayAgain(t *testing.T) {
	var b backoff.Backoff
	for i := 0; i < 10; i++ {
		b.Wait()
	}
	b.Reset()

	start := time.Now()
	b.Wait()
	// immediately after Reset, the first Wait should be a pure spin, not a
	// multi-millisecond sleep.
	require.Less(t, time.Since(start), 5*time.Millisecond)
}
