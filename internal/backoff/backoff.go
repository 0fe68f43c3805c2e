// Package backoff implements a bounded exponential backoff for optimistic
// retry loops: on contention, spin briefly via runtime.Gosched before
// escalating to a short sleep, so a hot retry loop doesn't starve the
// goroutine holding the lock it is waiting on.
package backoff

import (
	"runtime"
	"time"
)

const (
	maxSpins = 6
	maxSleep = 1 * time.Millisecond
)

// Backoff tracks retry state across one optimistic-retry loop. Its zero
// value is ready to use.
type Backoff struct {
	attempt int
}

// Wait yields the goroutine with exponentially increasing delay, capping at
// maxSleep, and should be called once per failed optimistic attempt.
func (b *Backoff) Wait() {
	if b.attempt < maxSpins {
		for i := 0; i < 1<<uint(b.attempt); i++ {
			runtime.Gosched()
		}
		b.attempt++
		return
	}
	d := time.Duration(1<<uint(b.attempt-maxSpins)) * time.Microsecond * 50
	if d > maxSleep {
		d = maxSleep
	}
	time.Sleep(d)
	b.attempt++
}

// Reset clears accumulated backoff state, for reuse across independent
// retry loops on the same goroutine.
func (b *Backoff) Reset() {
	b.attempt = 0
}
