// Package th provides basic test helpers.
package th

import (
	"testing"
	"time"
)

// ReasonableWaitingTime is long enough for a goroutine to reach a blocking
// point, short enough to keep the suite fast.
const ReasonableWaitingTime = 50 * time.Millisecond

// NotHang fails the test if f does not return within waitFor.
func NotHang(t *testing.T, waitFor time.Duration, f func()) {
	t.Helper()
	done := make(chan struct{})

	go func() {
		defer close(done)
		f()
	}()

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Errorf("test hanged")
	}
}

// ExpectElapsed fails the test unless at least d has passed since t0.
// It is used to verify that an operation actually blocked.
func ExpectElapsed(t *testing.T, t0 time.Time, d time.Duration) {
	t.Helper()
	if elapsed := time.Since(t0); elapsed < d {
		t.Errorf("expected to block for at least %v, returned after %v", d, elapsed)
	}
}
