package tests

import (
	"sync"
	"time"
)

// ReceivesWithin reports whether a value arrives on ch before the timeout expires.
func ReceivesWithin[T any](ch <-chan T, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
		return true
	case <-timer.C:
		return false
	}
}

// FinishesWithin reports whether all goroutines of wg are done before the timeout expires.
// Concurrent store tests use it so that a deadlock fails the test instead of hanging it.
func FinishesWithin(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return ReceivesWithin[struct{}](done, timeout)
}
