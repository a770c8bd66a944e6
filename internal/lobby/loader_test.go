package lobby

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWorldLoader_JoinBlocksUntilDone(t *testing.T) {
	var loader worldLoader
	var finished atomic.Bool

	release := make(chan struct{})
	loader.Begin(func() {
		<-release
		finished.Store(true)
	})

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()

	loader.Join()
	if !finished.Load() {
		t.Error("Join returned before the unit finished")
	}
}

func TestWorldLoader_NeverTwoUnitsConcurrently(t *testing.T) {
	var loader worldLoader
	var running atomic.Int32
	var maxRunning atomic.Int32

	work := func() {
		n := running.Add(1)
		if n > maxRunning.Load() {
			maxRunning.Store(n)
		}
		time.Sleep(20 * time.Millisecond)
		running.Add(-1)
	}

	loader.Begin(work)
	loader.Begin(work) // must join the first unit before starting
	loader.Join()

	if maxRunning.Load() != 1 {
		t.Errorf("max concurrent units = %d, want 1", maxRunning.Load())
	}
}

func TestWorldLoader_JoinWithoutUnitReturns(t *testing.T) {
	var loader worldLoader

	done := make(chan struct{})
	go func() {
		loader.Join()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Join with no outstanding unit must return immediately")
	}
}
