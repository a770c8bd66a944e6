package lobby

import "sync"

// worldLoader runs the potentially slow world-loading work off the tick
// thread. At most one unit of work is outstanding per coordinator; starting
// a new one first joins the previous, and Join is guaranteed on every exit
// path of the owning coordinator (Shutdown always calls it) so the
// coordinator is never destroyed with a unit still running.
//
// There is no cancellation: a started unit runs to completion.
type worldLoader struct {
	mu   sync.Mutex
	done chan struct{} // nil when no unit is outstanding
}

// Begin joins any prior unit, then runs work in a new background unit
func (w *worldLoader) Begin(work func()) {
	w.mu.Lock()
	prev := w.done
	w.mu.Unlock()
	if prev != nil {
		<-prev
	}

	done := make(chan struct{})
	w.mu.Lock()
	w.done = done
	w.mu.Unlock()

	go func() {
		defer close(done)
		work()
	}()
}

// Join blocks until the outstanding unit, if any, finishes
func (w *worldLoader) Join() {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done != nil {
		<-done
	}
}
