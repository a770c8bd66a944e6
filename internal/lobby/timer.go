package lobby

import (
	"sync/atomic"
	"time"
)

// VotingTimer is the deadline gate for a voting round. The deadline is a
// single atomically updated timestamp so the message-delivery context (which
// may close voting early) and the tick context (which polls for timeout)
// agree on "is voting still open" without a lock on the hot per-tick path.
//
// Exactly one writer arms it at a time; any number of readers poll it.
type VotingTimer struct {
	deadline atomic.Int64 // unix nanoseconds, 0 = never armed
	maxTime  atomic.Int64 // configured window in nanoseconds
}

// NewVotingTimer creates an unarmed timer
func NewVotingTimer() *VotingTimer {
	return &VotingTimer{}
}

// StartVotingPeriod arms the deadline to now + max and remembers the window
func (t *VotingTimer) StartVotingPeriod(max time.Duration) {
	t.maxTime.Store(int64(max))
	t.deadline.Store(time.Now().Add(max).UnixNano())
}

// ResumeVotingPeriod arms the deadline to now + remaining while recording max
// as the full window. Used when mirroring a round that is already in progress.
func (t *VotingTimer) ResumeVotingPeriod(remaining, max time.Duration) {
	t.maxTime.Store(int64(max))
	t.deadline.Store(time.Now().Add(remaining).UnixNano())
}

// CloseNow moves the deadline to the current instant, ending the round early
func (t *VotingTimer) CloseNow() {
	t.deadline.Store(time.Now().UnixNano())
}

// RemainingVotingTime returns the seconds left in the round, clamped to zero
func (t *VotingTimer) RemainingVotingTime() float64 {
	deadline := t.deadline.Load()
	if deadline == 0 {
		return 0
	}
	remaining := time.Until(time.Unix(0, deadline)).Seconds()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsVotingOver reports whether the deadline has passed. Monotonic between
// arms: once true it stays true until StartVotingPeriod is called again.
func (t *VotingTimer) IsVotingOver() bool {
	deadline := t.deadline.Load()
	return deadline != 0 && time.Now().UnixNano() >= deadline
}

// MaxVotingTime returns the configured window in seconds
func (t *VotingTimer) MaxVotingTime() float64 {
	return time.Duration(t.maxTime.Load()).Seconds()
}
