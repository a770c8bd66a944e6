package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNotHost           = errors.New("only the lobby owner can perform this action")
	ErrInvalidVote       = errors.New("invalid vote content")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrUnknownEvent      = errors.New("unknown lobby event")
)

// ProtocolViolationError reports an event that arrived in a state where it is
// not legal to process. The session continues; the message is dropped.
type ProtocolViolationError struct {
	Event  EventType
	State  State
	PeerID int
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("protocol violation: event %s from peer %d not legal in state %s",
		e.Event, e.PeerID, e.State)
}

// NewProtocolViolation creates a violation report for an out-of-state event
func NewProtocolViolation(event EventType, state State, peerID int) *ProtocolViolationError {
	return &ProtocolViolationError{Event: event, State: state, PeerID: peerID}
}
