// Package lobby implements the session coordinator shared by the server and
// client roles: admission, roster upkeep, the track-voting round, and
// load/start/finish synchronization. A process hosts at most one active
// coordinator at a time, discoverable through the package registry.
package lobby

import (
	"time"

	"kartlobby/internal/domain"
)

// Coordinator is the capability surface shared by both lobby roles. Callers
// hold this interface and narrow to a concrete role via GetServer/GetClient
// only when role-specific behavior is needed.
type Coordinator interface {
	// Setup performs one-time initialization; called exactly once per instance.
	Setup()

	// Update advances session state from the periodic tick context. It must
	// stay cheap and non-blocking; slow world loading never happens inline.
	Update(delta time.Duration)

	// HandleEvent is the serialized entry point for the message-delivery
	// context. senderID is the transport-assigned peer id of the sender.
	HandleEvent(senderID int, ev *domain.Event) error

	// FinishedLoadingWorld signals that this process finished loading race
	// assets for the current round.
	FinishedLoadingWorld()

	// LoadWorld starts asset loading in the background orchestrator.
	LoadWorld()

	// AllPlayersReady reports whether every expected participant signaled
	// readiness for the current phase.
	AllPlayersReady() bool

	// IsRacing reports whether the session is in the racing phase.
	IsRacing() bool

	// State returns the coordinator's current session state.
	State() domain.State

	// Shutdown joins any outstanding background load and releases the
	// registry slot. The coordinator must not be used afterwards.
	Shutdown()
}

// Messenger is the peer-addressed message channel the transport provides.
// Delivery is assumed reliable and ordered per peer; the lobby never
// retransmits.
type Messenger interface {
	SendTo(peerID int, ev *domain.Event) error
	Broadcast(ev *domain.Event) error
}
