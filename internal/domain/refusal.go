package domain

// RefusalReason is the closed vocabulary of reasons a connection attempt is
// refused. Every refusal carries exactly one reason; which one applies is
// decided by the server lobby from roster and config state.
type RefusalReason string

const (
	RefusalBusy              RefusalReason = "BUSY"               // Lobby is past the admission phase
	RefusalBanned            RefusalReason = "BANNED"             // Peer is on the ban list
	RefusalIncorrectPassword RefusalReason = "INCORRECT_PASSWORD" // Server password mismatch
	RefusalIncompatibleData  RefusalReason = "INCOMPATIBLE_DATA"  // Client data version mismatch
	RefusalTooManyPlayers    RefusalReason = "TOO_MANY_PLAYERS"   // Roster is full
	RefusalInvalidPlayer     RefusalReason = "INVALID_PLAYER"     // Empty or duplicate player name
)

// String returns the string representation of the reason
func (r RefusalReason) String() string {
	return string(r)
}
