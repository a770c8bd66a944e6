package domain

// PeerVote is one participant's race proposal: track, lap count and
// direction. Immutable once constructed; a later vote from the same peer
// replaces the prior one.
type PeerVote struct {
	PlayerName string `json:"playerName"`
	TrackID    string `json:"trackId"`
	Laps       int    `json:"laps"`
	Reverse    bool   `json:"reverse"`
}

// NewPeerVote creates a new vote
func NewPeerVote(playerName, trackID string, laps int, reverse bool) PeerVote {
	return PeerVote{
		PlayerName: playerName,
		TrackID:    trackID,
		Laps:       laps,
		Reverse:    reverse,
	}
}

// VoteLedger maps peer ids to their current vote. Peer ids are sparse and
// not necessarily contiguous, so a map is used rather than a slice.
//
// The ledger performs no validation of vote content; the coordinator is
// responsible for that. All access happens in the coordinator's serialized
// message-handling context, so the ledger carries no lock of its own.
type VoteLedger struct {
	votes map[int]PeerVote
}

// NewVoteLedger creates an empty ledger
func NewVoteLedger() *VoteLedger {
	return &VoteLedger{votes: make(map[int]PeerVote)}
}

// Add inserts or overwrites the vote for the given peer id
func (l *VoteLedger) Add(peerID int, vote PeerVote) {
	l.votes[peerID] = vote
}

// Get returns the stored vote for a peer. The second return value is false
// when the peer has not voted yet; no placeholder vote is ever constructed.
func (l *VoteLedger) Get(peerID int) (PeerVote, bool) {
	vote, ok := l.votes[peerID]
	return vote, ok
}

// Count returns the number of distinct peers who have voted
func (l *VoteLedger) Count() int {
	return len(l.votes)
}

// Remove drops the vote of a disconnecting peer, if any
func (l *VoteLedger) Remove(peerID int) {
	delete(l.votes, peerID)
}

// Reset clears the ledger for a new voting round
func (l *VoteLedger) Reset() {
	l.votes = make(map[int]PeerVote)
}

// Snapshot returns a copy of all current entries for winner computation
func (l *VoteLedger) Snapshot() map[int]PeerVote {
	out := make(map[int]PeerVote, len(l.votes))
	for id, v := range l.votes {
		out[id] = v
	}
	return out
}
