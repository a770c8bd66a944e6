package domain

// RaceSettings is the proposal the session settled on for the next race
type RaceSettings struct {
	TrackID string `json:"trackId"`
	Laps    int    `json:"laps"`
	Reverse bool   `json:"reverse"`
}

// GameSetup owns the authoritative player roster and the settings of the
// race being set up. The lobby coordinator holds it by reference and never
// copies it; like the vote ledger it is mutated only inside the
// coordinator's serialized context and so carries no lock.
type GameSetup struct {
	players map[int]*PlayerProfile
	hostID  int
	race    RaceSettings
}

// NewGameSetup creates an empty setup with no host
func NewGameSetup() *GameSetup {
	return &GameSetup{
		players: make(map[int]*PlayerProfile),
		hostID:  -1,
	}
}

// AddPlayer admits a peer into the roster. The first peer becomes the host.
func (gs *GameSetup) AddPlayer(profile *PlayerProfile) {
	gs.players[profile.PeerID] = profile
	if gs.hostID < 0 {
		gs.hostID = profile.PeerID
	}
}

// RemovePlayer drops a peer from the roster. If the host left, ownership
// moves to an arbitrary remaining peer; the new host id is returned along
// with whether ownership changed.
func (gs *GameSetup) RemovePlayer(peerID int) (newHost int, changed bool) {
	if _, ok := gs.players[peerID]; !ok {
		return gs.hostID, false
	}
	delete(gs.players, peerID)

	if gs.hostID != peerID {
		return gs.hostID, false
	}
	gs.hostID = -1
	for id := range gs.players {
		gs.hostID = id
		break
	}
	return gs.hostID, gs.hostID >= 0
}

// GetPlayer returns the profile for a peer, or false if not in the roster
func (gs *GameSetup) GetPlayer(peerID int) (*PlayerProfile, bool) {
	p, ok := gs.players[peerID]
	return p, ok
}

// HasPlayerName reports whether any roster member already uses the name
func (gs *GameSetup) HasPlayerName(name string) bool {
	for _, p := range gs.players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// PlayerCount returns the roster size
func (gs *GameSetup) PlayerCount() int {
	return len(gs.players)
}

// HostID returns the peer id of the lobby owner, -1 when the roster is empty
func (gs *GameSetup) HostID() int {
	return gs.hostID
}

// IsHost reports whether the peer owns the lobby
func (gs *GameSetup) IsHost(peerID int) bool {
	return gs.hostID >= 0 && gs.hostID == peerID
}

// Players returns the broadcast view of the roster
func (gs *GameSetup) Players() []PlayerInfo {
	infos := make([]PlayerInfo, 0, len(gs.players))
	for _, p := range gs.players {
		infos = append(infos, p.ToInfo())
	}
	return infos
}

// PeerIDs returns the ids of all roster members
func (gs *GameSetup) PeerIDs() []int {
	ids := make([]int, 0, len(gs.players))
	for id := range gs.players {
		ids = append(ids, id)
	}
	return ids
}

// AllLoadedWorld reports whether every roster member finished loading
func (gs *GameSetup) AllLoadedWorld() bool {
	for _, p := range gs.players {
		if !p.LoadedWorld {
			return false
		}
	}
	return true
}

// AllFinishedAck reports whether every roster member acknowledged the results
func (gs *GameSetup) AllFinishedAck() bool {
	for _, p := range gs.players {
		if !p.FinishedAck {
			return false
		}
	}
	return true
}

// ResetForNewRound clears per-round flags on every profile
func (gs *GameSetup) ResetForNewRound() {
	for _, p := range gs.players {
		p.ResetForNewRound()
	}
}

// TeamCounts returns the number of players on each nontrivial team
func (gs *GameSetup) TeamCounts() (red, blue int) {
	for _, p := range gs.players {
		switch p.Team {
		case TeamRed:
			red++
		case TeamBlue:
			blue++
		}
	}
	return red, blue
}

// SetRace records the settled race proposal
func (gs *GameSetup) SetRace(race RaceSettings) {
	gs.race = race
}

// Race returns the settled race proposal
func (gs *GameSetup) Race() RaceSettings {
	return gs.race
}
