package domain

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a player's team in team race modes
type Team string

const (
	TeamNone Team = "NONE"
	TeamRed  Team = "RED"
	TeamBlue Team = "BLUE"
)

// PlayerProfile represents one connected participant in the session roster
type PlayerProfile struct {
	PeerID        int       `json:"peerId"`
	PlayerID      string    `json:"playerId"` // Stable identity token, uuid
	Name          string    `json:"name"`
	Kart          string    `json:"kart,omitempty"`
	Team          Team      `json:"team"`
	SelectionDone bool      `json:"selectionDone"`
	LoadedWorld   bool      `json:"loadedWorld"`
	FinishedAck   bool      `json:"finishedAck"`
	JoinedAt      time.Time `json:"joinedAt"`
}

// NewPlayerProfile creates a profile for a newly admitted peer
func NewPlayerProfile(peerID int, name string) *PlayerProfile {
	return &PlayerProfile{
		PeerID:   peerID,
		PlayerID: uuid.New().String(),
		Name:     name,
		Team:     TeamNone,
		JoinedAt: time.Now(),
	}
}

// ResetForNewRound clears per-round flags before a new voting round
func (p *PlayerProfile) ResetForNewRound() {
	p.SelectionDone = false
	p.LoadedWorld = false
	p.FinishedAck = false
}

// PlayerInfo is the roster view broadcast to peers
type PlayerInfo struct {
	PeerID int    `json:"peerId"`
	Name   string `json:"name"`
	Kart   string `json:"kart,omitempty"`
	Team   Team   `json:"team"`
}

// ToInfo converts a profile to its broadcast view
func (p *PlayerProfile) ToInfo() PlayerInfo {
	return PlayerInfo{
		PeerID: p.PeerID,
		Name:   p.Name,
		Kart:   p.Kart,
		Team:   p.Team,
	}
}
