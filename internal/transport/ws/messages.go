package ws

import (
	"encoding/json"
	"fmt"

	"kartlobby/internal/domain"
)

// Envelope is the JSON frame carrying one lobby event on the wire
type Envelope struct {
	Type    domain.EventType `json:"type"`
	Payload json.RawMessage  `json:"payload,omitempty"`
}

// payloadFor returns a fresh typed payload pointer for event types that
// carry one, or nil for bare events.
func payloadFor(t domain.EventType) any {
	switch t {
	case domain.EventConnectionRequested:
		return &domain.ConnectionRequestPayload{}
	case domain.EventConnectionRefused:
		return &domain.ConnectionRefusedPayload{}
	case domain.EventConnectionAccepted:
		return &domain.ConnectionAcceptedPayload{}
	case domain.EventServerInfo:
		return &domain.ServerInfoPayload{}
	case domain.EventUpdatePlayerList:
		return &domain.PlayerListPayload{}
	case domain.EventKartSelection:
		return &domain.KartSelectionPayload{}
	case domain.EventStartSelection:
		return &domain.StartSelectionPayload{}
	case domain.EventVote:
		return &domain.VotePayload{}
	case domain.EventLoadWorld:
		return &domain.LoadWorldPayload{}
	case domain.EventRaceFinished:
		return &domain.RaceResultPayload{}
	case domain.EventChat:
		return &domain.ChatPayload{}
	case domain.EventServerOwnership:
		return &domain.ServerOwnershipPayload{}
	case domain.EventKickHost:
		return &domain.KickPayload{}
	case domain.EventChangeTeam:
		return &domain.ChangeTeamPayload{}
	default:
		return nil
	}
}

// DecodeEvent parses one wire frame into a typed lobby event
func DecodeEvent(data []byte) (*domain.Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if !env.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, env.Type)
	}

	payload := payloadFor(env.Type)
	if payload != nil && len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, payload); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
	}
	if payload == nil {
		return domain.NewEvent(env.Type, nil), nil
	}
	return domain.NewEvent(env.Type, payload), nil
}

// EncodeEvent serializes a lobby event into one wire frame
func EncodeEvent(ev *domain.Event) ([]byte, error) {
	env := Envelope{Type: ev.Type}
	if ev.Payload != nil {
		raw, err := json.Marshal(ev.Payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", ev.Type, err)
		}
		env.Payload = raw
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return data, nil
}
