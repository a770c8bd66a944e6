package domain

// EventType represents the type of lobby event exchanged between server and clients
type EventType string

const (
	EventConnectionRequested EventType = "CONNECTION_REQUESTED" // Client asks to join the server
	EventConnectionRefused   EventType = "CONNECTION_REFUSED"   // Server refused the connection
	EventConnectionAccepted  EventType = "CONNECTION_ACCEPTED"  // Server accepted the connection
	EventServerInfo          EventType = "SERVER_INFO"          // Server describes itself to a client
	EventRequestBegin        EventType = "REQUEST_BEGIN"        // Host asks the server to open selection
	EventUpdatePlayerList    EventType = "UPDATE_PLAYER_LIST"   // Roster changed
	EventKartSelection       EventType = "KART_SELECTION"       // Player picked a kart
	EventPlayerDisconnected  EventType = "PLAYER_DISCONNECTED"  // A peer left the session
	EventClientLoadedWorld   EventType = "CLIENT_LOADED_WORLD"  // Client finished loading the world
	EventLoadWorld           EventType = "LOAD_WORLD"           // Clients should load the chosen world
	EventStartRace           EventType = "START_RACE"           // Server tells clients to start racing
	EventStartSelection      EventType = "START_SELECTION"      // Track voting round opened
	EventRaceFinished        EventType = "RACE_FINISHED"        // Race over, display results
	EventRaceFinishedAck     EventType = "RACE_FINISHED_ACK"    // Client went back to the lobby
	EventExitResult          EventType = "EXIT_RESULT"          // Force clients off the result screen
	EventVote                EventType = "VOTE"                 // Track vote
	EventChat                EventType = "CHAT"
	EventServerOwnership     EventType = "SERVER_OWNERSHIP" // Lobby ownership moved to another peer
	EventKickHost            EventType = "KICK_HOST"
	EventChangeTeam          EventType = "CHANGE_TEAM"
	EventBadTeam             EventType = "BAD_TEAM"
	EventBadConnection       EventType = "BAD_CONNECTION"
)

// String returns the string representation of the event type
func (e EventType) String() string {
	return string(e)
}

// legalStates maps each event type to the session states in which processing
// it is legal. An event arriving outside these states is a protocol violation,
// never silently dropped, because silent drops mask host/peer desync.
var legalStates = map[EventType][]State{
	// Join attempts are processed in every active state so that a busy
	// server refuses them with a reason instead of flagging a violation.
	EventConnectionRequested: {StateConnecting, StateSelecting, StateLoadingWorld, StateRacing, StateResultDisplay},
	EventConnectionRefused:   {StateConnecting},
	EventConnectionAccepted:  {StateConnecting},
	EventServerInfo:          {StateConnecting},
	EventRequestBegin:        {StateConnecting},
	EventUpdatePlayerList:    {StateConnecting, StateSelecting, StateLoadingWorld, StateRacing, StateResultDisplay},
	EventKartSelection:       {StateConnecting, StateSelecting},
	EventPlayerDisconnected:  {StateConnecting, StateSelecting, StateLoadingWorld, StateRacing, StateResultDisplay},
	EventClientLoadedWorld:   {StateLoadingWorld},
	EventLoadWorld:           {StateSelecting},
	EventStartRace:           {StateLoadingWorld},
	EventStartSelection:      {StateConnecting, StateResultDisplay},
	EventRaceFinished:        {StateRacing},
	EventRaceFinishedAck:     {StateResultDisplay},
	EventExitResult:          {StateResultDisplay},
	EventVote:                {StateSelecting},
	EventChat:                {StateConnecting, StateSelecting, StateLoadingWorld, StateRacing, StateResultDisplay},
	EventServerOwnership:     {StateConnecting, StateSelecting, StateLoadingWorld, StateRacing, StateResultDisplay},
	EventKickHost:            {StateConnecting, StateSelecting, StateLoadingWorld, StateRacing, StateResultDisplay},
	EventChangeTeam:          {StateConnecting, StateSelecting},
	EventBadTeam:             {StateConnecting, StateSelecting},
	EventBadConnection:       {StateConnecting, StateSelecting, StateLoadingWorld, StateRacing, StateResultDisplay},
}

// IsValid returns true if the event type belongs to the closed taxonomy
func (e EventType) IsValid() bool {
	_, ok := legalStates[e]
	return ok
}

// LegalIn checks whether processing this event is legal in the given state
func (e EventType) LegalIn(s State) bool {
	for _, legal := range legalStates[e] {
		if legal == s {
			return true
		}
	}
	return false
}

// Event is one decoded lobby message, as delivered by the transport
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// NewEvent creates a new lobby event
func NewEvent(eventType EventType, payload any) *Event {
	return &Event{Type: eventType, Payload: payload}
}

// Payload types for lobby events

// ConnectionRequestPayload is sent by a client asking to join
type ConnectionRequestPayload struct {
	PlayerName  string `json:"playerName"`
	Password    string `json:"password,omitempty"`
	DataVersion int    `json:"dataVersion"`
}

// ConnectionRefusedPayload carries exactly one refusal reason
type ConnectionRefusedPayload struct {
	Reason RefusalReason `json:"reason"`
}

// ConnectionAcceptedPayload confirms admission and assigns the peer its id
type ConnectionAcceptedPayload struct {
	PeerID   int    `json:"peerId"`
	PlayerID string `json:"playerId"`
	HostID   int    `json:"hostId"`
}

// ServerInfoPayload describes the server to a newly admitted client
type ServerInfoPayload struct {
	ServerName  string `json:"serverName"`
	DataVersion int    `json:"dataVersion"`
	MaxPlayers  int    `json:"maxPlayers"`
}

// PlayerListPayload is broadcast whenever the roster changes
type PlayerListPayload struct {
	Players []PlayerInfo `json:"players"`
	HostID  int          `json:"hostId"`
}

// KartSelectionPayload is sent when a player picks a kart
type KartSelectionPayload struct {
	Kart string `json:"kart"`
}

// StartSelectionPayload opens a voting round
type StartSelectionPayload struct {
	RemainingSeconds float64 `json:"remainingSeconds"`
	MaxSeconds       float64 `json:"maxSeconds"`
}

// VotePayload carries one track vote on the wire. The server relays each
// vote it records back to all peers under the same event type.
type VotePayload struct {
	PlayerName string `json:"playerName"`
	TrackID    string `json:"trackId"`
	Laps       int    `json:"laps"`
	Reverse    bool   `json:"reverse"`
}

// LoadWorldPayload announces the winning proposal everyone must load
type LoadWorldPayload struct {
	TrackID string `json:"trackId"`
	Laps    int    `json:"laps"`
	Reverse bool   `json:"reverse"`
}

// RaceResultPayload is broadcast when the race finishes
type RaceResultPayload struct {
	Standings []RaceStanding `json:"standings"`
}

// RaceStanding is one peer's final placement
type RaceStanding struct {
	PeerID     int     `json:"peerId"`
	PlayerName string  `json:"playerName"`
	FinishTime float64 `json:"finishTime"`
}

// ChatPayload relays a chat line
type ChatPayload struct {
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
}

// ServerOwnershipPayload announces the new lobby owner
type ServerOwnershipPayload struct {
	HostID int `json:"hostId"`
}

// KickPayload names the peer to remove
type KickPayload struct {
	PeerID int `json:"peerId"`
}

// ChangeTeamPayload requests a team switch for the sender
type ChangeTeamPayload struct {
	Team Team `json:"team"`
}
