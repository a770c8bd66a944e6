package lobby

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kartlobby/internal/domain"
)

// ClientConfig holds the joining player's settings
type ClientConfig struct {
	PlayerName  string
	Password    string
	DataVersion int

	// LoadWork is the world-loading work run when the server instructs the
	// client to load. Nil means loading completes immediately.
	LoadWork func()
}

// ClientLobby is the connecting peer's session coordinator. It performs the
// admission handshake, mirrors the roster and voting window published by the
// server, submits the local player's choices, and answers the server's
// load/start/finish instructions.
type ClientLobby struct {
	mu        sync.Mutex
	cfg       ClientConfig
	setup     *domain.GameSetup // non-owning, shared with the surrounding game
	timer     *VotingTimer
	loader    worldLoader
	messenger Messenger
	logger    *slog.Logger

	state    domain.State
	peerID   int // our id as assigned by the server, -1 until accepted
	hostID   int
	playerID string
	refusal  domain.RefusalReason // set when the server turned us away
	players  []domain.PlayerInfo
	race     domain.RaceSettings
	loaded   bool
}

// ServerPeerID addresses the server on the client's message channel
const ServerPeerID = 0

// CreateClient constructs the client lobby and installs it as the process's
// sole active coordinator. Panics if a coordinator is already active.
func CreateClient(cfg ClientConfig, setup *domain.GameSetup, messenger Messenger, logger *slog.Logger) *ClientLobby {
	c := &ClientLobby{
		cfg:       cfg,
		setup:     setup,
		timer:     NewVotingTimer(),
		messenger: messenger,
		logger:    logger,
		state:     domain.StateIdle,
		peerID:    -1,
		hostID:    -1,
	}
	install(c)
	return c
}

// Setup sends the connection request and starts the admission handshake
func (c *ClientLobby) Setup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.transition(domain.StateConnecting)
	c.send(domain.NewEvent(domain.EventConnectionRequested, &domain.ConnectionRequestPayload{
		PlayerName:  c.cfg.PlayerName,
		Password:    c.cfg.Password,
		DataVersion: c.cfg.DataVersion,
	}))
	c.logger.Info("connecting to server", "player", c.cfg.PlayerName)
}

// State returns the current session state
func (c *ClientLobby) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsRacing reports whether the session is in the racing phase
func (c *ClientLobby) IsRacing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == domain.StateRacing
}

// PeerID returns the server-assigned peer id, -1 before admission
func (c *ClientLobby) PeerID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peerID
}

// Refusal returns the reason the server turned us away, if it did
func (c *ClientLobby) Refusal() (domain.RefusalReason, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refusal, c.refusal != ""
}

// Players returns the last roster published by the server
func (c *ClientLobby) Players() []domain.PlayerInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.PlayerInfo, len(c.players))
	copy(out, c.players)
	return out
}

// Timer exposes the mirrored voting timer for UI countdown display
func (c *ClientLobby) Timer() *VotingTimer {
	return c.timer
}

// AllPlayersReady reports readiness as far as this client can observe it:
// its own loading state during the loading phase.
func (c *ClientLobby) AllPlayersReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.StateLoadingWorld {
		return false
	}
	return c.loaded
}

// Vote submits the local player's track proposal
func (c *ClientLobby) Vote(trackID string, laps int, reverse bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.StateSelecting {
		return domain.NewProtocolViolation(domain.EventVote, c.state, c.peerID)
	}
	if trackID == "" || laps < 1 {
		return fmt.Errorf("%w: track %q laps %d", domain.ErrInvalidVote, trackID, laps)
	}
	c.send(domain.NewEvent(domain.EventVote, &domain.VotePayload{
		PlayerName: c.cfg.PlayerName,
		TrackID:    trackID,
		Laps:       laps,
		Reverse:    reverse,
	}))
	return nil
}

// SelectKart announces the local player's kart choice
func (c *ClientLobby) SelectKart(kart string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.EventKartSelection.LegalIn(c.state) {
		return domain.NewProtocolViolation(domain.EventKartSelection, c.state, c.peerID)
	}
	c.send(domain.NewEvent(domain.EventKartSelection, &domain.KartSelectionPayload{Kart: kart}))
	return nil
}

// RequestBegin asks the server to open selection (lobby owner only, the
// server enforces ownership)
func (c *ClientLobby) RequestBegin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send(domain.NewEvent(domain.EventRequestBegin, nil))
}

// SendChat relays a chat line through the server
func (c *ClientLobby) SendChat(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.send(domain.NewEvent(domain.EventChat, &domain.ChatPayload{
		PlayerName: c.cfg.PlayerName,
		Message:    message,
	}))
}

// HandleEvent routes one inbound lobby event from the server
func (c *ClientLobby) HandleEvent(senderID int, ev *domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !ev.Type.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownEvent, ev.Type)
	}
	if !ev.Type.LegalIn(c.state) {
		return domain.NewProtocolViolation(ev.Type, c.state, senderID)
	}

	switch ev.Type {
	case domain.EventConnectionAccepted:
		payload, ok := ev.Payload.(*domain.ConnectionAcceptedPayload)
		if !ok {
			return fmt.Errorf("%w: connection accepted payload", domain.ErrUnknownEvent)
		}
		c.peerID = payload.PeerID
		c.playerID = payload.PlayerID
		c.hostID = payload.HostID
		c.logger.Info("admitted to server", "peerID", c.peerID, "hostID", c.hostID)
		return nil

	case domain.EventConnectionRefused:
		payload, ok := ev.Payload.(*domain.ConnectionRefusedPayload)
		if !ok {
			return fmt.Errorf("%w: connection refused payload", domain.ErrUnknownEvent)
		}
		c.refusal = payload.Reason
		c.transition(domain.StateIdle)
		c.logger.Warn("connection refused", "reason", payload.Reason)
		return nil

	case domain.EventServerInfo:
		payload, ok := ev.Payload.(*domain.ServerInfoPayload)
		if !ok {
			return fmt.Errorf("%w: server info payload", domain.ErrUnknownEvent)
		}
		c.logger.Info("server info", "name", payload.ServerName, "maxPlayers", payload.MaxPlayers)
		return nil

	case domain.EventUpdatePlayerList:
		payload, ok := ev.Payload.(*domain.PlayerListPayload)
		if !ok {
			return fmt.Errorf("%w: player list payload", domain.ErrUnknownEvent)
		}
		c.players = payload.Players
		c.hostID = payload.HostID
		return nil

	case domain.EventStartSelection:
		payload, ok := ev.Payload.(*domain.StartSelectionPayload)
		if !ok {
			return fmt.Errorf("%w: start selection payload", domain.ErrUnknownEvent)
		}
		if err := c.transitionChecked(domain.StateSelecting); err != nil {
			return err
		}
		c.loaded = false
		c.timer.ResumeVotingPeriod(
			time.Duration(payload.RemainingSeconds*float64(time.Second)),
			time.Duration(payload.MaxSeconds*float64(time.Second)))
		return nil

	case domain.EventVote:
		// Progress broadcast; nothing to mirror beyond logging
		return nil

	case domain.EventLoadWorld:
		payload, ok := ev.Payload.(*domain.LoadWorldPayload)
		if !ok {
			return fmt.Errorf("%w: load world payload", domain.ErrUnknownEvent)
		}
		if err := c.transitionChecked(domain.StateLoadingWorld); err != nil {
			return err
		}
		c.race = domain.RaceSettings{TrackID: payload.TrackID, Laps: payload.Laps, Reverse: payload.Reverse}
		c.setup.SetRace(c.race)
		c.LoadWorld()
		return nil

	case domain.EventStartRace:
		return c.transitionChecked(domain.StateRacing)

	case domain.EventRaceFinished:
		if err := c.transitionChecked(domain.StateResultDisplay); err != nil {
			return err
		}
		c.send(domain.NewEvent(domain.EventRaceFinishedAck, nil))
		return nil

	case domain.EventExitResult:
		// The next StartSelection moves us into the new round; force the
		// result screen closed here.
		return nil

	case domain.EventServerOwnership:
		payload, ok := ev.Payload.(*domain.ServerOwnershipPayload)
		if !ok {
			return fmt.Errorf("%w: server ownership payload", domain.ErrUnknownEvent)
		}
		c.hostID = payload.HostID
		return nil

	case domain.EventChat:
		return nil

	case domain.EventKickHost:
		c.logger.Warn("kicked from server")
		c.transition(domain.StateIdle)
		return nil

	case domain.EventBadTeam:
		c.logger.Warn("team change rejected")
		return nil

	case domain.EventPlayerDisconnected, domain.EventBadConnection:
		return nil

	default:
		return domain.NewProtocolViolation(ev.Type, c.state, senderID)
	}
}

// LoadWorld runs the local world loading off the tick thread and reports
// completion to the server when done
func (c *ClientLobby) LoadWorld() {
	c.loader.Begin(func() {
		if c.cfg.LoadWork != nil {
			c.cfg.LoadWork()
		}
		c.FinishedLoadingWorld()
	})
}

// FinishedLoadingWorld tells the server this client is ready to race
func (c *ClientLobby) FinishedLoadingWorld() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	c.send(domain.NewEvent(domain.EventClientLoadedWorld, nil))
}

// Update advances client-side state from the tick context. The client's
// transitions are all server-driven; the tick only observes the timer.
func (c *ClientLobby) Update(delta time.Duration) {}

// Shutdown joins any outstanding load and releases the registry slot
func (c *ClientLobby) Shutdown() {
	c.loader.Join()

	c.mu.Lock()
	c.state = domain.StateIdle
	c.mu.Unlock()

	release(c)
	c.logger.Info("client lobby closed")
}

func (c *ClientLobby) transition(target domain.State) {
	if err := c.transitionChecked(target); err != nil {
		c.logger.Error("illegal state transition", "from", c.state, "to", target)
	}
}

func (c *ClientLobby) transitionChecked(target domain.State) error {
	if !c.state.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, c.state, target)
	}
	c.state = target
	return nil
}

func (c *ClientLobby) send(ev *domain.Event) {
	if err := c.messenger.SendTo(ServerPeerID, ev); err != nil {
		c.logger.Debug("failed to send to server", "type", ev.Type, "error", err)
	}
}
