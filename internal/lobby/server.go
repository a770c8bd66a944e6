package lobby

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"kartlobby/internal/domain"
)

// ServerConfig holds the authoritative lobby's settings
type ServerConfig struct {
	ServerName    string
	Password      string
	DataVersion   int
	MinPlayers    int
	MaxPlayers    int
	MaxVotingTime time.Duration

	// Fallback proposal when the voting deadline passes with an empty ledger
	DefaultTrack string
	DefaultLaps  int

	// LoadWork is the world-loading work run by the background orchestrator.
	// Nil means loading completes immediately.
	LoadWork func()
}

// ServerLobby is the authoritative session coordinator. It decides admission,
// runs the voting round, settles the winning proposal, and synchronizes
// world loading and the race start/finish across all peers.
//
// All state mutation happens under one mutex, serializing the transport's
// message-delivery context against the periodic tick context. The voting
// timer is the one piece of state read lock-free (see VotingTimer).
type ServerLobby struct {
	mu        sync.Mutex
	cfg       ServerConfig
	setup     *domain.GameSetup // non-owning, shared with the surrounding game
	ledger    *domain.VoteLedger
	timer     *VotingTimer
	loader    worldLoader
	messenger Messenger
	logger    *slog.Logger

	state        domain.State
	banned       map[string]bool
	serverLoaded bool
}

// CreateServer constructs the server lobby and installs it as the process's
// sole active coordinator. Panics if a coordinator is already active.
func CreateServer(cfg ServerConfig, setup *domain.GameSetup, messenger Messenger, logger *slog.Logger) *ServerLobby {
	s := &ServerLobby{
		cfg:       cfg,
		setup:     setup,
		ledger:    domain.NewVoteLedger(),
		timer:     NewVotingTimer(),
		messenger: messenger,
		logger:    logger,
		state:     domain.StateIdle,
		banned:    make(map[string]bool),
	}
	install(s)
	return s
}

// Setup opens the lobby for admissions
func (s *ServerLobby) Setup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transition(domain.StateConnecting)
	s.logger.Info("server lobby open",
		"name", s.cfg.ServerName,
		"maxPlayers", s.cfg.MaxPlayers,
	)
}

// Ban adds a player name to the ban list consulted at admission
func (s *ServerLobby) Ban(playerName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banned[playerName] = true
}

// State returns the current session state
func (s *ServerLobby) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsRacing reports whether the session is in the racing phase
func (s *ServerLobby) IsRacing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == domain.StateRacing
}

// Timer exposes the voting timer for lock-free polling by UI and transport
func (s *ServerLobby) Timer() *VotingTimer {
	return s.timer
}

// VoteCount returns the number of votes recorded this round
func (s *ServerLobby) VoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Count()
}

// GetVote returns the recorded vote for a peer, absent if it has not voted
func (s *ServerLobby) GetVote(peerID int) (domain.PeerVote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Get(peerID)
}

// AllPlayersReady reports per-phase readiness: every kart picked during the
// lobby phase, everyone (server included) loaded during the loading phase,
// every result acknowledged during the result phase.
func (s *ServerLobby) AllPlayersReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allPlayersReadyLocked()
}

func (s *ServerLobby) allPlayersReadyLocked() bool {
	switch s.state {
	case domain.StateConnecting:
		for _, p := range s.setup.Players() {
			if p.Kart == "" {
				return false
			}
		}
		return s.setup.PlayerCount() >= s.cfg.MinPlayers
	case domain.StateLoadingWorld:
		return s.serverLoaded && s.setup.AllLoadedWorld()
	case domain.StateResultDisplay:
		return s.setup.AllFinishedAck()
	default:
		return false
	}
}

// HandleEvent routes one inbound lobby event from the given peer
func (s *ServerLobby) HandleEvent(senderID int, ev *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ev.Type.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownEvent, ev.Type)
	}
	if !ev.Type.LegalIn(s.state) {
		return domain.NewProtocolViolation(ev.Type, s.state, senderID)
	}

	switch ev.Type {
	case domain.EventConnectionRequested:
		payload, ok := ev.Payload.(*domain.ConnectionRequestPayload)
		if !ok {
			return fmt.Errorf("%w: connection request payload", domain.ErrUnknownEvent)
		}
		s.admit(senderID, payload)
		return nil

	case domain.EventRequestBegin:
		if !s.setup.IsHost(senderID) {
			return domain.ErrNotHost
		}
		return s.startSelection()

	case domain.EventKartSelection:
		payload, ok := ev.Payload.(*domain.KartSelectionPayload)
		if !ok {
			return fmt.Errorf("%w: kart selection payload", domain.ErrUnknownEvent)
		}
		return s.selectKart(senderID, payload.Kart)

	case domain.EventVote:
		payload, ok := ev.Payload.(*domain.VotePayload)
		if !ok {
			return fmt.Errorf("%w: vote payload", domain.ErrUnknownEvent)
		}
		return s.recordVote(senderID, payload)

	case domain.EventClientLoadedWorld:
		return s.clientLoadedWorld(senderID)

	case domain.EventPlayerDisconnected:
		s.removePeer(senderID)
		return nil

	case domain.EventRaceFinishedAck:
		return s.finishedAck(senderID)

	case domain.EventChat:
		return s.messenger.Broadcast(ev)

	case domain.EventKickHost:
		payload, ok := ev.Payload.(*domain.KickPayload)
		if !ok {
			return fmt.Errorf("%w: kick payload", domain.ErrUnknownEvent)
		}
		return s.kick(senderID, payload.PeerID)

	case domain.EventChangeTeam:
		payload, ok := ev.Payload.(*domain.ChangeTeamPayload)
		if !ok {
			return fmt.Errorf("%w: change team payload", domain.ErrUnknownEvent)
		}
		return s.changeTeam(senderID, payload.Team)

	case domain.EventBadConnection:
		s.logger.Warn("peer reports bad connection", "peerID", senderID)
		return nil

	default:
		// Legal-state check passed but the event is server-emitted, so a
		// peer sending it to us is itself a violation.
		return domain.NewProtocolViolation(ev.Type, s.state, senderID)
	}
}

// admit decides a connection request, attaching exactly one refusal reason
// when the peer is turned away.
func (s *ServerLobby) admit(peerID int, req *domain.ConnectionRequestPayload) {
	if reason, refused := s.refusalReason(req); refused {
		s.logger.Info("connection refused", "peerID", peerID, "player", req.PlayerName, "reason", reason)
		s.sendTo(peerID, domain.NewEvent(domain.EventConnectionRefused,
			&domain.ConnectionRefusedPayload{Reason: reason}))
		return
	}

	profile := domain.NewPlayerProfile(peerID, req.PlayerName)
	s.setup.AddPlayer(profile)

	s.sendTo(peerID, domain.NewEvent(domain.EventConnectionAccepted, &domain.ConnectionAcceptedPayload{
		PeerID:   peerID,
		PlayerID: profile.PlayerID,
		HostID:   s.setup.HostID(),
	}))
	s.sendTo(peerID, domain.NewEvent(domain.EventServerInfo, &domain.ServerInfoPayload{
		ServerName:  s.cfg.ServerName,
		DataVersion: s.cfg.DataVersion,
		MaxPlayers:  s.cfg.MaxPlayers,
	}))
	s.broadcastPlayerList()

	s.logger.Info("player admitted", "peerID", peerID, "player", req.PlayerName)
}

func (s *ServerLobby) refusalReason(req *domain.ConnectionRequestPayload) (domain.RefusalReason, bool) {
	switch {
	case s.state != domain.StateConnecting:
		return domain.RefusalBusy, true
	case s.banned[req.PlayerName]:
		return domain.RefusalBanned, true
	case s.cfg.Password != "" && req.Password != s.cfg.Password:
		return domain.RefusalIncorrectPassword, true
	case req.DataVersion != s.cfg.DataVersion:
		return domain.RefusalIncompatibleData, true
	case s.setup.PlayerCount() >= s.cfg.MaxPlayers:
		return domain.RefusalTooManyPlayers, true
	case req.PlayerName == "" || s.setup.HasPlayerName(req.PlayerName):
		return domain.RefusalInvalidPlayer, true
	}
	return "", false
}

// startSelection opens a voting round: fresh ledger, armed timer, broadcast
func (s *ServerLobby) startSelection() error {
	if err := s.transitionChecked(domain.StateSelecting); err != nil {
		return err
	}
	s.setup.ResetForNewRound()
	s.serverLoaded = false
	s.ledger.Reset()
	s.timer.StartVotingPeriod(s.cfg.MaxVotingTime)

	s.broadcast(domain.NewEvent(domain.EventStartSelection, &domain.StartSelectionPayload{
		RemainingSeconds: s.timer.RemainingVotingTime(),
		MaxSeconds:       s.timer.MaxVotingTime(),
	}))
	s.logger.Info("voting round opened", "window", s.cfg.MaxVotingTime)
	return nil
}

func (s *ServerLobby) selectKart(peerID int, kart string) error {
	profile, ok := s.setup.GetPlayer(peerID)
	if !ok {
		return domain.ErrPlayerNotFound
	}
	profile.Kart = kart
	profile.SelectionDone = true
	s.broadcastPlayerList()
	return nil
}

// recordVote validates and stores a vote. Content validation lives here, not
// in the ledger. When every roster member has voted the round closes early.
func (s *ServerLobby) recordVote(peerID int, payload *domain.VotePayload) error {
	if _, ok := s.setup.GetPlayer(peerID); !ok {
		return domain.ErrPlayerNotFound
	}
	if payload.TrackID == "" || payload.Laps < 1 {
		return fmt.Errorf("%w: track %q laps %d", domain.ErrInvalidVote, payload.TrackID, payload.Laps)
	}

	s.ledger.Add(peerID, domain.NewPeerVote(payload.PlayerName, payload.TrackID, payload.Laps, payload.Reverse))
	s.broadcast(domain.NewEvent(domain.EventVote, payload))

	if s.ledger.Count() >= s.setup.PlayerCount() {
		s.timer.CloseNow()
	}
	return nil
}

func (s *ServerLobby) clientLoadedWorld(peerID int) error {
	profile, ok := s.setup.GetPlayer(peerID)
	if !ok {
		return domain.ErrPlayerNotFound
	}
	profile.LoadedWorld = true
	return nil
}

func (s *ServerLobby) finishedAck(peerID int) error {
	profile, ok := s.setup.GetPlayer(peerID)
	if !ok {
		return domain.ErrPlayerNotFound
	}
	profile.FinishedAck = true

	if s.setup.AllFinishedAck() {
		s.broadcast(domain.NewEvent(domain.EventExitResult, nil))
		return s.startSelection()
	}
	return nil
}

func (s *ServerLobby) kick(senderID, targetID int) error {
	if !s.setup.IsHost(senderID) {
		return domain.ErrNotHost
	}
	if _, ok := s.setup.GetPlayer(targetID); !ok {
		return domain.ErrPlayerNotFound
	}
	s.sendTo(targetID, domain.NewEvent(domain.EventKickHost, &domain.KickPayload{PeerID: targetID}))
	s.removePeer(targetID)
	return nil
}

func (s *ServerLobby) changeTeam(peerID int, team domain.Team) error {
	profile, ok := s.setup.GetPlayer(peerID)
	if !ok {
		return domain.ErrPlayerNotFound
	}

	// Judge the prospective split: the requester leaves their current team
	// before joining the new one.
	red, blue := s.setup.TeamCounts()
	switch profile.Team {
	case domain.TeamRed:
		red--
	case domain.TeamBlue:
		blue--
	}
	switch team {
	case domain.TeamRed:
		red++
	case domain.TeamBlue:
		blue++
	}
	if red-blue > 1 || blue-red > 1 {
		s.sendTo(peerID, domain.NewEvent(domain.EventBadTeam, nil))
		return nil
	}

	profile.Team = team
	s.broadcastPlayerList()
	return nil
}

// removePeer drops a peer from roster and ledger and hands the lobby to a
// remaining peer when the owner left.
func (s *ServerLobby) removePeer(peerID int) {
	newHost, changed := s.setup.RemovePlayer(peerID)
	s.ledger.Remove(peerID)
	s.broadcastPlayerList()
	if changed {
		s.broadcast(domain.NewEvent(domain.EventServerOwnership,
			&domain.ServerOwnershipPayload{HostID: newHost}))
	}
	s.logger.Info("peer removed", "peerID", peerID)
}

// PeerDisconnected is the transport's edge for a dropped connection
func (s *ServerLobby) PeerDisconnected(peerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.setup.GetPlayer(peerID); ok {
		s.removePeer(peerID)
	}
}

// Update drives time-based transitions from the tick context
func (s *ServerLobby) Update(delta time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.StateSelecting:
		if s.timer.IsVotingOver() {
			s.finalizeSelection()
		}
	case domain.StateLoadingWorld:
		if s.allPlayersReadyLocked() {
			s.startRace()
		}
	}
}

// finalizeSelection settles the winning proposal and moves everyone to
// loading. With votes present a uniformly random voter's ballot wins; with
// an empty ledger the server's configured default proposal is used, never
// skipped.
func (s *ServerLobby) finalizeSelection() {
	race := s.pickWinner()
	s.setup.SetRace(race)

	if err := s.transitionChecked(domain.StateLoadingWorld); err != nil {
		s.logger.Error("cannot leave selection", "error", err)
		return
	}

	s.broadcast(domain.NewEvent(domain.EventLoadWorld, &domain.LoadWorldPayload{
		TrackID: race.TrackID,
		Laps:    race.Laps,
		Reverse: race.Reverse,
	}))
	s.logger.Info("selection finished",
		"track", race.TrackID,
		"laps", race.Laps,
		"reverse", race.Reverse,
		"votes", s.ledger.Count(),
	)
	s.LoadWorld()
}

func (s *ServerLobby) pickWinner() domain.RaceSettings {
	votes := s.ledger.Snapshot()
	if len(votes) == 0 {
		return domain.RaceSettings{TrackID: s.cfg.DefaultTrack, Laps: s.cfg.DefaultLaps}
	}

	ids := make([]int, 0, len(votes))
	for id := range votes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	winner := votes[ids[rand.Intn(len(ids))]]

	return domain.RaceSettings{TrackID: winner.TrackID, Laps: winner.Laps, Reverse: winner.Reverse}
}

// LoadWorld runs the server's own world loading off the tick thread
func (s *ServerLobby) LoadWorld() {
	s.loader.Begin(func() {
		if s.cfg.LoadWork != nil {
			s.cfg.LoadWork()
		}
		s.FinishedLoadingWorld()
	})
}

// FinishedLoadingWorld marks the server side ready to race
func (s *ServerLobby) FinishedLoadingWorld() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverLoaded = true
}

func (s *ServerLobby) startRace() {
	if err := s.transitionChecked(domain.StateRacing); err != nil {
		s.logger.Error("cannot start race", "error", err)
		return
	}
	s.broadcast(domain.NewEvent(domain.EventStartRace, nil))
	s.logger.Info("race started", "track", s.setup.Race().TrackID)
}

// RaceFinished is the simulation's edge when the race ends. Standings are
// broadcast and the session moves to the result display.
func (s *ServerLobby) RaceFinished(standings []domain.RaceStanding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transitionChecked(domain.StateResultDisplay); err != nil {
		return err
	}
	s.broadcast(domain.NewEvent(domain.EventRaceFinished,
		&domain.RaceResultPayload{Standings: standings}))
	return nil
}

// ForceExitResult pushes every peer off the result screen and opens a new
// voting round even when acks are still missing.
func (s *ServerLobby) ForceExitResult() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateResultDisplay {
		return domain.ErrInvalidTransition
	}
	s.broadcast(domain.NewEvent(domain.EventExitResult, nil))
	return s.startSelection()
}

// Shutdown joins any outstanding load and releases the registry slot
func (s *ServerLobby) Shutdown() {
	s.loader.Join()

	s.mu.Lock()
	s.state = domain.StateIdle
	s.mu.Unlock()

	release(s)
	s.logger.Info("server lobby closed")
}

func (s *ServerLobby) transition(target domain.State) {
	if err := s.transitionChecked(target); err != nil {
		s.logger.Error("illegal state transition", "from", s.state, "to", target)
	}
}

func (s *ServerLobby) transitionChecked(target domain.State) error {
	if !s.state.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, s.state, target)
	}
	s.state = target
	return nil
}

func (s *ServerLobby) broadcastPlayerList() {
	s.broadcast(domain.NewEvent(domain.EventUpdatePlayerList, &domain.PlayerListPayload{
		Players: s.setup.Players(),
		HostID:  s.setup.HostID(),
	}))
}

func (s *ServerLobby) sendTo(peerID int, ev *domain.Event) {
	if err := s.messenger.SendTo(peerID, ev); err != nil {
		s.logger.Debug("failed to send to peer", "peerID", peerID, "error", err)
	}
}

func (s *ServerLobby) broadcast(ev *domain.Event) {
	if err := s.messenger.Broadcast(ev); err != nil {
		s.logger.Debug("failed to broadcast", "type", ev.Type, "error", err)
	}
}
