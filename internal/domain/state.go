package domain

// State represents the current phase of a lobby session
type State string

const (
	StateIdle          State = "IDLE"           // No session activity
	StateConnecting    State = "CONNECTING"     // Lobby open: admission, kart/team choices
	StateSelecting     State = "SELECTING"      // Track voting in progress
	StateLoadingWorld  State = "LOADING_WORLD"  // Everyone loading race assets
	StateRacing        State = "RACING"         // Race running
	StateResultDisplay State = "RESULT_DISPLAY" // Showing results, collecting acks
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from current state to target state is valid
func (s State) CanTransitionTo(target State) bool {
	validTransitions := map[State][]State{
		StateIdle:          {StateConnecting},
		StateConnecting:    {StateSelecting, StateIdle},
		StateSelecting:     {StateLoadingWorld, StateIdle},
		StateLoadingWorld:  {StateRacing, StateIdle},
		StateRacing:        {StateResultDisplay, StateIdle},
		StateResultDisplay: {StateSelecting, StateIdle}, // New voting round or teardown
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == target {
			return true
		}
	}
	return false
}
