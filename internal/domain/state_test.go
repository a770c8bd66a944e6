package domain

import "testing"

func TestState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from State
		to   State
		want bool
	}{
		{StateIdle, StateConnecting, true},
		{StateConnecting, StateSelecting, true},
		{StateSelecting, StateLoadingWorld, true},
		{StateLoadingWorld, StateRacing, true},
		{StateRacing, StateResultDisplay, true},
		{StateResultDisplay, StateSelecting, true}, // next voting round
		{StateResultDisplay, StateIdle, true},      // teardown
		// No skipping phases
		{StateConnecting, StateRacing, false},
		{StateSelecting, StateRacing, false},
		{StateIdle, StateRacing, false},
		// No going backwards mid-session
		{StateRacing, StateSelecting, false},
		{StateLoadingWorld, StateConnecting, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("%s.CanTransitionTo(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
