package lobby

import (
	"testing"
	"time"
)

func TestVotingTimer_RemainingEqualsMaxAfterArm(t *testing.T) {
	timer := NewVotingTimer()
	timer.StartVotingPeriod(30 * time.Second)

	remaining := timer.RemainingVotingTime()
	if remaining > 30.0 || remaining < 29.5 {
		t.Errorf("RemainingVotingTime() = %v, want ~30s right after arming", remaining)
	}
	if timer.MaxVotingTime() != 30.0 {
		t.Errorf("MaxVotingTime() = %v, want 30", timer.MaxVotingTime())
	}
	if timer.IsVotingOver() {
		t.Error("voting cannot be over immediately after arming a positive window")
	}
}

func TestVotingTimer_NeverNegative(t *testing.T) {
	timer := NewVotingTimer()

	if timer.RemainingVotingTime() != 0 {
		t.Error("unarmed timer must report zero remaining")
	}

	timer.StartVotingPeriod(10 * time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if got := timer.RemainingVotingTime(); got != 0 {
		t.Errorf("RemainingVotingTime() = %v after expiry, want 0", got)
	}
}

func TestVotingTimer_ExpiryIsMonotonic(t *testing.T) {
	timer := NewVotingTimer()
	timer.StartVotingPeriod(10 * time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if !timer.IsVotingOver() {
		t.Fatal("voting should be over after the window elapsed")
	}
	// Never flips back without a new arm
	for i := 0; i < 5; i++ {
		if !timer.IsVotingOver() {
			t.Fatal("IsVotingOver flipped back to false")
		}
	}

	timer.StartVotingPeriod(time.Minute)
	if timer.IsVotingOver() {
		t.Error("re-arming must reopen the window")
	}
}

func TestVotingTimer_ResumeKeepsWindowApart(t *testing.T) {
	timer := NewVotingTimer()
	timer.ResumeVotingPeriod(10*time.Second, 30*time.Second)

	if timer.MaxVotingTime() != 30.0 {
		t.Errorf("MaxVotingTime() = %v, want the full window", timer.MaxVotingTime())
	}
	remaining := timer.RemainingVotingTime()
	if remaining > 10.0 || remaining < 9.5 {
		t.Errorf("RemainingVotingTime() = %v, want ~10s", remaining)
	}
	if timer.IsVotingOver() {
		t.Error("a resumed round with time left is still open")
	}
}

func TestVotingTimer_CloseNow(t *testing.T) {
	timer := NewVotingTimer()
	timer.StartVotingPeriod(time.Hour)

	timer.CloseNow()

	if !timer.IsVotingOver() {
		t.Error("CloseNow must end the round immediately")
	}
	if timer.RemainingVotingTime() != 0 {
		t.Error("no time remains after CloseNow")
	}
	// The configured window is unchanged
	if timer.MaxVotingTime() != 3600.0 {
		t.Errorf("MaxVotingTime() = %v, want 3600", timer.MaxVotingTime())
	}
}
