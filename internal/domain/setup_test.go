package domain

import "testing"

func TestGameSetup_FirstPlayerBecomesHost(t *testing.T) {
	setup := NewGameSetup()

	if setup.HostID() != -1 {
		t.Errorf("empty roster HostID() = %d, want -1", setup.HostID())
	}

	setup.AddPlayer(NewPlayerProfile(4, "ann"))
	setup.AddPlayer(NewPlayerProfile(9, "bob"))

	if !setup.IsHost(4) {
		t.Error("first admitted peer should own the lobby")
	}
	if setup.IsHost(9) {
		t.Error("second peer must not own the lobby")
	}
}

func TestGameSetup_OwnershipTransfersWhenHostLeaves(t *testing.T) {
	setup := NewGameSetup()
	setup.AddPlayer(NewPlayerProfile(1, "ann"))
	setup.AddPlayer(NewPlayerProfile(2, "bob"))

	newHost, changed := setup.RemovePlayer(1)
	if !changed {
		t.Fatal("removing the host must transfer ownership")
	}
	if newHost != 2 {
		t.Errorf("new host = %d, want 2", newHost)
	}

	// Removing a non-host does not move ownership
	setup.AddPlayer(NewPlayerProfile(3, "cho"))
	if _, changed := setup.RemovePlayer(3); changed {
		t.Error("removing a non-host must not transfer ownership")
	}
}

func TestGameSetup_Readiness(t *testing.T) {
	setup := NewGameSetup()
	ann := NewPlayerProfile(1, "ann")
	bob := NewPlayerProfile(2, "bob")
	setup.AddPlayer(ann)
	setup.AddPlayer(bob)

	if setup.AllLoadedWorld() {
		t.Error("nobody loaded yet")
	}
	ann.LoadedWorld = true
	if setup.AllLoadedWorld() {
		t.Error("bob has not loaded")
	}
	bob.LoadedWorld = true
	if !setup.AllLoadedWorld() {
		t.Error("everyone loaded")
	}

	setup.ResetForNewRound()
	if setup.AllLoadedWorld() {
		t.Error("reset must clear the loaded flags")
	}
}

func TestGameSetup_TeamCounts(t *testing.T) {
	setup := NewGameSetup()
	ann := NewPlayerProfile(1, "ann")
	ann.Team = TeamRed
	bob := NewPlayerProfile(2, "bob")
	bob.Team = TeamBlue
	cho := NewPlayerProfile(3, "cho")
	setup.AddPlayer(ann)
	setup.AddPlayer(bob)
	setup.AddPlayer(cho)

	red, blue := setup.TeamCounts()
	if red != 1 || blue != 1 {
		t.Errorf("TeamCounts() = %d, %d, want 1, 1", red, blue)
	}
}

func TestGameSetup_HasPlayerName(t *testing.T) {
	setup := NewGameSetup()
	setup.AddPlayer(NewPlayerProfile(1, "ann"))

	if !setup.HasPlayerName("ann") {
		t.Error("ann is in the roster")
	}
	if setup.HasPlayerName("bob") {
		t.Error("bob is not in the roster")
	}
}
