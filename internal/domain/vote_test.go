package domain

import "testing"

func TestVoteLedger_AddOverwrites(t *testing.T) {
	ledger := NewVoteLedger()

	ledger.Add(7, NewPeerVote("ann", "hacienda", 3, false))
	ledger.Add(7, NewPeerVote("ann", "volcano", 5, true))

	vote, ok := ledger.Get(7)
	if !ok {
		t.Fatal("expected a vote for peer 7")
	}
	if vote.TrackID != "volcano" || vote.Laps != 5 || !vote.Reverse {
		t.Errorf("got %+v, want the most recent vote", vote)
	}
	if ledger.Count() != 1 {
		t.Errorf("Count() = %d, want 1 after overwrite", ledger.Count())
	}
}

func TestVoteLedger_SparseIDs(t *testing.T) {
	ledger := NewVoteLedger()

	// Peer ids are not contiguous
	ledger.Add(1, NewPeerVote("ann", "hacienda", 3, false))
	ledger.Add(2, NewPeerVote("bob", "volcano", 2, false))
	ledger.Add(5, NewPeerVote("cho", "minigolf", 4, true))

	if ledger.Count() != 3 {
		t.Errorf("Count() = %d, want 3", ledger.Count())
	}
	if _, ok := ledger.Get(3); ok {
		t.Error("Get(3) should be absent, peer 3 never voted")
	}
	if vote, ok := ledger.Get(5); !ok || vote.TrackID != "minigolf" {
		t.Errorf("Get(5) = %+v, %v", vote, ok)
	}
}

func TestVoteLedger_AddDoesNotAffectOthers(t *testing.T) {
	ledger := NewVoteLedger()
	ledger.Add(1, NewPeerVote("ann", "hacienda", 3, false))
	ledger.Add(2, NewPeerVote("bob", "volcano", 2, false))

	ledger.Add(1, NewPeerVote("ann", "minigolf", 1, false))

	if vote, _ := ledger.Get(2); vote.TrackID != "volcano" {
		t.Errorf("peer 2's vote changed to %+v", vote)
	}
}

func TestVoteLedger_RemoveAndReset(t *testing.T) {
	ledger := NewVoteLedger()
	ledger.Add(1, NewPeerVote("ann", "hacienda", 3, false))
	ledger.Add(2, NewPeerVote("bob", "volcano", 2, false))

	ledger.Remove(1)
	if _, ok := ledger.Get(1); ok {
		t.Error("vote should be gone after Remove")
	}
	if ledger.Count() != 1 {
		t.Errorf("Count() = %d, want 1", ledger.Count())
	}

	ledger.Reset()
	if ledger.Count() != 0 {
		t.Errorf("Count() = %d, want 0 after Reset", ledger.Count())
	}
}

func TestVoteLedger_SnapshotIsACopy(t *testing.T) {
	ledger := NewVoteLedger()
	ledger.Add(1, NewPeerVote("ann", "hacienda", 3, false))

	snap := ledger.Snapshot()
	snap[1] = NewPeerVote("ann", "volcano", 1, true)

	if vote, _ := ledger.Get(1); vote.TrackID != "hacienda" {
		t.Error("mutating a snapshot must not touch the ledger")
	}
}
