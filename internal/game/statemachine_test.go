package game

import "testing"

func TestAdvanceRejectsUnknownEvent(t *testing.T) {
	m := newMachine()

	if m.Advance(DealerAcceptCards) {
		t.Error("DealerAcceptCards accepted in StartGame")
	}
	if m.State() != StartGame {
		t.Errorf("state moved to %s on rejected event", m.State())
	}
}

func TestAdvanceWalksRoundSetup(t *testing.T) {
	m := newMachine()

	steps := []struct {
		event Event
		want  State
	}{
		{Always, StartRound},
		{Always, WaitForDealer},
		{DealerAcceptCards, DealerAcceptedCards},
		{Always, SetPlayersCards},
		{Always, EvaluateHands},
	}
	for _, step := range steps {
		if !m.Advance(step.event) {
			t.Fatalf("event %d rejected in state %s", step.event, m.State())
		}
		if m.State() != step.want {
			t.Fatalf("state = %s, want %s", m.State(), step.want)
		}
	}

	// A dealer decision makes no sense while hands are being evaluated.
	if m.Advance(DealerAcceptCards) {
		t.Error("DealerAcceptCards accepted in EvaluateHands")
	}
	if m.State() != EvaluateHands {
		t.Errorf("state = %s after rejected event, want EvaluateHands", m.State())
	}
}

func TestAdvanceTurnAndRoundEnd(t *testing.T) {
	m := NewMachine(SetNextPlayer, transitions)

	if !m.Advance(PlayerHasNotLocked) || m.State() != WaitForPlayer {
		t.Fatalf("state = %s, want WaitForPlayer", m.State())
	}
	if !m.Advance(PlayerSkipTurn) || m.State() != PlayerSkippedTurn {
		t.Fatalf("state = %s, want PlayerSkippedTurn", m.State())
	}
	if !m.Advance(Always) || m.State() != SetNextPlayer {
		t.Fatalf("state = %s, want SetNextPlayer", m.State())
	}
	if !m.Advance(PlayerHasLocked) || m.State() != EndRound {
		t.Fatalf("state = %s, want EndRound", m.State())
	}
	if !m.Advance(OnePlayerLeft) || m.State() != EndGame {
		t.Fatalf("state = %s, want EndGame", m.State())
	}
}

func TestEndGameIsTerminal(t *testing.T) {
	m := NewMachine(EndGame, transitions)

	for event := Always; event <= OnePlayerLeft; event++ {
		if m.Advance(event) {
			t.Errorf("event %d accepted in EndGame", event)
		}
	}
	if m.State() != EndGame {
		t.Errorf("state left EndGame: %s", m.State())
	}
}
