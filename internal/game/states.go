package game

type State int

const (
	StartGame State = iota
	StartRound
	WaitForDealer
	DealerAcceptedCards
	DealerRejectedCards
	SetPlayersCards
	EvaluateHands
	SetNextPlayer
	WaitForPlayer
	PlayerSwappedCards
	PlayerSkippedTurn
	PlayerLockedTurn
	EndRound
	EndGame
)

var stateNames = [...]string{
	"StartGame",
	"StartRound",
	"WaitForDealer",
	"DealerAcceptedCards",
	"DealerRejectedCards",
	"SetPlayersCards",
	"EvaluateHands",
	"SetNextPlayer",
	"WaitForPlayer",
	"PlayerSwappedCards",
	"PlayerSkippedTurn",
	"PlayerLockedTurn",
	"EndRound",
	"EndGame",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(?)"
	}
	return stateNames[s]
}

type Event int

const (
	Always Event = iota
	DealerAcceptCards
	DealerRejectCards
	PlayerSwapCard
	PlayerSkipTurn
	PlayerLockTurn
	PlayerHasLocked
	PlayerHasNotLocked
	PlayerHasThirtyOne
	PlayerHasFire
	MoreThanOnePlayerLeft
	OnePlayerLeft
)

// transitions drives a full game: rounds are set up, the dealer decides on
// their hand, everyone else is dealt, then turns rotate until a lock or an
// instant winning hand ends the round. EndGame is terminal.
var transitions = map[State]map[Event]State{
	StartGame: {
		Always: StartRound,
	},
	StartRound: {
		Always: WaitForDealer,
	},
	WaitForDealer: {
		DealerAcceptCards: DealerAcceptedCards,
		DealerRejectCards: DealerRejectedCards,
	},
	DealerAcceptedCards: {
		Always: SetPlayersCards,
	},
	DealerRejectedCards: {
		Always: SetPlayersCards,
	},
	SetPlayersCards: {
		Always: EvaluateHands,
	},
	EvaluateHands: {
		PlayerHasThirtyOne: EndRound,
		PlayerHasFire:      EndRound,
		Always:             SetNextPlayer,
	},
	SetNextPlayer: {
		PlayerHasLocked:    EndRound,
		PlayerHasNotLocked: WaitForPlayer,
	},
	WaitForPlayer: {
		PlayerSwapCard: PlayerSwappedCards,
		PlayerSkipTurn: PlayerSkippedTurn,
		PlayerLockTurn: PlayerLockedTurn,
	},
	PlayerSwappedCards: {
		Always: EvaluateHands,
	},
	PlayerSkippedTurn: {
		Always: SetNextPlayer,
	},
	PlayerLockedTurn: {
		Always: SetNextPlayer,
	},
	EndRound: {
		MoreThanOnePlayerLeft: StartRound,
		OnePlayerLeft:         EndGame,
	},
}

func newMachine() *Machine[State, Event] {
	return NewMachine(StartGame, transitions)
}
