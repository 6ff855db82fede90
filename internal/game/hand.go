package game

// isFire reports whether every card in the hand is an Ass. Fire ends the
// round on the spot and beats every other hand.
func isFire(hand []Card) bool {
	if len(hand) == 0 {
		return false
	}
	for _, card := range hand {
		if card.Rank != Ass {
			return false
		}
	}
	return true
}

// isThirtyOne reports whether the cards of a single suit sum to exactly 31.
func isThirtyOne(hand []Card) bool {
	for suit := Hearts; suit <= Acorns; suit++ {
		if suitSum(hand, suit) == 31 {
			return true
		}
	}
	return false
}

func isThirtyAndAHalf(hand []Card) bool {
	if len(hand) == 0 {
		return false
	}
	for _, card := range hand {
		if card.Rank != hand[0].Rank {
			return false
		}
	}
	return true
}

// handValue scores a hand for the round: three of a kind is a fixed 30.5,
// otherwise the best per-suit point sum counts.
func handValue(hand []Card) float64 {
	if isThirtyAndAHalf(hand) {
		return 30.5
	}
	best := 0
	for suit := Hearts; suit <= Acorns; suit++ {
		if sum := suitSum(hand, suit); sum > best {
			best = sum
		}
	}
	return float64(best)
}

func suitSum(hand []Card, suit Suit) int {
	sum := 0
	for _, card := range hand {
		if card.Suit == suit {
			sum += card.Value()
		}
	}
	return sum
}
