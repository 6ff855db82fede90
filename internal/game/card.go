package game

import (
	"encoding/json"
	"fmt"
)

type Suit int

const (
	Hearts Suit = iota
	Leaves
	Bells
	Acorns
)

var suitNames = [...]string{"hearts", "leaves", "bells", "acorns"}

type Rank int

const (
	Seven Rank = iota
	Eight
	Nine
	Ten
	Unter
	Ober
	King
	Ass
)

var rankNames = [...]string{"seven", "eight", "nine", "ten", "unter", "ober", "king", "ass"}

type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// Value is the card's point value: Ass counts 11, the face cards and the ten
// count 10, the rest count their pips.
func (c Card) Value() int {
	switch c.Rank {
	case Ass:
		return 11
	case King, Ober, Unter, Ten:
		return 10
	default:
		return 7 + int(c.Rank)
	}
}

func (s Suit) String() string {
	if s < 0 || int(s) >= len(suitNames) {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

func (s Suit) MarshalJSON() ([]byte, error) {
	if s < 0 || int(s) >= len(suitNames) {
		return nil, fmt.Errorf("invalid card suit %d", int(s))
	}
	return json.Marshal(suitNames[s])
}

func (s *Suit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range suitNames {
		if n == name {
			*s = Suit(i)
			return nil
		}
	}
	return fmt.Errorf("unknown card suit %q", name)
}

func (r Rank) String() string {
	if r < 0 || int(r) >= len(rankNames) {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

func (r Rank) MarshalJSON() ([]byte, error) {
	if r < 0 || int(r) >= len(rankNames) {
		return nil, fmt.Errorf("invalid card rank %d", int(r))
	}
	return json.Marshal(rankNames[r])
}

func (r *Rank) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range rankNames {
		if n == name {
			*r = Rank(i)
			return nil
		}
	}
	return fmt.Errorf("unknown card rank %q", name)
}

// NewDeck returns the full 32-card deck, one card per (suit, rank) pair.
func NewDeck() []Card {
	deck := make([]Card, 0, 32)
	for suit := Hearts; suit <= Acorns; suit++ {
		for rank := Seven; rank <= Ass; rank++ {
			deck = append(deck, Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}
