package game

import "thirtyone/internal/session"

// Player is a session's seat at the table. It only exists while a game is
// running; the session itself stays in the room after the game is over.
type Player struct {
	*session.Session

	Hand  []Card
	Lives int

	hasSkipped bool
	hasLocked  bool
	turnCount  int
}

func newPlayer(s *session.Session) *Player {
	return &Player{Session: s, Lives: 3}
}

// Eliminated players keep receiving broadcasts but take no further part in
// dealing or turn rotation.
func (p *Player) Eliminated() bool {
	return p.Lives < 0
}

type playerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Lives int    `json:"lives"`
	Hand  []Card `json:"hand,omitempty"`
}

func (p *Player) info(withHand bool) playerInfo {
	info := playerInfo{ID: p.ID, Name: p.Name, Lives: p.Lives}
	if withHand {
		info.Hand = p.Hand
	}
	return info
}
