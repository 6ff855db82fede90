// Package game implements the Thirty-One card game: deck and stack handling,
// dealer and turn rotation, hand evaluation and round/game termination, all
// sequenced by a table-driven state machine. The package never locks
// anything itself; the owning room serializes every call into it.
package game

import (
	"encoding/json"
	"log"
	"math/rand"

	"thirtyone/internal/protocol"
	"thirtyone/internal/session"
)

type Game struct {
	machine *Machine[State, Event]
	rng     *rand.Rand

	stack          []Card
	communityCards []Card
	players        []*Player

	currentDealer *Player
	currentPlayer *Player
	currentRound  int
}

// New seats the given sessions at a fresh table. The rng drives shuffling and
// the initial dealer pick; passing a seeded source makes a game fully
// deterministic.
func New(sessions []*session.Session, rng *rand.Rand) *Game {
	players := make([]*Player, len(sessions))
	for i, s := range sessions {
		players[i] = newPlayer(s)
	}
	return &Game{
		machine: newMachine(),
		rng:     rng,
		players: players,
	}
}

// Start kicks the machine out of its initial state and deals the first round.
func (g *Game) Start() {
	g.advance(Always, g.startRound)
}

// Over reports whether the game reached its terminal state.
func (g *Game) Over() bool {
	return g.machine.State() == EndGame
}

// HandleMessage applies one client action. Anybody but the player whose turn
// it is gets an explicit rejection; actions that the current game phase does
// not allow are dropped by the state machine.
func (g *Game) HandleMessage(sess *session.Session, env protocol.Envelope, raw []byte) {
	player := g.playerByID(sess.ID)
	if player == nil {
		log.Printf("Message from %s who is not seated in this game", sess.ID)
		return
	}
	if g.currentPlayer == nil {
		log.Printf("Game has no current player in state %s", g.machine.State())
		player.SendError("Internal game error")
		return
	}
	if player != g.currentPlayer {
		player.SendError("It's not your turn yet")
		return
	}

	switch env.Event {
	case protocol.EventDealerAcceptCards:
		g.advance(DealerAcceptCards, g.dealerAcceptCards)

	case protocol.EventDealerRejectCards:
		g.advance(DealerRejectCards, g.dealerRejectCards)

	case protocol.EventPlayerSwapCard:
		var req swapCardRequest
		if err := json.Unmarshal(raw, &req); err != nil || req.PlayerCard == nil || req.CommunityCard == nil {
			player.SendError("Invalid swap message")
			return
		}
		if !containsCard(player.Hand, *req.PlayerCard) {
			player.SendError("You do not have that card")
			return
		}
		if !containsCard(g.communityCards, *req.CommunityCard) {
			player.SendError("That card is not on the table")
			return
		}
		g.advance(PlayerSwapCard, func() { g.playerSwapCard(*req.PlayerCard, *req.CommunityCard) })

	case protocol.EventPlayerSkipTurn:
		if player.hasSkipped {
			player.SendError("You have already skipped")
			return
		}
		g.advance(PlayerSkipTurn, g.playerSkipTurn)

	case protocol.EventPlayerLockTurn:
		if player.turnCount < 1 {
			player.SendError("You can't lock yet")
			return
		}
		if player.hasLocked {
			player.SendError("You have already locked")
			return
		}
		g.advance(PlayerLockTurn, g.playerLockTurn)

	default:
		player.SendError("Unknown event")
	}
}

// advance moves the machine and, only when the transition was accepted, runs
// the handler for the new state.
func (g *Game) advance(event Event, handler func()) {
	if !g.machine.Advance(event) {
		return
	}
	log.Printf("Game state changed to %s", g.machine.State())
	if handler != nil {
		handler()
	}
}

func (g *Game) startRound() {
	g.currentRound++
	g.stack = shuffle(NewDeck(), g.rng)
	g.communityCards = nil
	for _, p := range g.players {
		p.hasSkipped = false
		p.hasLocked = false
		p.turnCount = 0
	}

	g.currentDealer = g.nextDealer()
	g.currentPlayer = g.currentDealer
	g.currentDealer.Hand = g.draw(3)
	log.Printf("Round %d started, %s deals", g.currentRound, g.currentDealer.Name)

	g.advance(Always, g.notifyDealer)
}

func (g *Game) notifyDealer() {
	g.currentDealer.Send(notifyDealerMessage{
		Event: protocol.ServerNotifyDealer,
		Hand:  g.currentDealer.Hand,
	})
}

// dealerAcceptCards: the dealt hand goes face-up on the table and the dealer
// draws a fresh one.
func (g *Game) dealerAcceptCards() {
	g.communityCards = g.currentDealer.Hand
	g.currentDealer.Hand = g.draw(3)

	g.currentDealer.Send(updatePlayerMessage{
		Event:  protocol.ServerUpdatePlayer,
		Player: g.currentDealer.info(true),
	})
	g.broadcast(updateCommunityCardsMessage{
		Event:          protocol.ServerUpdateCommunityCards,
		CommunityCards: g.communityCards,
	})

	g.advance(Always, g.setPlayersCards)
}

// dealerRejectCards: the dealer keeps the dealt hand and the table gets the
// next three cards off the stack instead.
func (g *Game) dealerRejectCards() {
	g.communityCards = g.draw(3)

	g.broadcast(updateCommunityCardsMessage{
		Event:          protocol.ServerUpdateCommunityCards,
		CommunityCards: g.communityCards,
	})

	g.advance(Always, g.setPlayersCards)
}

func (g *Game) setPlayersCards() {
	for _, p := range g.players {
		if p == g.currentDealer || p.Eliminated() {
			continue
		}
		p.Hand = g.draw(3)
		p.Send(updatePlayerMessage{
			Event:  protocol.ServerUpdatePlayer,
			Player: p.info(true),
		})
	}

	g.advance(Always, g.evaluateHands)
}

// evaluateHands runs after every hand change. An instant winning hand ends
// the round on the spot, otherwise play moves on.
func (g *Game) evaluateHands() {
	for _, p := range g.players {
		if p.Eliminated() {
			continue
		}
		if isFire(p.Hand) {
			g.advance(PlayerHasFire, g.endRound)
			return
		}
		if isThirtyOne(p.Hand) {
			g.advance(PlayerHasThirtyOne, g.endRound)
			return
		}
	}

	g.advance(Always, g.startTurn)
}

func (g *Game) startTurn() {
	g.currentPlayer = g.nextActive(g.currentPlayer)

	if g.currentPlayer.hasLocked {
		g.advance(PlayerHasLocked, g.endRound)
		return
	}

	g.advance(PlayerHasNotLocked, g.notifyPlayer)
}

func (g *Game) notifyPlayer() {
	g.currentPlayer.Send(notifyPlayerMessage{
		Event:          protocol.ServerNotifyPlayer,
		Hand:           g.currentPlayer.Hand,
		CommunityCards: g.communityCards,
	})
}

func (g *Game) playerSwapCard(playerCard, communityCard Card) {
	p := g.currentPlayer
	p.hasSkipped = false
	p.turnCount++

	p.Hand = replaceCard(p.Hand, playerCard, communityCard)
	g.communityCards = replaceCard(g.communityCards, communityCard, playerCard)

	p.Send(updatePlayerMessage{
		Event:  protocol.ServerUpdatePlayer,
		Player: p.info(true),
	})
	g.broadcast(updateCommunityCardsMessage{
		Event:          protocol.ServerUpdateCommunityCards,
		CommunityCards: g.communityCards,
	})

	g.advance(Always, g.evaluateHands)
}

func (g *Game) playerSkipTurn() {
	g.currentPlayer.hasSkipped = true
	g.currentPlayer.turnCount++

	g.advance(Always, g.startTurn)
}

func (g *Game) playerLockTurn() {
	p := g.currentPlayer
	p.hasLocked = true
	p.hasSkipped = false
	p.turnCount++

	g.advance(Always, g.startTurn)
}

func (g *Game) endRound() {
	losers := evaluateLosers(g.activePlayers())
	infos := make([]playerInfo, len(losers))
	for i, p := range losers {
		p.Lives--
		infos[i] = p.info(true)
	}
	for _, info := range infos {
		g.broadcast(updatePlayerMessage{Event: protocol.ServerUpdatePlayer, Player: info})
	}
	g.broadcast(endRoundMessage{Event: protocol.ServerEndRound, Losers: infos})

	// A tie for the lowest hand can eliminate the last players together, so
	// anything under two survivors ends the game.
	if len(g.activePlayers()) <= 1 {
		g.advance(OnePlayerLeft, g.endGame)
		return
	}

	g.advance(MoreThanOnePlayerLeft, g.startRound)
}

// endGame announces the survivor. The final round can take out everyone at
// once; the game still ends, just without a winner.
func (g *Game) endGame() {
	msg := endGameMessage{Event: protocol.ServerEndGame}
	if active := g.activePlayers(); len(active) == 1 {
		winner := active[0].info(false)
		msg.Winner = &winner
	} else {
		log.Printf("Game ended with no players left standing")
	}
	g.broadcast(msg)
}

// evaluateLosers returns the players losing a life this round: everyone tied
// for the lowest hand value, or everyone without Fire when someone has it.
func evaluateLosers(players []*Player) []*Player {
	if len(players) == 0 {
		return nil
	}
	for _, p := range players {
		if isFire(p.Hand) {
			losers := make([]*Player, 0, len(players))
			for _, q := range players {
				if !isFire(q.Hand) {
					losers = append(losers, q)
				}
			}
			return losers
		}
	}

	min := handValue(players[0].Hand)
	for _, p := range players[1:] {
		if v := handValue(p.Hand); v < min {
			min = v
		}
	}
	losers := make([]*Player, 0, len(players))
	for _, p := range players {
		if handValue(p.Hand)-min < 0.1 {
			losers = append(losers, p)
		}
	}
	return losers
}

func (g *Game) activePlayers() []*Player {
	active := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if !p.Eliminated() {
			active = append(active, p)
		}
	}
	return active
}

// nextDealer picks the first dealer uniformly at random, then rotates through
// the roster, skipping eliminated players.
func (g *Game) nextDealer() *Player {
	active := g.activePlayers()
	if g.currentDealer == nil {
		return active[g.rng.Intn(len(active))]
	}
	return g.nextActive(g.currentDealer)
}

// nextActive returns the next non-eliminated player after p in roster order.
func (g *Game) nextActive(p *Player) *Player {
	idx := g.indexOf(p)
	for i := 1; i <= len(g.players); i++ {
		candidate := g.players[(idx+i)%len(g.players)]
		if !candidate.Eliminated() {
			return candidate
		}
	}
	return p
}

func (g *Game) indexOf(p *Player) int {
	for i, q := range g.players {
		if q == p {
			return i
		}
	}
	return -1
}

func (g *Game) playerByID(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) broadcast(v any) {
	for _, p := range g.players {
		p.Send(v)
	}
}

// draw takes n cards off the front of the stack. The cards are copied out so
// later swaps cannot scribble over the remaining stack.
func (g *Game) draw(n int) []Card {
	if n > len(g.stack) {
		log.Printf("Draw of %d cards exceeds stack of %d", n, len(g.stack))
		n = len(g.stack)
	}
	cards := make([]Card, n)
	copy(cards, g.stack[:n])
	g.stack = g.stack[n:]
	return cards
}

// shuffle returns a uniformly shuffled copy of the deck.
func shuffle(deck []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

func containsCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}

// replaceCard swaps out for in within cards, in place.
func replaceCard(cards []Card, out, in Card) []Card {
	for i, c := range cards {
		if c == out {
			cards[i] = in
			break
		}
	}
	return cards
}
