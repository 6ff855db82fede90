package game

import "thirtyone/internal/protocol"

type notifyDealerMessage struct {
	Event protocol.ServerEvent `json:"event"`
	Hand  []Card               `json:"hand"`
}

type notifyPlayerMessage struct {
	Event          protocol.ServerEvent `json:"event"`
	Hand           []Card               `json:"hand"`
	CommunityCards []Card               `json:"communityCards"`
}

type updatePlayerMessage struct {
	Event  protocol.ServerEvent `json:"event"`
	Player playerInfo           `json:"player"`
}

type updateCommunityCardsMessage struct {
	Event          protocol.ServerEvent `json:"event"`
	CommunityCards []Card               `json:"communityCards"`
}

type endRoundMessage struct {
	Event  protocol.ServerEvent `json:"event"`
	Losers []playerInfo         `json:"losers"`
}

type endGameMessage struct {
	Event  protocol.ServerEvent `json:"event"`
	Winner *playerInfo          `json:"winner,omitempty"`
}

type swapCardRequest struct {
	PlayerCard    *Card `json:"playerCard"`
	CommunityCard *Card `json:"communityCard"`
}
