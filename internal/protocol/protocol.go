// Package protocol defines the JSON wire contract shared by the room and
// game layers. Every frame carries an "event" discriminant; payload structs
// live next to the code that handles them.
package protocol

import "encoding/json"

type ClientEvent string

const (
	EventJoinRoom          ClientEvent = "joinRoom"
	EventStartGame         ClientEvent = "startGame"
	EventDealerAcceptCards ClientEvent = "dealerAcceptCards"
	EventDealerRejectCards ClientEvent = "dealerRejectCards"
	EventPlayerSwapCard    ClientEvent = "playerSwapCard"
	EventPlayerSkipTurn    ClientEvent = "playerSkipTurn"
	EventPlayerLockTurn    ClientEvent = "playerLockTurn"
)

type ServerEvent string

const (
	ServerUpdateRoom           ServerEvent = "updateRoom"
	ServerStartGame            ServerEvent = "startGame"
	ServerNotifyDealer         ServerEvent = "notifyDealer"
	ServerNotifyPlayer         ServerEvent = "notifyPlayer"
	ServerUpdatePlayer         ServerEvent = "updatePlayer"
	ServerUpdateCommunityCards ServerEvent = "updateCommunityCards"
	ServerEndRound             ServerEvent = "endRound"
	ServerEndGame              ServerEvent = "endGame"
	ServerError                ServerEvent = "error"
)

// Envelope is the part of a client frame every handler understands. The raw
// frame is kept around so handlers can decode their own payload from it.
type Envelope struct {
	Event ClientEvent `json:"event"`
}

func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(raw, &env)
	return env, err
}

type ServerMessage struct {
	Event ServerEvent `json:"event"`
}

type ErrorMessage struct {
	Event   ServerEvent `json:"event"`
	Message string      `json:"message"`
}

func NewError(message string) ErrorMessage {
	return ErrorMessage{Event: ServerError, Message: message}
}
