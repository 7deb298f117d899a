// Package protocol defines the JSON wire envelope exchanged between a
// client and the server, a tagged union shaped {"type": ..., "payload": ...}
// per §5. Grounded directly on original_source/backend/src/protocol.rs's
// ClientMessage/ServerMessage enums (translated from serde's
// #[serde(tag = "type", content = "payload")] into an explicit Envelope +
// per-variant payload struct, since Go has no native tagged-union
// serialization) plus the SPEC_FULL.md §12 supplements: YourTurn carries
// valid_actions, PlayerAction carries next_player, and PlayerGameView
// carries a populated history/round_number.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/gbridge/server/pkg/cards"
	"github.com/gbridge/server/pkg/game"
)

// MessageType names one variant of ClientMessage or ServerMessage.
type MessageType string

const (
	// Client -> server
	TypeCreateLobby     MessageType = "CreateLobby"
	TypeJoinLobby       MessageType = "JoinLobby"
	TypeLeaveLobby      MessageType = "LeaveLobby"
	TypeStartGame       MessageType = "StartGame"
	TypeListLobbies     MessageType = "ListLobbies"
	TypePlaceBid        MessageType = "PlaceBid"
	TypePlayCard        MessageType = "PlayCard"
	TypeRequestGameState MessageType = "RequestGameState"
	TypePing            MessageType = "Ping"

	// Server -> client
	TypeConnected          MessageType = "Connected"
	TypePong               MessageType = "Pong"
	TypeError              MessageType = "Error"
	TypeLobbyCreated       MessageType = "LobbyCreated"
	TypeLobbyJoined        MessageType = "LobbyJoined"
	TypeLobbyUpdated       MessageType = "LobbyUpdated"
	TypeLobbyList          MessageType = "LobbyList"
	TypeGameStarting       MessageType = "GameStarting"
	TypeGameState          MessageType = "GameState"
	TypeYourTurn           MessageType = "YourTurn"
	TypePlayerAction       MessageType = "PlayerAction"
	TypeTrickComplete      MessageType = "TrickComplete"
	TypeGameOver           MessageType = "GameOver"
	TypePlayerJoined       MessageType = "PlayerJoined"
	TypePlayerLeft         MessageType = "PlayerLeft"
	TypePlayerReconnected  MessageType = "PlayerReconnected"
)

// Envelope is the outer {"type", "payload"} shape every message takes on
// the wire.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode marshals a typed payload into an Envelope of the given type.
func Encode(t MessageType, payload interface{}) (Envelope, error) {
	if payload == nil {
		return Envelope{Type: t}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("protocol: encode %s: %w", t, err)
	}
	return Envelope{Type: t, Payload: raw}, nil
}

// GameSettings configures a lobby's future game (§3).
type GameSettings struct {
	PlayerCount     int  `json:"player_count"`
	TurnTimeoutSecs int  `json:"turn_timeout_secs"`
	AllowReconnect  bool `json:"allow_reconnect"`
}

// PlayerInfo names a participant for lobby listings.
type PlayerInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LobbyInfo is the client-facing view of one lobby.
type LobbyInfo struct {
	ID         string       `json:"id"`
	Host       string       `json:"host"`
	Players    []PlayerInfo `json:"players"`
	MaxPlayers int          `json:"max_players"`
	Settings   GameSettings `json:"settings"`
}

// --- Client -> server payloads ---

type CreateLobbyPayload struct {
	Settings GameSettings `json:"settings"`
}

type JoinLobbyPayload struct {
	LobbyID string `json:"lobby_id"`
}

type PlaceBidPayload struct {
	Bid int `json:"bid"`
}

type PlayCardPayload struct {
	Card cards.Card `json:"card"`
}

// --- Server -> client payloads ---

type ConnectedPayload struct {
	PlayerID string `json:"player_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type LobbyCreatedPayload struct {
	LobbyID string `json:"lobby_id"`
}

type LobbyJoinedPayload struct {
	Lobby LobbyInfo `json:"lobby"`
}

type LobbyUpdatedPayload struct {
	Lobby LobbyInfo `json:"lobby"`
}

type LobbyListPayload struct {
	Lobbies []LobbyInfo `json:"lobbies"`
}

type GameStartingPayload struct {
	GameID string `json:"game_id"`
}

// GameStatePayload carries a full PlayerView (game.View), renamed on the
// wire to match the original's PlayerGameView / GameState{state} shape.
type GameStatePayload struct {
	State game.View `json:"state"`
}

// YourTurnPayload lists every action the receiving player may currently
// take, the supplemental feature described in SPEC_FULL.md §12.
type YourTurnPayload struct {
	ValidActions []game.Action `json:"valid_actions"`
}

// PlayerActionPayload announces a move another player just made and who
// acts next, so clients never need to poll for GameState after every move.
type PlayerActionPayload struct {
	PlayerID   string     `json:"player_id"`
	Action     game.Action `json:"action"`
	NextPlayer string     `json:"next_player"`
}

type TrickCompletePayload struct {
	Winner string `json:"winner"`
}

type GameOverPayload struct {
	FinalScores map[string]int `json:"final_scores"`
}

type PlayerJoinedPayload struct {
	PlayerID string `json:"player_id"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

type PlayerReconnectedPayload struct {
	PlayerID string `json:"player_id"`
}
