// Package protocol defines the JSON event envelope and payload shapes
// exchanged between clients and the room coordinator.
package protocol

import "encoding/json"

// Inbound event names.
const (
	EvtJoinRoom        = "joinRoom"
	EvtTakeSeat        = "takeSeat"
	EvtPassRoles       = "passRoles"
	EvtStartGame       = "startGame"
	EvtUpdateGameState = "updateGameState"
)

// Outbound event names.
const (
	EvtRole            = "role"
	EvtTookSeat        = "tookSeat"
	EvtStoodUpFromSeat = "stoodUpFromSeat"
	EvtAssignedRole    = "assignedRole"
	EvtError           = "error"
)

// Role values assigned on joinRoom.
const (
	RoleStoryTeller = "story-teller"
	RoleSpectator   = "spectator"
)

// ClientEvent is the inbound envelope. Data is decoded per event name.
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEvent is the outbound envelope.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type JoinRoomPayload struct {
	Room     string `json:"room"`
	ClientID string `json:"clientId"`
}

type TakeSeatPayload struct {
	Room       string `json:"room"`
	PlayerName string `json:"playerName"`
}

// PrivatePlayer is one role assignment inside a passRoles request.
type PrivatePlayer struct {
	Player            PlayerRef `json:"player"`
	AssignedCharacter string    `json:"assignedCharacter"`
}

type PlayerRef struct {
	Name string `json:"name"`
}

type PassRolesPayload struct {
	Room           string          `json:"room"`
	PrivatePlayers []PrivatePlayer `json:"privatePlayers"`
}

// GameState is the host-authoritative snapshot. Players is stored and
// rebroadcast verbatim; the coordinator never inspects it.
type GameState struct {
	Room          string          `json:"room"`
	Script        string          `json:"script"`
	IsStarted     bool            `json:"isStarted"`
	GameStartedOn string          `json:"gameStartedOn"`
	Players       json.RawMessage `json:"players"`
}

// EmptyGameState is the snapshot a room starts with before any startGame.
func EmptyGameState(room string) GameState {
	return GameState{Room: room, Players: json.RawMessage("[]")}
}

type RolePayload struct {
	Role string `json:"role"`
}

type AssignedRolePayload struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func RoleEvent(role string) ServerEvent {
	return ServerEvent{Event: EvtRole, Data: RolePayload{Role: role}}
}

// TookSeatEvent carries the bare player name, matching the original
// client contract.
func TookSeatEvent(playerName string) ServerEvent {
	return ServerEvent{Event: EvtTookSeat, Data: playerName}
}

func StoodUpFromSeatEvent(playerName string) ServerEvent {
	return ServerEvent{Event: EvtStoodUpFromSeat, Data: playerName}
}

func AssignedRoleEvent(name, role string) ServerEvent {
	return ServerEvent{Event: EvtAssignedRole, Data: AssignedRolePayload{Name: name, Role: role}}
}

func GameStateEvent(state GameState) ServerEvent {
	return ServerEvent{Event: EvtUpdateGameState, Data: state}
}

func ErrorEvent(message string) ServerEvent {
	return ServerEvent{Event: EvtError, Data: ErrorPayload{Message: message}}
}
