package coordinator

import "github.com/hglennon/storyteller-backend/internal/protocol"

type Msg interface{ isCoordMsg() }

// Connect registers a connection and the outbox its events are delivered on.
type Connect struct {
	ConnID string
	Outbox chan protocol.ServerEvent
}

type JoinRoom struct {
	ConnID   string
	Room     string
	ClientID string
}

type TakeSeat struct {
	ConnID     string
	Room       string
	PlayerName string
}

type PassRoles struct {
	ConnID         string
	Room           string
	PrivatePlayers []protocol.PrivatePlayer
}

type StartGame struct {
	ConnID string
	State  protocol.GameState
}

type UpdateGameState struct {
	ConnID string
	State  protocol.GameState
}

// Disconnect is the transport-level close notification for a connection.
type Disconnect struct {
	ConnID string
}

// GetRoomView reflects a room's state without data races; used by the
// HTTP room view and by tests.
type GetRoomView struct {
	Room  string
	Reply chan RoomView
}

type Shutdown struct{}

func (Connect) isCoordMsg()         {}
func (JoinRoom) isCoordMsg()        {}
func (TakeSeat) isCoordMsg()        {}
func (PassRoles) isCoordMsg()       {}
func (StartGame) isCoordMsg()       {}
func (UpdateGameState) isCoordMsg() {}
func (Disconnect) isCoordMsg()      {}
func (GetRoomView) isCoordMsg()     {}
func (Shutdown) isCoordMsg()        {}

// PlayerView is one seated player in a RoomView, in seating order.
type PlayerView struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// RoomView is a read-only snapshot of a room.
type RoomView struct {
	Exists       bool               `json:"exists"`
	HostClientID string             `json:"hostClientId,omitempty"`
	HostConnID   string             `json:"-"`
	Players      []PlayerView       `json:"players"`
	GameState    protocol.GameState `json:"gameState"`
	NumMembers   int                `json:"numMembers"`
}
