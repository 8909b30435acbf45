// Package coordinator owns the authoritative in-memory state of all game
// rooms: who hosts each room, who is seated, and the last game-state
// snapshot. A single goroutine consumes typed messages from an inbox
// channel, so every operation runs to completion before the next one
// starts and the shared maps need no locks.
package coordinator

import (
	"context"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"

	"github.com/hglennon/storyteller-backend/internal/protocol"
)

type hostRef struct {
	clientID string
	connID   string
}

type seatedPlayer struct {
	name   string
	connID string
	role   string
}

type roomState struct {
	host      *hostRef
	gameState protocol.GameState
	// players is keyed by connection id; insertion order is seating order.
	players *orderedmap.OrderedMap[string, *seatedPlayer]
}

// clientBinding tracks a logical client's current connection and room.
// One binding per client id; a reconnect overwrites it.
type clientBinding struct {
	connID   string
	room     string
	clientID string
}

type conn struct {
	outbox chan protocol.ServerEvent
	// rooms this connection has joined; a connection never leaves a
	// room's broadcast group except by disconnecting.
	rooms map[string]struct{}
}

type Coordinator struct {
	inbox    chan Msg
	rooms    map[string]*roomState
	bindings map[string]clientBinding
	conns    map[string]*conn
	// groups is the transport's room-scoped broadcast membership:
	// room name -> set of connection ids.
	groups map[string]map[string]struct{}
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, logger *zap.Logger) *Coordinator {
	ctx, cancel := context.WithCancel(parent)
	c := &Coordinator{
		inbox:    make(chan Msg, 64),
		rooms:    make(map[string]*roomState),
		bindings: make(map[string]clientBinding),
		conns:    make(map[string]*conn),
		groups:   make(map[string]map[string]struct{}),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	go c.loop()
	return c
}

func (c *Coordinator) Inbox() chan<- Msg { return c.inbox }

func (c *Coordinator) loop() {
	for {
		select {
		case <-c.ctx.Done():
			c.shutdown()
			return

		case m := <-c.inbox:
			switch msg := m.(type) {
			case Connect:
				c.conns[msg.ConnID] = &conn{outbox: msg.Outbox, rooms: make(map[string]struct{})}
				c.logger.Info("user connected", zap.String("conn", msg.ConnID))

			case JoinRoom:
				c.handleJoinRoom(msg)

			case TakeSeat:
				c.handleTakeSeat(msg)

			case PassRoles:
				c.handlePassRoles(msg)

			case StartGame:
				c.handleStartGame(msg)

			case UpdateGameState:
				c.handleUpdateGameState(msg)

			case Disconnect:
				c.handleDisconnect(msg)

			case GetRoomView:
				msg.Reply <- c.roomView(msg.Room)

			case Shutdown:
				c.shutdown()
				return
			}
		}
	}
}

func (c *Coordinator) handleJoinRoom(m JoinRoom) {
	c.logger.Info("joining room", zap.String("conn", m.ConnID), zap.String("room", m.Room))

	rm, ok := c.rooms[m.Room]
	if !ok {
		rm = &roomState{
			gameState: protocol.EmptyGameState(m.Room),
			players:   orderedmap.New[string, *seatedPlayer](),
		}
		c.rooms[m.Room] = rm
	}

	c.bindings[m.ClientID] = clientBinding{connID: m.ConnID, room: m.Room, clientID: m.ClientID}
	c.joinGroup(m.Room, m.ConnID)

	switch {
	case rm.host == nil:
		rm.host = &hostRef{clientID: m.ClientID, connID: m.ConnID}
		c.unicast(m.ConnID, protocol.RoleEvent(protocol.RoleStoryTeller))
		c.logger.Info("client assigned as story teller",
			zap.String("client", m.ClientID), zap.String("room", m.Room))

	case rm.host.clientID == m.ClientID:
		// Reconnecting host reclaims the role under its new connection.
		rm.host = &hostRef{clientID: m.ClientID, connID: m.ConnID}
		c.unicast(m.ConnID, protocol.RoleEvent(protocol.RoleStoryTeller))
		c.logger.Info("client rejoining as story teller",
			zap.String("client", m.ClientID), zap.String("room", m.Room))

	default:
		c.unicast(m.ConnID, protocol.RoleEvent(protocol.RoleSpectator))
		c.logger.Info("client assigned as spectator",
			zap.String("client", m.ClientID), zap.String("room", m.Room))
	}

	// Late joiners and reconnecting clients catch up on the current state.
	c.unicast(m.ConnID, protocol.GameStateEvent(rm.gameState))
}

func (c *Coordinator) handleTakeSeat(m TakeSeat) {
	c.logger.Info("player taking a seat",
		zap.String("player", m.PlayerName), zap.String("room", m.Room))

	rm, ok := c.rooms[m.Room]
	if !ok {
		c.logger.Warn("room does not exist", zap.String("room", m.Room))
		return
	}

	if rm.host != nil && rm.host.connID == m.ConnID {
		c.logger.Warn("host cannot take a seat", zap.String("player", m.PlayerName))
		c.unicast(m.ConnID, protocol.ErrorEvent("You are the host and cannot take a seat."))
		return
	}

	if p := rm.findPlayerByName(m.PlayerName); p != nil {
		c.logger.Warn("player name already taken",
			zap.String("player", m.PlayerName), zap.String("room", m.Room))
		return
	}

	if existing, seated := rm.players.Get(m.ConnID); seated {
		c.logger.Warn("connection already seated",
			zap.String("conn", m.ConnID), zap.String("player", existing.name))
		return
	}

	c.broadcast(m.Room, protocol.TookSeatEvent(m.PlayerName))
	rm.players.Set(m.ConnID, &seatedPlayer{name: m.PlayerName, connID: m.ConnID})
}

func (c *Coordinator) handlePassRoles(m PassRoles) {
	if m.Room == "" {
		c.logger.Warn("passRoles with no room")
		return
	}

	c.logger.Info("passing out roles", zap.String("room", m.Room))

	rm, ok := c.rooms[m.Room]
	if !ok {
		c.logger.Warn("room does not exist", zap.String("room", m.Room))
		return
	}

	hostConn := ""
	if rm.host != nil {
		hostConn = rm.host.connID
	}
	if m.ConnID != hostConn {
		c.logger.Warn("non-host attempted to pass roles", zap.String("conn", m.ConnID))
		c.unicast(m.ConnID, protocol.ErrorEvent("Only the host can pass out roles"))
		return
	}

	for _, pp := range m.PrivatePlayers {
		if pp.Player.Name == "" || pp.AssignedCharacter == "" {
			c.logger.Warn("invalid role assignment entry", zap.String("room", m.Room))
			continue
		}

		p := rm.findPlayerByName(pp.Player.Name)
		if p == nil {
			c.logger.Warn("player not found in room",
				zap.String("player", pp.Player.Name), zap.String("room", m.Room))
			continue
		}

		p.role = pp.AssignedCharacter
		c.logger.Info("assigned role",
			zap.String("player", p.name), zap.String("role", pp.AssignedCharacter))
		c.unicast(p.connID, protocol.AssignedRoleEvent(p.name, pp.AssignedCharacter))
	}
}

func (c *Coordinator) handleStartGame(m StartGame) {
	c.logger.Info("game started",
		zap.String("room", m.State.Room), zap.String("on", m.State.GameStartedOn))

	rm, ok := c.rooms[m.State.Room]
	if !ok {
		return
	}

	rm.gameState = m.State
	c.broadcastExcept(m.State.Room, m.ConnID, protocol.GameStateEvent(rm.gameState))
}

func (c *Coordinator) handleUpdateGameState(m UpdateGameState) {
	rm := c.rooms[m.State.Room]

	hostConn := ""
	if rm != nil && rm.host != nil {
		hostConn = rm.host.connID
	}
	if m.ConnID != hostConn {
		c.unicast(m.ConnID, protocol.ErrorEvent("Only the host can update the game state"))
		return
	}

	c.logger.Info("game state changed", zap.String("room", m.State.Room))

	rm.gameState = m.State
	c.broadcastExcept(m.State.Room, m.ConnID, protocol.GameStateEvent(rm.gameState))
}

func (c *Coordinator) handleDisconnect(m Disconnect) {
	c.logger.Info("user disconnected", zap.String("conn", m.ConnID))

	// Bindings are keyed by client id, so find the owner by scanning.
	var binding *clientBinding
	for _, b := range c.bindings {
		if b.connID == m.ConnID {
			found := b
			binding = &found
			break
		}
	}

	if binding != nil {
		if rm := c.rooms[binding.room]; rm != nil {
			if p, seated := rm.players.Get(m.ConnID); seated {
				c.logger.Info("seated player left",
					zap.String("player", p.name), zap.String("room", binding.room))
				rm.players.Delete(m.ConnID)
				c.broadcast(binding.room, protocol.StoodUpFromSeatEvent(p.name))
			}
		}
		delete(c.bindings, binding.clientID)
	}

	c.dropConn(m.ConnID)
}

func (c *Coordinator) roomView(name string) RoomView {
	rm, ok := c.rooms[name]
	if !ok {
		return RoomView{Players: []PlayerView{}}
	}

	view := RoomView{
		Exists:     true,
		Players:    make([]PlayerView, 0, rm.players.Len()),
		GameState:  rm.gameState,
		NumMembers: len(c.groups[name]),
	}
	if rm.host != nil {
		view.HostClientID = rm.host.clientID
		view.HostConnID = rm.host.connID
	}
	for pair := rm.players.Oldest(); pair != nil; pair = pair.Next() {
		view.Players = append(view.Players, PlayerView{Name: pair.Value.name, Role: pair.Value.role})
	}
	return view
}

func (rm *roomState) findPlayerByName(name string) *seatedPlayer {
	for pair := rm.players.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.name == name {
			return pair.Value
		}
	}
	return nil
}

func (c *Coordinator) joinGroup(room, connID string) {
	members, ok := c.groups[room]
	if !ok {
		members = make(map[string]struct{})
		c.groups[room] = members
	}
	members[connID] = struct{}{}

	if cn := c.conns[connID]; cn != nil {
		cn.rooms[room] = struct{}{}
	}
}

// unicast delivers an event to one connection. Sends are fire-and-forget;
// a connection whose outbox is full is dropped as a slow consumer.
func (c *Coordinator) unicast(connID string, ev protocol.ServerEvent) {
	cn, ok := c.conns[connID]
	if !ok {
		return
	}
	select {
	case cn.outbox <- ev:
	default:
		c.logger.Warn("dropping slow connection", zap.String("conn", connID))
		c.dropConn(connID)
	}
}

func (c *Coordinator) broadcast(room string, ev protocol.ServerEvent) {
	for connID := range c.groups[room] {
		c.unicast(connID, ev)
	}
}

func (c *Coordinator) broadcastExcept(room, sender string, ev protocol.ServerEvent) {
	for connID := range c.groups[room] {
		if connID == sender {
			continue
		}
		c.unicast(connID, ev)
	}
}

// dropConn removes a connection from the registry and every broadcast
// group and closes its outbox. Seat and binding cleanup is driven by the
// transport's Disconnect message, not here.
func (c *Coordinator) dropConn(connID string) {
	cn, ok := c.conns[connID]
	if !ok {
		return
	}
	for room := range cn.rooms {
		delete(c.groups[room], connID)
	}
	delete(c.conns, connID)
	close(cn.outbox)
}

func (c *Coordinator) shutdown() {
	for connID := range c.conns {
		c.dropConn(connID)
	}
	c.cancel()
}
