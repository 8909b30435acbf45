// Package ws bridges websocket connections to the room coordinator. The
// reader loop decodes inbound event envelopes into coordinator messages;
// a writer goroutine drains the connection's outbox.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hglennon/storyteller-backend/internal/coordinator"
	"github.com/hglennon/storyteller-backend/internal/protocol"
)

const writeTimeout = 3 * time.Second

func Handler(c *coordinator.Coordinator, originPatterns []string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warn("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		outbox := make(chan protocol.ServerEvent, 32)

		c.Inbox() <- coordinator.Connect{ConnID: connID, Outbox: outbox}
		defer func() { c.Inbox() <- coordinator.Disconnect{ConnID: connID} }()

		// Writer goroutine: the coordinator closes the outbox when the
		// connection is deregistered.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for ev := range outbox {
				payload, err := json.Marshal(ev)
				if err != nil {
					logger.Error("marshal server event", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var ev protocol.ClientEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				logger.Warn("bad event envelope", zap.String("conn", connID), zap.Error(err))
				continue
			}

			msg, ok := toCoordinatorMsg(connID, ev, logger)
			if !ok {
				continue
			}
			c.Inbox() <- msg
		}
	}
}

// toCoordinatorMsg decodes an inbound envelope into a coordinator message.
// Malformed payloads and unknown events are logged and dropped; the client
// receives no reply for them.
func toCoordinatorMsg(connID string, ev protocol.ClientEvent, logger *zap.Logger) (coordinator.Msg, bool) {
	switch ev.Event {
	case protocol.EvtJoinRoom:
		var p protocol.JoinRoomPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			logger.Warn("bad joinRoom payload", zap.String("conn", connID), zap.Error(err))
			return nil, false
		}
		return coordinator.JoinRoom{ConnID: connID, Room: p.Room, ClientID: p.ClientID}, true

	case protocol.EvtTakeSeat:
		var p protocol.TakeSeatPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			logger.Warn("bad takeSeat payload", zap.String("conn", connID), zap.Error(err))
			return nil, false
		}
		return coordinator.TakeSeat{ConnID: connID, Room: p.Room, PlayerName: p.PlayerName}, true

	case protocol.EvtPassRoles:
		var p protocol.PassRolesPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			logger.Warn("bad passRoles payload", zap.String("conn", connID), zap.Error(err))
			return nil, false
		}
		if p.PrivatePlayers == nil {
			logger.Warn("passRoles without privatePlayers", zap.String("conn", connID))
			return nil, false
		}
		return coordinator.PassRoles{ConnID: connID, Room: p.Room, PrivatePlayers: p.PrivatePlayers}, true

	case protocol.EvtStartGame:
		var p protocol.GameState
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			logger.Warn("bad startGame payload", zap.String("conn", connID), zap.Error(err))
			return nil, false
		}
		return coordinator.StartGame{ConnID: connID, State: p}, true

	case protocol.EvtUpdateGameState:
		var p protocol.GameState
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			logger.Warn("bad updateGameState payload", zap.String("conn", connID), zap.Error(err))
			return nil, false
		}
		return coordinator.UpdateGameState{ConnID: connID, State: p}, true

	default:
		logger.Warn("unknown event", zap.String("conn", connID), zap.String("event", ev.Event))
		return nil, false
	}
}
