package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hglennon/storyteller-backend/internal/config"
	"github.com/hglennon/storyteller-backend/internal/coordinator"
	"github.com/hglennon/storyteller-backend/internal/protocol"
)

func newTestServer(t *testing.T) (*coordinator.Coordinator, *httptest.Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c := coordinator.New(ctx, zap.NewNop())
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 0, AllowedOrigins: []string{"localhost:*"}}

	srv := httptest.NewServer(SetupRoutes(c, cfg, zap.NewNop()))
	t.Cleanup(srv.Close)
	return c, srv
}

func TestHealthz(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoomInfo_UnknownRoom(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/rooms/nowhere")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoomInfo_ReportsRoomState(t *testing.T) {
	c, srv := newTestServer(t)

	out := make(chan protocol.ServerEvent, 8)
	c.Inbox() <- coordinator.Connect{ConnID: "conn-a", Outbox: out}
	c.Inbox() <- coordinator.JoinRoom{ConnID: "conn-a", Room: "R1", ClientID: "client-a"}

	// Drain the join replies so the room is fully set up before reading.
	for i := 0; i < 2; i++ {
		select {
		case <-out:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for join reply")
		}
	}

	resp, err := http.Get(srv.URL + "/rooms/R1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var view coordinator.RoomView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.True(t, view.Exists)
	require.Equal(t, "client-a", view.HostClientID)
	require.Equal(t, 1, view.NumMembers)
	require.Equal(t, "R1", view.GameState.Room)
}
