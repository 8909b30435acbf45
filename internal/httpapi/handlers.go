package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hglennon/storyteller-backend/internal/coordinator"
)

// RoomInfo returns a read-only view of a room: whether it exists, whether
// it has a host, who is seated, and the current game state.
func RoomInfo(c *coordinator.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := chi.URLParam(r, "room")
		if room == "" {
			http.Error(w, "missing room", http.StatusBadRequest)
			return
		}

		reply := make(chan coordinator.RoomView, 1)
		c.Inbox() <- coordinator.GetRoomView{Room: room, Reply: reply}
		view := <-reply

		if !view.Exists {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(view)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
