package handler

import (
	"encoding/json"
	"net/http"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
	"github.com/osse101/ArcaneTable_Go/internal/logger"
	"github.com/osse101/ArcaneTable_Go/internal/session"
)

// RoomListing is one room in the list response, with live seat counts.
type RoomListing struct {
	RoomID    string `json:"room_id"`
	Name      string `json:"name"`
	Locked    bool   `json:"locked"`
	SeatsUsed int    `json:"seats_used"`
	MaxSeats  int    `json:"max_seats"`
}

// CreateRoomRequest is the create-room body.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// CreateRoomResponse returns the new room's identity.
type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
}

// HandleListRooms lists known rooms with their live seat usage.
func HandleListRooms(registry *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := registry.ListRooms(r.Context())
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to list rooms", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to list rooms")
			return
		}

		listings := make([]RoomListing, 0, len(summaries))
		for _, s := range summaries {
			listings = append(listings, RoomListing{
				RoomID:    s.RoomID,
				Name:      s.Name,
				Locked:    s.Locked,
				SeatsUsed: registry.SeatsUsed(s.RoomID),
				MaxSeats:  domain.MaxSeatsTotal,
			})
		}
		respondJSON(w, http.StatusOK, listings)
	}
}

// HandleCreateRoom creates a room and returns its id.
func HandleCreateRoom(registry *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		live, err := registry.CreateRoom(r.Context(), req.Name)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to create room", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to create room")
			return
		}

		respondJSON(w, http.StatusCreated, CreateRoomResponse{
			RoomID: live.Room.RoomID,
			Name:   live.Room.Name,
		})
	}
}
