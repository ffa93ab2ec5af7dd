package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/seedroom-project/backend/internal/relay"
	"github.com/seedroom-project/backend/internal/roomid"
	"github.com/seedroom-project/backend/internal/router"
	"github.com/seedroom-project/backend/internal/secure"
)

var _ router.Controller = (*RoomController)(nil)

// RoomController exposes the request/response room lifecycle: creating a
// room (which mints the identifier, salt and derived key) and joining an
// existing one. The actual message relay happens over the event surface.
type RoomController struct {
	Rooms    *relay.RoomStore
	Sessions *relay.SessionStore
	Options  relay.Options
}

type roomRequest struct {
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
}

type roomResponse struct {
	RoomID  string `json:"room_id"`
	RoomKey string `json:"room_key"`
	Salt    string `json:"salt"`
	Status  string `json:"status"`
}

func (c *RoomController) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	now := time.Now()
	c.Sessions.Sweep(now)
	c.Rooms.Sweep(now)

	id, err := roomid.New()
	if err != nil {
		zap.L().Error("failed to generate room id", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	view, _, err := c.Rooms.Create(id, req.UserID, now)
	if err != nil {
		zap.L().Error("failed to create room", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	zap.L().Info("room created", zap.String("room_id", id), zap.Int("users_count", view.Members))
	writeJSON(w, http.StatusOK, roomResponse{
		RoomID:  view.ID,
		RoomKey: string(view.Key),
		Salt:    secure.EncodeSalt(view.Salt),
		Status:  "created",
	})
}

func (c *RoomController) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoomID == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "room_id and user_id are required")
		return
	}

	now := time.Now()
	c.Sessions.Sweep(now)
	c.Rooms.Sweep(now)

	view, _, err := c.Rooms.AddMember(req.RoomID, req.UserID)
	if err == relay.ErrRoomNotFound {
		if c.Options.RequireMembershipPrecheck {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		view, _, err = c.Rooms.Create(req.RoomID, req.UserID, now)
	}
	if err != nil {
		zap.L().Error("failed to join room", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, roomResponse{
		RoomID:  view.ID,
		RoomKey: string(view.Key),
		Salt:    secure.EncodeSalt(view.Salt),
		Status:  "joined",
	})
}

func (c *RoomController) Register(router *mux.Router) {
	router.HandleFunc("/api/create-room", c.handleCreateRoom).Methods(http.MethodPost)
	router.HandleFunc("/api/join-room", c.handleJoinRoom).Methods(http.MethodPost)
}
