// Package server exposes the relay over HTTP: the websocket endpoint plus a
// small JSON API for rooms and accounts.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"room-relay/auth"
	"room-relay/domain"
	"room-relay/errors"
	"room-relay/services"
	"time"

	"github.com/samber/lo"
)

type Dependencies struct {
	Log         *slog.Logger
	Rooms       services.IRoomService
	Accounts    services.IAuthService
	Verifier    auth.Verifier
	RequireAuth bool
	ServeWs     http.HandlerFunc
}

type roomResponse struct {
	RoomKey   domain.RoomKey `json:"roomKey"`
	RoomName  string         `json:"roomName"`
	CreatedAt time.Time      `json:"createdAt"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type api struct {
	log      *slog.Logger
	rooms    services.IRoomService
	accounts services.IAuthService
}

// NewRouter wires every route. Room mutations and the websocket go through
// auth.Middleware; accounts and reads are public.
func NewRouter(deps Dependencies) http.Handler {
	a := api{log: deps.Log, rooms: deps.Rooms, accounts: deps.Accounts}
	protect := auth.Middleware(deps.Verifier, deps.RequireAuth)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health)
	mux.Handle("GET /ws", protect(deps.ServeWs))
	mux.Handle("POST /rooms", protect(http.HandlerFunc(a.createRoom)))
	mux.HandleFunc("GET /rooms", a.listRooms)
	mux.HandleFunc("GET /rooms/{key}", a.getRoom)
	mux.Handle("DELETE /rooms/{key}", protect(http.HandlerFunc(a.deleteRoom)))
	mux.HandleFunc("POST /register", a.register)
	mux.HandleFunc("POST /login", a.login)
	return mux
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (a api) createRoom(w http.ResponseWriter, r *http.Request) {
	var body services.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid body")
		return
	}
	room, err := a.rooms.Create(r.Context(), body.Name)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomResponse(room))
}

func (a api) listRooms(w http.ResponseWriter, _ *http.Request) {
	rooms, err := a.rooms.List()
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(rooms, func(room domain.Room, _ int) roomResponse {
		return toRoomResponse(room)
	}))
}

func (a api) getRoom(w http.ResponseWriter, r *http.Request) {
	room, err := a.rooms.Get(domain.RoomKey(r.PathValue("key")))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(room))
}

func (a api) deleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := a.rooms.Delete(r.Context(), domain.RoomKey(r.PathValue("key"))); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a api) register(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid body")
		return
	}
	token, err := a.accounts.Register(body.Username, body.Password)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token.String()})
}

func (a api) login(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid body")
		return
	}
	token, err := a.accounts.Login(body.Username, body.Password)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token.String()})
}

func toRoomResponse(room domain.Room) roomResponse {
	return roomResponse{RoomKey: room.Key, RoomName: room.Name, CreatedAt: room.CreatedAt}
}

func (a api) writeError(w http.ResponseWriter, err error) {
	status := errors.MapToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		a.log.Error("Request failed", "error", err)
		writeJSONError(w, status, "internal error")
		return
	}
	writeJSONError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
