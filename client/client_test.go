package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestClient_Rooms(t *testing.T) {
	req := require.New(t)
	authorization := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rooms", func(w http.ResponseWriter, r *http.Request) {
		authorization <- r.Header.Get("Authorization")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Room{RoomKey: "abcd1234", RoomName: body["name"], CreatedAt: time.Unix(0, 0).UTC()})
	})
	mux.HandleFunc("GET /rooms", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]Room{{RoomKey: "r1", RoomName: "one"}})
	})
	mux.HandleFunc("DELETE /rooms/{key}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "room not found: " + r.PathValue("key")})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := New(server.URL, "token")
	req.NoError(err)
	ctx := context.Background()

	room, err := c.CreateRoom(ctx, "Team")
	req.NoError(err)
	req.Equal("Team", room.RoomName)
	req.Equal("Bearer token", <-authorization)

	rooms, err := c.ListRooms(ctx)
	req.NoError(err)
	req.Len(rooms, 1)

	err = c.DeleteRoom(ctx, "ghost")
	var apiErr *APIError
	req.ErrorAs(err, &apiErr)
	req.Equal(http.StatusNotFound, apiErr.Status)
	req.Equal("room not found: ghost", apiErr.Message)
}

func TestClient_Login(t *testing.T) {
	req := require.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "signed"})
	})
	mux.HandleFunc("POST /register", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := New(server.URL, "")
	req.NoError(err)

	token, err := c.Login(context.Background(), "alice", "longenough")
	req.NoError(err)
	req.Equal("signed", token)

	_, err = c.Register(context.Background(), "alice", "longenough")
	var apiErr *APIError
	req.ErrorAs(err, &apiErr)
	req.Equal("boom", apiErr.Message)
}

func TestClient_Session(t *testing.T) {
	req := require.New(t)
	upgrader := websocket.Upgrader{}
	token := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token <- r.URL.Query().Get("token")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// Echo frames back
		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			_ = conn.WriteMessage(kind, data)
		}
	}))
	defer server.Close()

	c, err := New(server.URL, "secret")
	req.NoError(err)
	session, err := c.Dial(context.Background())
	req.NoError(err)
	defer session.Close()
	req.Equal("secret", <-token)

	req.NoError(session.Send("get room name", "1", map[string]string{"roomKey": "abc"}))
	env, err := session.Next()
	req.NoError(err)
	req.Equal("get room name", env.Type)
	req.Equal("1", env.RequestID)
	req.JSONEq(`{"roomKey":"abc"}`, string(env.Payload))

	req.NoError(session.Send("leave room", "", nil))
	env, err = session.Next()
	req.NoError(err)
	req.Empty(env.Payload)
}

func TestNew_Adds_Scheme(t *testing.T) {
	c, err := New("localhost:8080", "")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", c.baseURL.String())
}
