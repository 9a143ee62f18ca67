package transport

import (
	"context"
	"log/slog"
	"net/http"
	"room-relay/auth"
	"room-relay/contract"
	"room-relay/domain"
	"room-relay/services"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Options struct {
	SendBufferSize int
	MaxMessageSize int64
}

// Handler upgrades HTTP requests and runs one Client per connection.
type Handler struct {
	log        *slog.Logger
	dispatcher contract.Dispatcher
	rooms      services.IRoomService
	options    Options
	upgrader   websocket.Upgrader
	mu         sync.Mutex
	clients    map[domain.ConnectionID]*Client
}

func NewHandler(log *slog.Logger, dispatcher contract.Dispatcher, rooms services.IRoomService, options Options) *Handler {
	return &Handler{
		log:        log,
		dispatcher: dispatcher,
		rooms:      rooms,
		options:    options,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			// Browsers from any origin may connect
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[domain.ConnectionID]*Client),
	}
}

// ServeWs blocks for the lifetime of the connection. The username set by
// auth.Middleware, if any, is bound to the connection.
func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("Failed to upgrade connection", "error", err)
		return
	}

	username, _ := auth.UsernameFromContext(r.Context())
	client := &Client{
		id:             domain.ConnectionID(uuid.NewString()),
		conn:           conn,
		log:            h.log,
		dispatcher:     h.dispatcher,
		rooms:          h.rooms,
		username:       username,
		maxMessageSize: h.options.MaxMessageSize,
		send:           make(chan []byte, h.options.SendBufferSize),
		done:           make(chan struct{}),
	}

	ctx := context.WithoutCancel(r.Context())
	if err := h.dispatcher.Connect(ctx, client.id, client); err != nil {
		h.log.Warn("Connection refused", "error", err)
		_ = conn.Close()
		return
	}
	h.track(client)
	defer h.untrack(client)
	h.log.Debug("Connection opened", "connection", client.id, "username", username)

	go client.WritePump()
	client.ReadPump(ctx)
	h.log.Debug("Connection closed", "connection", client.id)
}

func (h *Handler) track(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

func (h *Handler) untrack(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c.id)
}

// Close closes every open connection, e.g. on shutdown.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		c.Close()
	}
}

// Len is the number of open connections.
func (h *Handler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
