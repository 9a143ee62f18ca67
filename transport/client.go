package transport

import (
	"context"
	"errors"
	"log/slog"
	"room-relay/contract"
	"room-relay/domain"
	"room-relay/domain/event"
	relayerrors "room-relay/errors"
	"room-relay/services"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client is one websocket connection. It is the EventSink the engine
// delivers to, and the source of that connection's commands.
type Client struct {
	id             domain.ConnectionID
	conn           *websocket.Conn
	log            *slog.Logger
	dispatcher     contract.Dispatcher
	rooms          services.IRoomService
	username       string
	maxMessageSize int64
	send           chan []byte
	done           chan struct{}
	closeOnce      sync.Once
}

func (c *Client) ID() domain.ConnectionID {
	return c.id
}

// Consume never blocks: a client that does not drain its buffer loses events.
func (c *Client) Consume(ctx context.Context, e event.Event) error {
	data, err := Encode(e)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return websocket.ErrCloseSent
	default:
	}
	select {
	case c.send <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return relayerrors.ErrSinkFull
	}
}

// Close asks the write pump to send a close frame and drop the connection,
// which makes ReadPump return.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// ReadPump turns frames into commands until the connection goes away, then
// submits the disconnect. There is at most one reader per connection.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Close()
		disconnectCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeWait)
		defer cancel()
		if err := c.dispatcher.Submit(disconnectCtx, domain.DisconnectCommand{Connection: c.id}); err != nil {
			c.log.Warn("Disconnect not submitted", "connection", c.id, "error", err)
		}
	}()

	c.conn.SetReadLimit(c.maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("Connection closed unexpectedly", "connection", c.id, "error", err)
			}
			return
		}
		c.handle(ctx, data)
	}
}

func (c *Client) handle(ctx context.Context, data []byte) {
	cmd, env, err := Decode(c.id, data)
	if err == nil {
		err = c.authorize(cmd)
	}
	if err == nil {
		err = c.dispatch(ctx, cmd)
	}
	if err != nil {
		c.log.Debug("Inbound event rejected", "connection", c.id, "type", env.Type, "error", err)
		c.reply(ctx, event.Failure{RequestID: env.RequestID, Reason: err.Error()})
	}
}

// authorize binds an authenticated connection to its token subject.
func (c *Client) authorize(cmd domain.Command) error {
	if c.username == "" {
		return nil
	}
	var username string
	switch v := cmd.(type) {
	case domain.JoinRoomCommand:
		username = v.Username
	case domain.PostMessageCommand:
		username = v.Username
	default:
		return nil
	}
	if username != c.username {
		return relayerrors.ErrUsernameMismatch
	}
	return nil
}

func (c *Client) dispatch(ctx context.Context, cmd domain.Command) error {
	if del, ok := cmd.(domain.DeleteRoomCommand); ok {
		return c.rooms.Delete(ctx, del.Room)
	}
	return c.dispatcher.Submit(ctx, cmd)
}

func (c *Client) reply(ctx context.Context, e event.Event) {
	if err := c.Consume(ctx, e); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		c.log.Warn("Reply dropped", "connection", c.id, "error", err)
	}
}

// WritePump is the only writer of the connection. It also keeps it alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debug("Write failed", "connection", c.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}
