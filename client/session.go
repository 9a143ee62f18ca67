package client

import (
	"context"
	"encoding/json"
	"fmt"
	"room-relay/transport"
	"sync"

	"github.com/gorilla/websocket"
)

const maxMessageSize = 64 * 1024

// Session is one websocket connection to the relay.
// Send and Next may be used from two different goroutines.
type Session struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *Client) Dial(ctx context.Context) (*Session, error) {
	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u = *u.JoinPath("/ws")
	if c.token != "" {
		q := u.Query()
		q.Set("token", c.token)
		u.RawQuery = q.Encode()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	conn.SetReadLimit(maxMessageSize)
	return &Session{conn: conn}, nil
}

// Send writes one frame. A nil payload is omitted.
func (s *Session) Send(kind, requestID string, payload any) error {
	env := transport.Envelope{Type: kind, RequestID: requestID}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		env.Payload = data
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(env)
}

// Next blocks until the next frame arrives.
func (s *Session) Next() (transport.Envelope, error) {
	var env transport.Envelope
	err := s.conn.ReadJSON(&env)
	return env, err
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}
