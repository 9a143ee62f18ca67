// Package event defines the outbound events the relay delivers to connections.
// Kind values are the wire event types.
package event

import (
	"encoding/json"
	"room-relay/domain"
)

type Kind string

const (
	KindConnected    Kind = "connected"
	KindUserJoined   Kind = "user joined"
	KindUserLeft     Kind = "user left"
	KindOnlineUsers  Kind = "online users"
	KindJoinFailed   Kind = "join failed"
	KindMessage      Kind = "message"
	KindRoomName     Kind = "room name"
	KindError        Kind = "error"
	KindOffer        Kind = "offer"
	KindAnswer       Kind = "answer"
	KindICECandidate Kind = "ice-candidate"
)

type Event interface {
	Kind() Kind
}

// Correlated events answer a request and echo its id.
type Correlated interface {
	CorrelationID() string
}

// Relayed events are forwarded on behalf of another connection.
type Relayed interface {
	Origin() domain.ConnectionID
}

// Connected tells a client the id other peers address it with.
type Connected struct {
	ID domain.ConnectionID `json:"id"`
}

func (Connected) Kind() Kind { return KindConnected }

type UserJoined struct {
	Message    string              `json:"message"`
	Room       domain.RoomKey      `json:"room"`
	Connection domain.ConnectionID `json:"connection"`
}

func (UserJoined) Kind() Kind { return KindUserJoined }

type UserLeft struct {
	Message    string              `json:"message"`
	Room       domain.RoomKey      `json:"room"`
	Connection domain.ConnectionID `json:"connection,omitempty"`
}

func (UserLeft) Kind() Kind { return KindUserLeft }

// OnlineUsers is a full snapshot of a room's participant list.
// On the wire it is the bare ordered list of names.
type OnlineUsers struct {
	Room  domain.RoomKey
	Users []string
}

func (OnlineUsers) Kind() Kind { return KindOnlineUsers }

func (o OnlineUsers) MarshalJSON() ([]byte, error) {
	if o.Users == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.Users)
}

type JoinFailed struct {
	Room domain.RoomKey `json:"room"`
}

func (JoinFailed) Kind() Kind { return KindJoinFailed }

type MessageSent struct {
	Message  string         `json:"message"`
	Username string         `json:"username"`
	Room     domain.RoomKey `json:"room"`
}

func (MessageSent) Kind() Kind { return KindMessage }

// RoomName answers a room name lookup. Name is nil for an unknown key.
type RoomName struct {
	RequestID string  `json:"-"`
	Name      *string `json:"name"`
}

func (RoomName) Kind() Kind { return KindRoomName }

func (r RoomName) CorrelationID() string { return r.RequestID }

// Failure reports a rejected inbound event to its sender only.
type Failure struct {
	RequestID string `json:"-"`
	Reason    string `json:"error"`
}

func (Failure) Kind() Kind { return KindError }

func (f Failure) CorrelationID() string { return f.RequestID }

// Signal is a negotiation payload relayed verbatim.
type Signal struct {
	Signal  domain.CommandKind
	From    domain.ConnectionID
	Payload json.RawMessage
}

func (s Signal) Kind() Kind { return Kind(s.Signal) }

func (s Signal) Origin() domain.ConnectionID { return s.From }

func (s Signal) MarshalJSON() ([]byte, error) {
	if len(s.Payload) == 0 {
		return []byte("null"), nil
	}
	return s.Payload, nil
}
