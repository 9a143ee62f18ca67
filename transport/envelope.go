// Package transport adapts websocket connections to relay commands and events.
package transport

import (
	"encoding/json"
	"fmt"
	"room-relay/domain"
	"room-relay/domain/event"
	"room-relay/errors"
)

// Envelope is the frame exchanged in both directions.
type Envelope struct {
	Type      string              `json:"type"`
	RequestID string              `json:"request_id,omitempty"`
	From      domain.ConnectionID `json:"from,omitempty"`
	Payload   json.RawMessage     `json:"payload,omitempty"`
}

type roomKeyPayload struct {
	RoomKey domain.RoomKey `json:"roomKey"`
}

type joinRoomPayload struct {
	RoomKey  domain.RoomKey `json:"roomKey"`
	Username string         `json:"username"`
}

type messagePayload struct {
	Room     domain.RoomKey `json:"room"`
	Message  string         `json:"message"`
	Username string         `json:"username"`
}

// Decode turns a frame sent by connection into a command. The envelope is
// returned even on failure so the caller can echo its request id.
func Decode(connection domain.ConnectionID, data []byte) (domain.Command, Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, env, fmt.Errorf("%w: %v", errors.ErrMalformedEvent, err)
	}

	kind := domain.CommandKind(env.Type)
	switch kind {
	case domain.KindGetRoomName:
		var p roomKeyPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, env, err
		}
		return domain.GetRoomNameCommand{Connection: connection, RequestID: env.RequestID, Room: p.RoomKey}, env, nil
	case domain.KindJoinRoom:
		var p joinRoomPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, env, err
		}
		return domain.JoinRoomCommand{Connection: connection, Room: p.RoomKey, Username: p.Username}, env, nil
	case domain.KindLeaveRoom:
		return domain.LeaveRoomCommand{Connection: connection}, env, nil
	case domain.KindPostMessage:
		var p messagePayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, env, err
		}
		return domain.PostMessageCommand{Room: p.Room, Username: p.Username, Content: p.Message}, env, nil
	case domain.KindOffer, domain.KindAnswer, domain.KindICECandidate:
		return domain.NewSignalCommand(kind, connection, env.Payload), env, nil
	case domain.KindDeleteRoom:
		var p roomKeyPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, env, err
		}
		return domain.DeleteRoomCommand{Room: p.RoomKey}, env, nil
	case domain.KindGetOnlineUsers:
		var p roomKeyPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, env, err
		}
		return domain.GetOnlineUsersCommand{Connection: connection, Room: p.RoomKey}, env, nil
	default:
		return nil, env, fmt.Errorf("%w: %q", errors.ErrUnknownEvent, env.Type)
	}
}

func unmarshalPayload(env Envelope, v any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("%w: %s without payload", errors.ErrMalformedEvent, env.Type)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrMalformedEvent, env.Type, err)
	}
	return nil
}

// Encode wraps an event into a frame.
func Encode(e event.Event) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	env := Envelope{Type: string(e.Kind()), Payload: payload}
	if c, ok := e.(event.Correlated); ok {
		env.RequestID = c.CorrelationID()
	}
	if r, ok := e.(event.Relayed); ok {
		env.From = r.Origin()
	}
	return json.Marshal(env)
}
