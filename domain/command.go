package domain

import "encoding/json"

// CommandKind names an inbound event. The values double as wire event types.
type CommandKind string

const (
	KindGetRoomName    CommandKind = "get room name"
	KindJoinRoom       CommandKind = "join room"
	KindLeaveRoom      CommandKind = "leave room"
	KindPostMessage    CommandKind = "message"
	KindOffer          CommandKind = "offer"
	KindAnswer         CommandKind = "answer"
	KindICECandidate   CommandKind = "ice-candidate"
	KindDeleteRoom     CommandKind = "delete room"
	KindGetOnlineUsers CommandKind = "get online users"
	KindDisconnect     CommandKind = "disconnect"
	KindRegisterRoom   CommandKind = "register room"
)

// IsSignal reports whether the kind is a peer-connection negotiation step.
func (k CommandKind) IsSignal() bool {
	return k == KindOffer || k == KindAnswer || k == KindICECandidate
}

type Command interface {
	Kind() CommandKind
}

type GetRoomNameCommand struct {
	Connection ConnectionID `validate:"required"`
	RequestID  string
	Room       RoomKey `validate:"required"`
}

func (GetRoomNameCommand) Kind() CommandKind { return KindGetRoomName }

type JoinRoomCommand struct {
	Connection ConnectionID `validate:"required"`
	Room       RoomKey      `validate:"required"`
	Username   string       `validate:"required,max=64"`
}

func (JoinRoomCommand) Kind() CommandKind { return KindJoinRoom }

type LeaveRoomCommand struct {
	Connection ConnectionID `validate:"required"`
}

func (LeaveRoomCommand) Kind() CommandKind { return KindLeaveRoom }

// PostMessageCommand carries a chat line. Content may be empty, it is relayed as is.
type PostMessageCommand struct {
	Room     RoomKey `validate:"required"`
	Username string  `validate:"required,max=64"`
	Content  string
}

func (PostMessageCommand) Kind() CommandKind { return KindPostMessage }

// SignalCommand carries an opaque negotiation payload to one target connection.
// Only Target is ever read out of the payload.
type SignalCommand struct {
	Signal  CommandKind     `validate:"required,oneof=offer answer ice-candidate"`
	From    ConnectionID    `validate:"required"`
	Target  ConnectionID    `validate:"required"`
	Payload json.RawMessage `validate:"required"`
}

func (c SignalCommand) Kind() CommandKind { return c.Signal }

type DeleteRoomCommand struct {
	Room RoomKey `validate:"required"`
}

func (DeleteRoomCommand) Kind() CommandKind { return KindDeleteRoom }

type GetOnlineUsersCommand struct {
	Connection ConnectionID `validate:"required"`
	Room       RoomKey      `validate:"required"`
}

func (GetOnlineUsersCommand) Kind() CommandKind { return KindGetOnlineUsers }

type DisconnectCommand struct {
	Connection ConnectionID `validate:"required"`
}

func (DisconnectCommand) Kind() CommandKind { return KindDisconnect }

// RegisterRoomCommand makes a room created by the room creation flow joinable.
type RegisterRoomCommand struct {
	Room Room
}

func (RegisterRoomCommand) Kind() CommandKind { return KindRegisterRoom }

type signalTarget struct {
	Target ConnectionID `json:"target"`
}

// NewSignalCommand reads the target out of an otherwise opaque payload.
// A payload that is not a JSON object yields an empty target.
func NewSignalCommand(kind CommandKind, from ConnectionID, payload json.RawMessage) SignalCommand {
	var t signalTarget
	_ = json.Unmarshal(payload, &t)
	return SignalCommand{Signal: kind, From: from, Target: t.Target, Payload: payload}
}
