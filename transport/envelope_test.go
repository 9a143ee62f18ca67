package transport

import (
	"encoding/json"
	"errors"
	"room-relay/domain"
	"room-relay/domain/event"
	relayerrors "room-relay/errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		frame    string
		expected domain.Command
	}{
		{
			name:     "get room name",
			frame:    `{"type":"get room name","request_id":"7","payload":{"roomKey":"abc"}}`,
			expected: domain.GetRoomNameCommand{Connection: "A", RequestID: "7", Room: "abc"},
		},
		{
			name:     "join room",
			frame:    `{"type":"join room","payload":{"roomKey":"abc","username":"alice"}}`,
			expected: domain.JoinRoomCommand{Connection: "A", Room: "abc", Username: "alice"},
		},
		{
			name:     "leave room",
			frame:    `{"type":"leave room"}`,
			expected: domain.LeaveRoomCommand{Connection: "A"},
		},
		{
			name:     "message",
			frame:    `{"type":"message","payload":{"room":"abc","message":"hi","username":"alice"}}`,
			expected: domain.PostMessageCommand{Room: "abc", Username: "alice", Content: "hi"},
		},
		{
			name:     "delete room",
			frame:    `{"type":"delete room","payload":{"roomKey":"abc"}}`,
			expected: domain.DeleteRoomCommand{Room: "abc"},
		},
		{
			name:     "get online users",
			frame:    `{"type":"get online users","payload":{"roomKey":"abc"}}`,
			expected: domain.GetOnlineUsersCommand{Connection: "A", Room: "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _, err := Decode("A", []byte(tt.frame))
			require.NoError(t, err)
			require.Equal(t, tt.expected, cmd)
		})
	}
}

func TestDecode_Signal_Keeps_Payload(t *testing.T) {
	req := require.New(t)
	frame := `{"type":"ice-candidate","payload":{"target":"B","candidate":{"sdpMLineIndex":0}}}`

	cmd, _, err := Decode("A", []byte(frame))

	req.NoError(err)
	signal := cmd.(domain.SignalCommand)
	req.Equal(domain.KindICECandidate, signal.Signal)
	req.Equal(domain.ConnectionID("A"), signal.From)
	req.Equal(domain.ConnectionID("B"), signal.Target)
	req.JSONEq(`{"target":"B","candidate":{"sdpMLineIndex":0}}`, string(signal.Payload))
}

func TestDecode_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		frame     string
		sentinel  error
		requestID string
	}{
		{"not json", `{{`, relayerrors.ErrMalformedEvent, ""},
		{"unknown type", `{"type":"dance","request_id":"1"}`, relayerrors.ErrUnknownEvent, "1"},
		{"internal type", `{"type":"disconnect"}`, relayerrors.ErrUnknownEvent, ""},
		{"missing payload", `{"type":"join room","request_id":"2"}`, relayerrors.ErrMalformedEvent, "2"},
		{"wrong payload", `{"type":"message","payload":"hi"}`, relayerrors.ErrMalformedEvent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, env, err := Decode("A", []byte(tt.frame))
			require.Nil(t, cmd)
			require.True(t, errors.Is(err, tt.sentinel), "%v", err)
			require.Equal(t, tt.requestID, env.RequestID)
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		event    event.Event
		expected string
	}{
		{
			name:     "connected",
			event:    event.Connected{ID: "A"},
			expected: `{"type":"connected","payload":{"id":"A"}}`,
		},
		{
			name:     "online users",
			event:    event.OnlineUsers{Room: "abc", Users: []string{"alice", "bob"}},
			expected: `{"type":"online users","payload":["alice","bob"]}`,
		},
		{
			name:     "room name with request id",
			event:    event.RoomName{RequestID: "7", Name: lo.ToPtr("Team")},
			expected: `{"type":"room name","request_id":"7","payload":{"name":"Team"}}`,
		},
		{
			name:     "error",
			event:    event.Failure{RequestID: "2", Reason: "nope"},
			expected: `{"type":"error","request_id":"2","payload":{"error":"nope"}}`,
		},
		{
			name:     "signal carries its origin",
			event:    event.Signal{Signal: domain.KindAnswer, From: "A", Payload: json.RawMessage(`{"target":"B","sdp":"x"}`)},
			expected: `{"type":"answer","from":"A","payload":{"target":"B","sdp":"x"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.event)
			require.NoError(t, err)
			require.JSONEq(t, tt.expected, string(data))
		})
	}
}
