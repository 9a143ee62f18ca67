package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRoomKey(t *testing.T) {
	req := require.New(t)
	seen := make(map[RoomKey]struct{})

	for range 100 {
		key, err := NewRoomKey()
		req.NoError(err)
		req.Len(string(key), roomKeyLength)
		for _, c := range key {
			req.Contains(roomKeyAlphabet, string(c))
		}
		seen[key] = struct{}{}
	}

	// 36^8 keys, collisions across 100 draws would point at a broken source
	req.Len(seen, 100)
}

func TestNewRoom(t *testing.T) {
	now := time.Now()

	room := NewRoom("abcd1234", "General", now)

	require.Equal(t, Room{Key: "abcd1234", Name: "General", CreatedAt: now}, room)
}

func TestPresenceTexts(t *testing.T) {
	req := require.New(t)
	req.Equal("alice has joined the room", JoinedText("alice"))
	req.Equal("alice has left the room", LeftText("alice"))
}
