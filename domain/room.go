// Package domain contains core concepts of the relay.
// This file defines Room entities and room key generation.
package domain

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	roomKeyLength   = 8
	roomKeyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// RoomKey is the opaque, server-generated handle clients present to join a room.
type RoomKey string

// Room is the metadata of a room. Presence is tracked separately by the runtime.
type Room struct {
	Key       RoomKey
	Name      string
	CreatedAt time.Time
}

func NewRoom(key RoomKey, name string, createdAt time.Time) Room {
	return Room{Key: key, Name: name, CreatedAt: createdAt}
}

// NewRoomKey draws a short lowercase alphanumeric key from crypto/rand.
func NewRoomKey() (RoomKey, error) {
	key := make([]byte, roomKeyLength)
	max := big.NewInt(int64(len(roomKeyAlphabet)))
	for i := range key {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		key[i] = roomKeyAlphabet[n.Int64()]
	}
	return RoomKey(key), nil
}
