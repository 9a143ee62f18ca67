// Package domain contains core concepts of the relay.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// ConnectionID identifies one physical transport connection.
type ConnectionID string

// Membership associates a connection with the display name it joined under
// and the room it is present in. A connection holds at most one.
type Membership struct {
	Username string
	Room     RoomKey
}
