package runtime

import (
	"context"
	"room-relay/domain"
	"room-relay/domain/event"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	name string
}

func (s Sink) Consume(ctx context.Context, e event.Event) error {
	return nil
}

func TestRegistry_Subscribe_One_Room_One_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connection := domain.ConnectionID(uuid.NewString())
	room := domain.RoomKey("r1")
	sink := Sink{name: "alice"}

	// Given no connection is registered
	req.Empty(registry.sessions)
	req.Empty(registry.groups)

	// When a connection registers and subscribes a room
	registry.Register(connection, sink)
	registry.Subscribe(connection, domain.Membership{Username: "alice", Room: room})

	// Then
	got, ok := registry.Sink(connection)
	req.True(ok)
	req.Equal(sink, got)

	m, ok := registry.Membership(connection)
	req.True(ok)
	req.Equal(domain.Membership{Username: "alice", Room: room}, m)
	req.Equal([]domain.ConnectionID{connection}, registry.Members(room))
}

func TestRegistry_Subscribe_One_Room_Multiple_Participants(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	room := domain.RoomKey("r1")

	// When connections subscribe a room, in any order
	registry.Subscribe("b", domain.Membership{Username: "bob", Room: room})
	registry.Subscribe("a", domain.Membership{Username: "alice", Room: room})

	// Then members come back in a stable order
	req.Equal([]domain.ConnectionID{"a", "b"}, registry.Members(room))
}

func TestRegistry_Unsubscribe_Last_Member_Drops_Group(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	room := domain.RoomKey("r1")

	// Given a connection subscribed to a room
	registry.Register("a", Sink{})
	registry.Subscribe("a", domain.Membership{Username: "alice", Room: room})

	// When it unsubscribes
	m, ok := registry.Unsubscribe("a")

	// Then its membership is returned and cleared
	req.True(ok)
	req.Equal(room, m.Room)
	_, ok = registry.Membership("a")
	req.False(ok)

	// And the group doesn't exist anymore
	req.Empty(registry.groups)
	req.Nil(registry.Members(room))

	// And the sink is still registered
	_, ok = registry.Sink("a")
	req.True(ok)
}

func TestRegistry_Unsubscribe_Without_Membership(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, ok := registry.Unsubscribe("ghost")

	req.False(ok)
}
