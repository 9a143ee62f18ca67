package runtime

import (
	"fmt"
	"room-relay/contract"
	"room-relay/domain"
	"room-relay/domain/event"
	"room-relay/errors"

	"github.com/samber/lo"
)

// Connect registers the outbound sink of a new connection and tells it its id.
func (s *State) Connect(id domain.ConnectionID, sink contract.EventSink) []Delivery {
	s.registry.Register(id, sink)
	return []Delivery{unicast(id, event.Connected{ID: id})}
}

// RegisterRoom makes a room created elsewhere joinable.
func (s *State) RegisterRoom(cmd domain.RegisterRoomCommand) []Delivery {
	s.directory.Register(cmd.Room)
	return nil
}

// Join adds the connection to the room and announces it to every member,
// the joiner included. A connection already present in a room leaves it first.
func (s *State) Join(cmd domain.JoinRoomCommand) ([]Delivery, error) {
	if _, ok := s.directory.Lookup(cmd.Room); !ok {
		return []Delivery{unicast(cmd.Connection, event.JoinFailed{Room: cmd.Room})},
			fmt.Errorf("%w: %s", errors.ErrRoomNotFound, cmd.Room)
	}

	deliveries := s.leave(cmd.Connection)

	s.directory.AddParticipant(cmd.Room, cmd.Username)
	s.registry.Subscribe(cmd.Connection, domain.Membership{Username: cmd.Username, Room: cmd.Room})

	joined := event.UserJoined{
		Message:    domain.JoinedText(cmd.Username),
		Room:       cmd.Room,
		Connection: cmd.Connection,
	}
	return append(deliveries,
		s.broadcast(cmd.Room, joined),
		s.broadcast(cmd.Room, s.onlineUsers(cmd.Room)),
	), nil
}

// Leave ends the connection's current membership. The connection stays registered.
func (s *State) Leave(cmd domain.LeaveRoomCommand) []Delivery {
	return s.leave(cmd.Connection)
}

// Disconnect runs the leave path and forgets the connection. Calling it for a
// connection without state is a no-op.
func (s *State) Disconnect(cmd domain.DisconnectCommand) []Delivery {
	deliveries := s.leave(cmd.Connection)
	s.registry.Unregister(cmd.Connection)
	return deliveries
}

// leave notifies the remaining members only. Nothing is emitted when the room
// is already gone.
func (s *State) leave(id domain.ConnectionID) []Delivery {
	m, ok := s.registry.Unsubscribe(id)
	if !ok {
		return nil
	}
	if !s.directory.RemoveParticipant(m.Room, m.Username) {
		return nil
	}
	left := event.UserLeft{
		Message:    domain.LeftText(m.Username),
		Room:       m.Room,
		Connection: id,
	}
	return []Delivery{
		s.broadcast(m.Room, left),
		s.broadcast(m.Room, s.onlineUsers(m.Room)),
	}
}

// DeleteRoom announces every listed participant as gone to the whole group,
// then clears each member's association and removes the room.
func (s *State) DeleteRoom(cmd domain.DeleteRoomCommand) []Delivery {
	if _, ok := s.directory.Lookup(cmd.Room); !ok {
		return nil
	}
	members := s.registry.Members(cmd.Room)
	deliveries := lo.Map(s.directory.Participants(cmd.Room), func(name string, _ int) Delivery {
		return Delivery{To: members, Event: event.UserLeft{Message: domain.LeftText(name), Room: cmd.Room}}
	})
	for _, id := range members {
		s.registry.Unsubscribe(id)
	}
	s.directory.Delete(cmd.Room)
	return deliveries
}

// RoomName answers a lookup with the room name, or a nil name for an unknown key.
func (s *State) RoomName(cmd domain.GetRoomNameCommand) []Delivery {
	reply := event.RoomName{RequestID: cmd.RequestID}
	if room, ok := s.directory.Lookup(cmd.Room); ok {
		reply.Name = lo.ToPtr(room.Name)
	}
	return []Delivery{unicast(cmd.Connection, reply)}
}

func (s *State) OnlineUsers(cmd domain.GetOnlineUsersCommand) []Delivery {
	return []Delivery{unicast(cmd.Connection, s.onlineUsers(cmd.Room))}
}
