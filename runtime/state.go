package runtime

import (
	"room-relay/domain"
	"room-relay/domain/event"
)

// Censor rewrites chat text before fan-out.
type Censor interface {
	Censor(original string) string
}

// Delivery is one outbound event and the connections it goes to.
// Recipients are resolved when the event is emitted, not when it is sent.
type Delivery struct {
	To    []domain.ConnectionID
	Event event.Event
}

// State is everything the relay knows about rooms and connections.
// Handlers mutate it and return the deliveries that must follow.
type State struct {
	directory *Directory
	registry  *Registry
	censor    Censor
}

func NewState(censor Censor) *State {
	return &State{
		directory: NewDirectory(),
		registry:  NewRegistry(),
		censor:    censor,
	}
}

func unicast(id domain.ConnectionID, e event.Event) Delivery {
	return Delivery{To: []domain.ConnectionID{id}, Event: e}
}

func (s *State) broadcast(key domain.RoomKey, e event.Event) Delivery {
	return Delivery{To: s.registry.Members(key), Event: e}
}

func (s *State) onlineUsers(key domain.RoomKey) event.OnlineUsers {
	return event.OnlineUsers{Room: key, Users: s.directory.Participants(key)}
}
