package runtime

import (
	"room-relay/contract"
	"room-relay/domain"
	"slices"

	"github.com/samber/lo"
)

type Set map[domain.ConnectionID]struct{}

// Registry tracks active connections: their sink, their membership and the
// broadcast group of every room with at least one member.
// Like the Directory it is owned by the Engine goroutine.
type Registry struct {
	sessions    map[domain.ConnectionID]contract.EventSink // connection -> Sink
	memberships map[domain.ConnectionID]domain.Membership  // connection -> (username, room)
	groups      map[domain.RoomKey]Set                     // room -> connections
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:    make(map[domain.ConnectionID]contract.EventSink),
		memberships: make(map[domain.ConnectionID]domain.Membership),
		groups:      make(map[domain.RoomKey]Set),
	}
}

func (r *Registry) Register(id domain.ConnectionID, sink contract.EventSink) {
	r.sessions[id] = sink
}

// Unregister forgets the connection's sink. Membership must be cleared first
// with Unsubscribe.
func (r *Registry) Unregister(id domain.ConnectionID) {
	delete(r.sessions, id)
}

func (r *Registry) Sink(id domain.ConnectionID) (contract.EventSink, bool) {
	sink, ok := r.sessions[id]
	return sink, ok
}

func (r *Registry) Membership(id domain.ConnectionID) (domain.Membership, bool) {
	m, ok := r.memberships[id]
	return m, ok
}

// Subscribe records the membership and adds the connection to the room's
// broadcast group. The group is created on the fly.
func (r *Registry) Subscribe(id domain.ConnectionID, m domain.Membership) {
	r.memberships[id] = m
	if _, ok := r.groups[m.Room]; !ok {
		r.groups[m.Room] = make(Set)
	}
	r.groups[m.Room][id] = struct{}{}
}

// Unsubscribe clears the connection's membership and removes it from the
// broadcast group. Empty groups are dropped.
func (r *Registry) Unsubscribe(id domain.ConnectionID) (domain.Membership, bool) {
	m, ok := r.memberships[id]
	if !ok {
		return domain.Membership{}, false
	}
	delete(r.memberships, id)
	if members, ok := r.groups[m.Room]; ok {
		delete(members, id)
		if len(members) == 0 {
			delete(r.groups, m.Room)
		}
	}
	return m, true
}

// Members returns the room's broadcast group in a stable order.
func (r *Registry) Members(key domain.RoomKey) []domain.ConnectionID {
	members, ok := r.groups[key]
	if !ok {
		return nil
	}
	ids := lo.Keys(members)
	slices.Sort(ids)
	return ids
}
