package runtime

import (
	"fmt"
	"room-relay/domain"
	"room-relay/domain/event"
	"room-relay/errors"
)

// Forward hands a negotiation payload, untouched, to the target connection.
// Room membership plays no part.
func (s *State) Forward(cmd domain.SignalCommand) ([]Delivery, error) {
	if _, ok := s.registry.Sink(cmd.Target); !ok {
		return nil, fmt.Errorf("%w: %s from %s", errors.ErrTargetUnreachable, cmd.Target, cmd.From)
	}
	signal := event.Signal{Signal: cmd.Signal, From: cmd.From, Payload: cmd.Payload}
	return []Delivery{unicast(cmd.Target, signal)}, nil
}
