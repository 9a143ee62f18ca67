package runtime

import (
	"room-relay/domain"
	"room-relay/domain/event"
)

// PostMessage fans a chat message out to the room's broadcast group.
// The room is not looked up: an empty group simply receives nothing.
func (s *State) PostMessage(cmd domain.PostMessageCommand) []Delivery {
	content := cmd.Content
	if s.censor != nil {
		content = s.censor.Censor(content)
	}
	msg := event.MessageSent{
		Message:  content,
		Username: cmd.Username,
		Room:     cmd.Room,
	}
	return []Delivery{s.broadcast(cmd.Room, msg)}
}
