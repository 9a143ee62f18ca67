package runtime

import (
	"room-relay/domain"

	"github.com/samber/lo"
)

type directoryEntry struct {
	room         domain.Room
	participants []string
}

// Directory maps room keys to room metadata and the ordered list of present
// participant names. It is owned by the Engine goroutine and is not safe for
// concurrent use.
type Directory struct {
	rooms map[domain.RoomKey]*directoryEntry
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[domain.RoomKey]*directoryEntry)}
}

// Register makes a room joinable. An already registered key keeps its
// current presence and metadata.
func (d *Directory) Register(room domain.Room) bool {
	if _, ok := d.rooms[room.Key]; ok {
		return false
	}
	d.rooms[room.Key] = &directoryEntry{room: room}
	return true
}

func (d *Directory) Lookup(key domain.RoomKey) (domain.Room, bool) {
	entry, ok := d.rooms[key]
	if !ok {
		return domain.Room{}, false
	}
	return entry.room, true
}

// Participants returns a copy of the room's participant list, nil for an unknown key.
func (d *Directory) Participants(key domain.RoomKey) []string {
	entry, ok := d.rooms[key]
	if !ok {
		return nil
	}
	return append(make([]string, 0, len(entry.participants)), entry.participants...)
}

func (d *Directory) AddParticipant(key domain.RoomKey, name string) bool {
	entry, ok := d.rooms[key]
	if !ok {
		return false
	}
	entry.participants = append(entry.participants, name)
	return true
}

// RemoveParticipant removes the first occurrence of name only.
func (d *Directory) RemoveParticipant(key domain.RoomKey, name string) bool {
	entry, ok := d.rooms[key]
	if !ok {
		return false
	}
	idx := lo.IndexOf(entry.participants, name)
	if idx < 0 {
		return false
	}
	entry.participants = append(entry.participants[:idx], entry.participants[idx+1:]...)
	return true
}

func (d *Directory) Delete(key domain.RoomKey) bool {
	if _, ok := d.rooms[key]; !ok {
		return false
	}
	delete(d.rooms, key)
	return true
}

func (d *Directory) Len() int {
	return len(d.rooms)
}
