package runtime

import (
	"room-relay/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDirectory_Register_And_Lookup(t *testing.T) {
	req := require.New(t)
	directory := NewDirectory()
	room := domain.NewRoom("r1", "Team", time.Now().UTC())

	req.True(directory.Register(room))

	got, ok := directory.Lookup("r1")
	req.True(ok)
	req.Equal(room, got)

	_, ok = directory.Lookup("unknown")
	req.False(ok)
}

func TestDirectory_Register_Twice_Keeps_Presence(t *testing.T) {
	req := require.New(t)
	directory := NewDirectory()
	directory.Register(domain.NewRoom("r1", "Team", time.Now()))
	directory.AddParticipant("r1", "alice")

	// When the same key is registered again
	req.False(directory.Register(domain.NewRoom("r1", "Other", time.Now())))

	// Then the first registration wins
	room, _ := directory.Lookup("r1")
	req.Equal("Team", room.Name)
	req.Equal([]string{"alice"}, directory.Participants("r1"))
}

func TestDirectory_RemoveParticipant_Removes_First_Match_Only(t *testing.T) {
	req := require.New(t)
	directory := NewDirectory()
	directory.Register(domain.NewRoom("r1", "Team", time.Now()))

	// Given duplicated display names
	for _, name := range []string{"alice", "bob", "alice"} {
		req.True(directory.AddParticipant("r1", name))
	}

	// When one alice is removed
	req.True(directory.RemoveParticipant("r1", "alice"))

	// Then only the first occurrence is gone
	req.Equal([]string{"bob", "alice"}, directory.Participants("r1"))
	req.False(directory.RemoveParticipant("r1", "clara"))
}

func TestDirectory_Participants_Is_A_Copy(t *testing.T) {
	req := require.New(t)
	directory := NewDirectory()
	directory.Register(domain.NewRoom("r1", "Team", time.Now()))
	directory.AddParticipant("r1", "alice")

	names := directory.Participants("r1")
	names[0] = "mallory"

	req.Equal([]string{"alice"}, directory.Participants("r1"))
}

func TestDirectory_Unknown_Room(t *testing.T) {
	req := require.New(t)
	directory := NewDirectory()

	req.False(directory.AddParticipant("r1", "alice"))
	req.False(directory.RemoveParticipant("r1", "alice"))
	req.Nil(directory.Participants("r1"))
	req.False(directory.Delete("r1"))
}

func TestDirectory_Delete(t *testing.T) {
	req := require.New(t)
	directory := NewDirectory()
	directory.Register(domain.NewRoom("r1", "Team", time.Now()))

	req.True(directory.Delete("r1"))

	_, ok := directory.Lookup("r1")
	req.False(ok)
	req.Zero(directory.Len())
}
