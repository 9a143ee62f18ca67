package repositories

import (
	"errors"
	relayerrors "room-relay/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Create_And_Get_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t))

	id, err := repository.Create("alice", "hashed")
	req.NoError(err)
	req.NotEmpty(id)

	user, err := repository.Get("alice")
	req.NoError(err)
	req.Equal(id, user.ID)
	req.Equal("alice", user.Username)
	req.Equal("hashed", user.PasswordHash)
	req.False(user.CreatedAt.IsZero())
}

func Test_Create_User_Twice(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t))
	_, err := repository.Create("alice", "hashed")
	req.NoError(err)

	id, err := repository.Create("alice", "other")
	req.True(errors.Is(err, relayerrors.ErrUserAlreadyExists))
	req.Empty(id)
}

func Test_Get_Unknown_User(t *testing.T) {
	repository := NewUserRepository(openDB(t))

	_, err := repository.Get("ghost")

	require.True(t, errors.Is(err, relayerrors.ErrUserNotFound))
}
