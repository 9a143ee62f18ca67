package internal

import (
	"os"
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("BADGER_FILEPATH", t.TempDir())
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CENSORED_WORDS", " badger, ,snake ")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	req.Equal("localhost:8080", config.Address())
	req.Equal(24*time.Hour, config.AuthTokenDuration)
	req.False(config.RequireAuth)
	req.Equal(int64(65536), config.MaxMessageSize)
	req.Equal([]string{"badger", "snake"}, config.Words())
}

func TestConfig_Required(t *testing.T) {
	// Setenv restores the variables once the test is over
	t.Setenv("BADGER_FILEPATH", "")
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("BADGER_FILEPATH"))
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)

	require.Error(t, err)
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("#")
	req.NoError(err)
	req.Equal('#', r)

	_, err = CharacterRune("**")
	req.Error(err)
	_, err = CharacterRune("")
	req.Error(err)
}
