package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("BADGER_FILEPATH", t.TempDir())

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal("INFO", config.LogLevel)
	req.Equal(256, config.BufferSize)
	req.Equal(3, config.IntakeMaxRetries)
	req.Equal(500*time.Millisecond, config.IntakeRetryInterval)
	req.Equal("+201000000000", config.DefaultIdentity)
}

func TestLoadConfig_Missing_Badger_Path(t *testing.T) {
	req := require.New(t)
	t.Setenv("BADGER_FILEPATH", "")

	_, err := LoadConfig()

	req.Error(err)
}

func TestLoadConfig_Invalid_Values(t *testing.T) {
	req := require.New(t)
	t.Setenv("BADGER_FILEPATH", t.TempDir())
	t.Setenv("BUFFER_SIZE", "0")

	_, err := LoadConfig()

	req.ErrorContains(err, "invalid configuration")
}
