package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClient(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		conf, err := LoadClient("")
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:8080", conf.ServerAddr)
		assert.Equal(t, 2*time.Second, conf.PollInterval)
		assert.Equal(t, 5*time.Second, conf.RequestTimeout)
		assert.Equal(t, "info", conf.Log.Level)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_ADDR", "http://game.example:9000")
		t.Setenv("POLL_INTERVAL", "500ms")

		conf, err := LoadClient("")
		require.NoError(t, err)

		assert.Equal(t, "http://game.example:9000", conf.ServerAddr)
		assert.Equal(t, 500*time.Millisecond, conf.PollInterval)
	})

	t.Run("YAML file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client.yml")
		require.NoError(t, os.WriteFile(path, []byte("server-addr: http://yaml:1\npoll-interval: 3s\nlog:\n  level: debug\n"), 0o600))

		conf, err := LoadClient(path)
		require.NoError(t, err)

		assert.Equal(t, "http://yaml:1", conf.ServerAddr)
		assert.Equal(t, 3*time.Second, conf.PollInterval)
		assert.Equal(t, "debug", conf.Log.Level)
	})

	t.Run("Rejects a non-positive poll interval", func(t *testing.T) {
		t.Setenv("POLL_INTERVAL", "0s")

		_, err := LoadClient("")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestLoadServer(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		conf, err := LoadServer("")
		require.NoError(t, err)

		assert.Equal(t, ":8080", conf.HTTPAddr)
		assert.Equal(t, "sqlite", conf.Storage.Driver)
		assert.True(t, conf.Bot.Enabled)
		assert.Equal(t, "medium", conf.Bot.Difficulty)
		assert.Equal(t, time.Second, conf.Bot.Delay)
	})

	t.Run("Unknown storage driver", func(t *testing.T) {
		t.Setenv("STORAGE", "etcd")

		_, err := LoadServer("")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
