package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad(t *testing.T) {
	t.Run("Defaults fill missing keys", func(t *testing.T) {
		// Given: a config file with only the port and redis host
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("http-port: \"8080\"\nredis:\n  host: redis\n"), 0o600))

		// When: it is loaded
		conf := MustLoad(path)

		// Then: the remaining keys take their defaults
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "redis:6379", conf.Redis.GetRedisAddr())
		assert.Empty(t, conf.BoardPath)
		assert.Equal(t, 120*time.Second, conf.Game.PromptTimeout)
		assert.Equal(t, 1500, conf.Game.InitialCash)
		assert.Equal(t, 400, conf.Game.LandOnStartBonus)
		assert.Equal(t, time.Hour, conf.Feed.TTL)
		assert.Equal(t, 256, conf.Feed.Buffer)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("game:\n  start-pause: 5s\n"), 0o600))
		t.Setenv("GAME_START_PAUSE", "1s")

		conf := MustLoad(path)

		assert.Equal(t, time.Second, conf.Game.StartPause)
	})

	t.Run("Missing file panics", func(t *testing.T) {
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yml")) })
	})
}
