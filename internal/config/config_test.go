package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		// Given: a config file that sets nothing
		path := writeConfig(t, "log-level: debug\n")

		// When: loading it
		conf := MustLoad(path)

		// Then: defaults fill the rest
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, 1, conf.Workers)
		assert.Equal(t, MemoMemory, conf.Memo.Backend)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 10*time.Minute, conf.Redis.TTL)
		assert.False(t, conf.Report.NoColor)
	})

	t.Run("File values", func(t *testing.T) {
		path := writeConfig(t, `
workers: 4
memo:
  backend: redis
redis:
  host: cache
  port: "6380"
  ttl: 30s
arena:
  games: 12
report:
  no-color: true
`)

		conf := MustLoad(path)

		assert.Equal(t, 4, conf.Workers)
		assert.Equal(t, MemoRedis, conf.Memo.Backend)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, 30*time.Second, conf.Redis.TTL)
		assert.Equal(t, 12, conf.Arena.Games)
		assert.True(t, conf.Report.NoColor)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "workers: 2\n")
		t.Setenv("SOLVER_WORKERS", "8")

		conf := MustLoad(path)

		assert.Equal(t, 8, conf.Workers)
	})

	t.Run("Panics on unknown backend", func(t *testing.T) {
		path := writeConfig(t, "memo:\n  backend: disk\n")

		assert.Panics(t, func() { MustLoad(path) })
	})

	t.Run("Panics on missing file", func(t *testing.T) {
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yml")) })
	})
}

func TestConfig_Validate(t *testing.T) {
	conf := &Config{Memo: Memo{Backend: MemoMemory}, Arena: Arena{Games: -1}}

	require.ErrorIs(t, conf.Validate(), ErrNegativeGames)
}
