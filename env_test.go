package conf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confreg/conf"
)

func TestLoadEnv(t *testing.T) {
	t.Run("ParsesIntoDeclaredType", func(t *testing.T) {
		t.Setenv("APP__db__port", "5432")
		t.Setenv("APP__db__host", "env-host")
		t.Setenv("APP__db__debug", "true")

		c := conf.New()
		_, err := c.DeclareGroup("db", map[string]any{
			"host":  "localhost",
			"port":  1234,
			"debug": false,
		})
		require.NoError(t, err)

		require.NoError(t, c.LoadEnv("APP"))

		assert.Equal(t, 5432, c.MustGet("db", "port"))
		assert.Equal(t, "env-host", c.MustGet("db", "host"))
		assert.Equal(t, true, c.MustGet("db", "debug"))
	})

	t.Run("UnderscoresInPropertyNames", func(t *testing.T) {
		t.Setenv("proj_X__cache__expire_time", "120")

		c := conf.New()
		_, err := c.DeclareGroup("cache", map[string]any{"expire_time": 60})
		require.NoError(t, err)

		require.NoError(t, c.LoadEnv("proj_X"))
		assert.Equal(t, 120, c.MustGet("cache", "expire_time"))
	})

	t.Run("StructuredValues", func(t *testing.T) {
		t.Setenv("APP__limits__weights", "[1, 2, 3]")
		t.Setenv("APP__limits__quota", `{"daily": 100}`)
		t.Setenv("APP__limits__shards", "[4, 5]")

		c := conf.New()
		_, err := c.DeclareGroup("limits", map[string]any{
			"weights": []any{},
			"quota":   map[string]any{},
			"shards":  []int{1},
		})
		require.NoError(t, err)

		require.NoError(t, c.LoadEnv("APP"))

		assert.Equal(t, []any{int64(1), int64(2), int64(3)}, c.MustGet("limits", "weights"))
		assert.Equal(t, map[string]any{"daily": int64(100)}, c.MustGet("limits", "quota"))
		assert.Equal(t, []int{4, 5}, c.MustGet("limits", "shards"))
	})

	t.Run("UndeclaredNamesIgnored", func(t *testing.T) {
		t.Setenv("APP__db__nope", "1")
		t.Setenv("APP__ghost__x", "1")
		t.Setenv("APP__malformed", "1")

		c := conf.New()
		_, err := c.DeclareGroup("db", map[string]any{"port": 1234})
		require.NoError(t, err)

		require.NoError(t, c.LoadEnv("APP"))
		assert.Equal(t, 1234, c.MustGet("db", "port"))
	})

	t.Run("CaseSensitiveMatch", func(t *testing.T) {
		t.Setenv("APP__DB__port", "5432")
		t.Setenv("app__db__port", "5432")

		c := conf.New()
		_, err := c.DeclareGroup("db", map[string]any{"port": 1234})
		require.NoError(t, err)

		require.NoError(t, c.LoadEnv("APP"))
		assert.Equal(t, 1234, c.MustGet("db", "port"))
	})

	t.Run("ParseFailurePropagatesAndAppliesNothing", func(t *testing.T) {
		t.Setenv("APP__db__host", "fine")
		t.Setenv("APP__db__port", "not-a-number")

		c := conf.New()
		_, err := c.DeclareGroup("db", map[string]any{"host": "localhost", "port": 1234})
		require.NoError(t, err)

		err = c.LoadEnv("APP")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "APP__db__port")

		assert.Equal(t, 1234, c.MustGet("db", "port"))
		assert.Equal(t, "localhost", c.MustGet("db", "host"))
	})

	t.Run("EmptyPrefixRejected", func(t *testing.T) {
		c := conf.New()
		assert.ErrorIs(t, c.LoadEnv(""), conf.ErrInvalidName)
	})

	t.Run("OverridesEarlierFileLoad", func(t *testing.T) {
		t.Setenv("APP__server__host", "from-env")

		c := conf.New()
		_, err := c.DeclareGroup("server", map[string]any{"host": "localhost"})
		require.NoError(t, err)

		path := writeFile(t, t.TempDir(), "conf.toml", "[server]\nhost = \"from-file\"\n")
		require.NoError(t, c.LoadFile(path))
		require.NoError(t, c.LoadEnv("APP"))

		assert.Equal(t, "from-env", c.MustGet("server", "host"))
	})
}
