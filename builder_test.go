package conf_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confreg/conf"
)

func TestBuilder(t *testing.T) {
	t.Run("FullPipeline", func(t *testing.T) {
		t.Setenv("MYAPP__server__host", "from-env")

		path := writeFile(t, t.TempDir(), "conf.toml", "[server]\nhost = \"from-file\"\nport = 9000\n")

		c, err := conf.NewBuilder().
			WithGroup("server", map[string]any{"host": "localhost", "port": 8080}).
			WithFile(path).
			WithEnv("MYAPP").
			WithArgs([]string{"--server-port", "9090"}).
			Build()
		require.NoError(t, err)

		// env overrode the file, the flag overrode both.
		assert.Equal(t, "from-env", c.MustGet("server", "host"))
		assert.Equal(t, 9090, c.MustGet("server", "port"))
	})

	t.Run("LoadsRunInCallOrder", func(t *testing.T) {
		dir := t.TempDir()
		first := writeFile(t, dir, "a.toml", "[g]\nx = \"first\"\n")
		second := writeFile(t, dir, "b.toml", "[g]\nx = \"second\"\n")

		c, err := conf.NewBuilder().
			WithGroup("g", map[string]any{"x": "default"}).
			WithFile(first).
			WithFile(second).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "second", c.MustGet("g", "x"))
	})

	t.Run("OptionalFileSkipsMissing", func(t *testing.T) {
		c, err := conf.NewBuilder().
			WithGroup("g", map[string]any{"x": 1}).
			WithOptionalFile(filepath.Join(t.TempDir(), "absent.toml")).
			Build()
		require.NoError(t, err)
		assert.Equal(t, 1, c.MustGet("g", "x"))
	})

	t.Run("RequiredFileFails", func(t *testing.T) {
		_, err := conf.NewBuilder().
			WithGroup("g", map[string]any{"x": 1}).
			WithFile(filepath.Join(t.TempDir(), "absent.toml")).
			Build()
		assert.ErrorIs(t, err, conf.ErrConfigNotFound)
	})

	t.Run("OptionalModuleSkipsUnresolved", func(t *testing.T) {
		c, err := conf.NewBuilder().
			WithDiscovery(conf.Discovery{Paths: []string{t.TempDir()}}).
			WithGroup("g", map[string]any{"x": 1}).
			WithOptionalModule("myapp.absent").
			Build()
		require.NoError(t, err)
		assert.Equal(t, 1, c.MustGet("g", "x"))
	})

	t.Run("ValidatorsRun", func(t *testing.T) {
		_, err := conf.NewBuilder().
			WithGroup("server", map[string]any{"port": 8080}).
			WithValidator(func(c *conf.Conf) error {
				port, err := c.Int("server", "port")
				if err != nil {
					return err
				}
				if port < 1024 {
					return fmt.Errorf("port %d is privileged", port)
				}
				return nil
			}).
			WithArgs([]string{"--server-port", "80"}).
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "privileged")
	})

	t.Run("DeclarationErrorsSurface", func(t *testing.T) {
		_, err := conf.NewBuilder().
			WithGroup("g", map[string]any{"x": 1}).
			WithGroup("g", map[string]any{"x": 2}).
			Build()
		assert.ErrorIs(t, err, conf.ErrDuplicateGroup)
	})

	t.Run("MustBuildPanicsOnError", func(t *testing.T) {
		assert.Panics(t, func() {
			conf.NewBuilder().
				WithGroup("bad-name", map[string]any{"x": 1}).
				MustBuild()
		})
	})
}
