package conf

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// ValidatorFunc validates a fully loaded registry at the end of Build.
type ValidatorFunc func(c *Conf) error

// Builder assembles a registry declaratively: groups first, then loads in
// the order the With* calls were made, command-line flags last.
//
//	cfg, err := conf.NewBuilder().
//	    WithGroup("server", map[string]any{"host": "localhost", "port": 8080}).
//	    WithOptionalFile("team.toml").
//	    WithOptionalFile("personal.toml").
//	    WithEnv("MYAPP").
//	    WithArgs(os.Args[1:]).
//	    Build()
type Builder struct {
	opts       Options
	declare    []func(*Conf) error
	loads      []func(*Conf) error
	args       []string
	hasArgs    bool
	validators []ValidatorFunc
}

// NewBuilder creates an empty configuration builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger sets the registry logger.
func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.opts.Logger = &log
	return b
}

// WithDiscovery sets the module search configuration.
func (b *Builder) WithDiscovery(d Discovery) *Builder {
	b.opts.Discovery = d
	return b
}

// WithGroup declares a group with its defaults.
func (b *Builder) WithGroup(name string, defaults map[string]any) *Builder {
	b.declare = append(b.declare, func(c *Conf) error {
		_, err := c.DeclareGroup(name, defaults)
		return err
	})
	return b
}

// WithGroupFunc declares a group through a declaration callback.
func (b *Builder) WithGroupFunc(name string, fn func(*GroupBuilder)) *Builder {
	b.declare = append(b.declare, func(c *Conf) error {
		_, err := c.DeclareGroupFunc(name, fn)
		return err
	})
	return b
}

// WithFile schedules a config file load. The file must exist at Build time.
func (b *Builder) WithFile(path string) *Builder {
	b.loads = append(b.loads, func(c *Conf) error {
		return c.LoadFile(path)
	})
	return b
}

// WithOptionalFile schedules a config file load that is skipped when the
// file does not exist.
func (b *Builder) WithOptionalFile(path string) *Builder {
	b.loads = append(b.loads, func(c *Conf) error {
		err := c.LoadFile(path)
		if errors.Is(err, ErrConfigNotFound) {
			return nil
		}
		return err
	})
	return b
}

// WithModule schedules a named module load.
func (b *Builder) WithModule(name string) *Builder {
	b.loads = append(b.loads, func(c *Conf) error {
		return c.LoadModule(name)
	})
	return b
}

// WithOptionalModule schedules a named module load that is skipped when the
// name does not resolve.
func (b *Builder) WithOptionalModule(name string) *Builder {
	b.loads = append(b.loads, func(c *Conf) error {
		err := c.LoadModule(name)
		if errors.Is(err, ErrModuleNotFound) {
			return nil
		}
		return err
	})
	return b
}

// WithEnv schedules an environment-variable load with the given prefix.
func (b *Builder) WithEnv(prefix string) *Builder {
	b.loads = append(b.loads, func(c *Conf) error {
		return c.LoadEnv(prefix)
	})
	return b
}

// WithArgs supplies command-line arguments; registry flags are bound,
// parsed, and applied as the final load step.
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	b.hasArgs = true
	return b
}

// WithValidator adds a validation function run after all loads. Validators
// run in the order they were added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build declares, loads, and validates the registry.
func (b *Builder) Build() (*Conf, error) {
	c := NewWithOptions(b.opts)

	for _, declare := range b.declare {
		if err := declare(c); err != nil {
			return nil, err
		}
	}

	for _, load := range b.loads {
		if err := load(c); err != nil {
			return nil, err
		}
	}

	if b.hasArgs {
		fs := pflag.NewFlagSet("conf", pflag.ContinueOnError)
		c.BindFlags(fs)
		if err := fs.Parse(b.args); err != nil {
			return nil, fmt.Errorf("failed to parse command-line arguments: %w", err)
		}
		if err := c.ApplyFlags(fs); err != nil {
			return nil, err
		}
	}

	for _, validate := range b.validators {
		if err := validate(c); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return c, nil
}

// MustBuild is Build for startup paths where a failure is fatal.
func (b *Builder) MustBuild() *Conf {
	c, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("conf: build failed: %v", err))
	}
	return c
}
