package conf

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagValue adapts a property's parser to the pflag.Value interface. The
// raw argument is parsed eagerly so bad input fails during flag parsing,
// not at apply time.
type flagValue struct {
	group   *Group
	prop    *property
	defText string
	text    string
	parsed  any
	changed bool
}

func (v *flagValue) Set(s string) error {
	parsed, err := v.prop.parser(s)
	if err != nil {
		return err
	}
	v.text = s
	v.parsed = parsed
	v.changed = true
	return nil
}

func (v *flagValue) String() string {
	if v.changed {
		return v.text
	}
	return v.defText
}

func (v *flagValue) Type() string {
	if v.prop.defaultValue == nil {
		return "value"
	}
	return fmt.Sprintf("%T", v.prop.defaultValue)
}

// BindFlags defines one flag per declared property on fs, named
// --<group>-<prop> with the property's current value as the displayed
// default and its parser as the argument coercion. Call ApplyFlags after
// fs.Parse to copy supplied values into the registry; properties not passed
// on the command line keep their prior value.
func (c *Conf) BindFlags(fs *pflag.FlagSet) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, groupName := range c.order {
		g := c.groups[groupName]
		for _, propName := range g.order {
			p := g.props[propName]
			usage := p.description
			if usage == "" {
				usage = fmt.Sprintf("'%s' property of configuration group '%s'", propName, groupName)
			}
			fs.Var(&flagValue{
				group:   g,
				prop:    p,
				defText: fmt.Sprintf("%v", p.currentValue),
			}, groupName+"-"+propName, usage)
		}
	}
}

// ApplyFlags copies every supplied registry-bound flag value into the
// registry. Flags not defined by BindFlags are left alone, so fs may carry
// application flags of its own.
func (c *Conf) ApplyFlags(fs *pflag.FlagSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fs.Visit(func(f *pflag.Flag) {
		v, ok := f.Value.(*flagValue)
		if !ok || !v.changed {
			return
		}
		v.prop.currentValue = v.parsed
		c.log.Debug().Str("group", v.group.name).Str("prop", v.prop.name).Msg("applied command-line override")
	})
	return nil
}

// BindCommand wires the registry into a cobra command: every declared
// property becomes a --<group>-<prop> flag listed by --help, and supplied
// values are applied before the command body runs.
func (c *Conf) BindCommand(cmd *cobra.Command) {
	c.BindFlags(cmd.Flags())

	prev := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if prev != nil {
			if err := prev(cmd, args); err != nil {
				return err
			}
		}
		return c.ApplyFlags(cmd.Flags())
	}
}
