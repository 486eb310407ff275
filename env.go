package conf

import (
	"fmt"
	"os"
	"strings"
)

// LoadEnv scans the process environment for variables named
//
//	<prefix>__<group>__<prop>
//
// with two literal underscores between segments and case-sensitive group
// and property names. Matching values are coerced with the declared
// property's parser before overwriting the current value, so
// APP__db__port=5432 yields an integer for an integer-defaulted property.
//
// Variables naming an undeclared group or property are ignored; without a
// declaration there is no parser to give the raw string a type. A parse
// failure surfaces the parser's own error and aborts the load before any
// value is applied.
func (c *Conf) LoadEnv(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("%w: environment prefix cannot be empty", ErrInvalidName)
	}
	prefix += "__"

	type update struct {
		group *Group
		prop  string
		value any
	}
	var updates []update

	c.mu.RLock()
	groups := make(map[string]*Group, len(c.groups))
	for name, g := range c.groups {
		groups[name] = g
	}
	c.mu.RUnlock()

	for _, kv := range os.Environ() {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		groupName, propName, ok := strings.Cut(strings.TrimPrefix(name, prefix), "__")
		if !ok {
			continue
		}

		g, declared := groups[groupName]
		if !declared {
			continue
		}
		p, declared := g.props[propName]
		if !declared {
			continue
		}

		value, err := p.parser(raw)
		if err != nil {
			return fmt.Errorf("environment variable %s: %w", name, err)
		}
		updates = append(updates, update{group: g, prop: propName, value: value})
	}

	if len(updates) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range updates {
		u.group.setLoaded(u.prop, u.value)
		c.log.Debug().Str("group", u.group.name).Str("prop", u.prop).Msg("applied environment override")
	}
	return nil
}
