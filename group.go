package conf

import (
	"fmt"
)

// Group is a named collection of declared properties. Its property set is
// fixed at declaration time; only current values change, and only through
// loaders or inside a MutateLocally scope.
type Group struct {
	conf  *Conf
	name  string
	order []string
	props map[string]*property
}

// Name returns the group's name.
func (g *Group) Name() string { return g.name }

// Props returns the property names in declaration order.
func (g *Group) Props() []string {
	g.conf.mu.RLock()
	defer g.conf.mu.RUnlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Get returns the current value of a property.
func (g *Group) Get(prop string) (any, error) {
	g.conf.mu.RLock()
	defer g.conf.mu.RUnlock()
	p, ok := g.props[prop]
	if !ok {
		return nil, unknownPropError(g.name, prop)
	}
	return p.currentValue, nil
}

// MustGet is Get for startup paths where a missing property is a programming
// error.
func (g *Group) MustGet(prop string) any {
	v, err := g.Get(prop)
	if err != nil {
		panic(err)
	}
	return v
}

// Default returns the declared default of a property, not its current value.
func (g *Group) Default(prop string) (any, error) {
	g.conf.mu.RLock()
	defer g.conf.mu.RUnlock()
	p, ok := g.props[prop]
	if !ok {
		return nil, unknownPropError(g.name, prop)
	}
	return p.defaultValue, nil
}

// Description returns the declared description of a property, which may be
// empty.
func (g *Group) Description(prop string) (string, error) {
	g.conf.mu.RLock()
	defer g.conf.mu.RUnlock()
	p, ok := g.props[prop]
	if !ok {
		return "", unknownPropError(g.name, prop)
	}
	return p.description, nil
}

// Set assigns a new current value. Outside a MutateLocally scope the
// registry is frozen and Set fails with ErrFrozenProp.
func (g *Group) Set(prop string, value any) error {
	g.conf.mu.Lock()
	defer g.conf.mu.Unlock()
	p, ok := g.props[prop]
	if !ok {
		return unknownPropError(g.name, prop)
	}
	if g.conf.unfrozen == 0 {
		return frozenPropError(g.name, prop)
	}
	p.currentValue = value
	return nil
}

// ParseProp runs a property's parser on a raw string without storing the
// result.
func (g *Group) ParseProp(prop, raw string) (any, error) {
	g.conf.mu.RLock()
	p, ok := g.props[prop]
	g.conf.mu.RUnlock()
	if !ok {
		return nil, unknownPropError(g.name, prop)
	}
	return p.parser(raw)
}

// setLoaded is the loader write path: it bypasses the freeze check.
// Caller holds the registry write lock.
func (g *Group) setLoaded(prop string, value any) bool {
	p, ok := g.props[prop]
	if !ok {
		return false
	}
	p.currentValue = value
	return true
}

// snapshot deep-copies every current value. Caller holds the registry lock.
func (g *Group) snapshot() map[string]any {
	snap := make(map[string]any, len(g.props))
	for name, p := range g.props {
		snap[name] = deepCopy(p.currentValue)
	}
	return snap
}

// restore rewinds current values to a snapshot. Caller holds the registry
// write lock.
func (g *Group) restore(snap map[string]any) {
	for name, v := range snap {
		if p, ok := g.props[name]; ok {
			p.currentValue = v
		}
	}
}

// GroupBuilder collects property declarations during DeclareGroupFunc.
// The group seals when the declaration callback returns; a builder that
// escapes its callback rejects further additions.
type GroupBuilder struct {
	groupName string
	order     []string
	props     map[string]*property
	sealed    bool
	err       error
}

// Set declares a property with a default value, which may be a raw value or
// a Prop. The first failed declaration sticks and is returned by
// DeclareGroupFunc; later calls become no-ops.
func (b *GroupBuilder) Set(name string, def any) *GroupBuilder {
	if b.sealed || b.err != nil {
		return b
	}
	if !isValidIdent(name) {
		b.err = fmt.Errorf("%w: property name %q in group '%s' is not a valid identifier", ErrInvalidName, name, b.groupName)
		return b
	}
	p, err := newProperty(b.groupName, name, def)
	if err != nil {
		b.err = err
		return b
	}
	if _, exists := b.props[name]; !exists {
		b.order = append(b.order, name)
	}
	b.props[name] = p
	return b
}

// isValidIdent reports whether s is a valid group or property identifier:
// a letter or underscore followed by letters, digits, or underscores.
// Dashes are excluded; the CLI surface uses them as the group/property
// separator in flag names.
func isValidIdent(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if r == '_' || isLetter {
			continue
		}
		if isDigit && i > 0 {
			continue
		}
		return false
	}
	return true
}
