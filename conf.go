package conf

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Options configures a Conf instance.
type Options struct {
	// Logger receives debug events for declarations and loads.
	// Nil disables logging.
	Logger *zerolog.Logger

	// Discovery controls where LoadModule searches for named config files.
	Discovery Discovery
}

// Conf is the configuration registry. It owns all declared groups, enforces
// the frozen-by-default invariant, and is fed by the loaders in loader.go,
// env.go, and cli.go.
//
// Declaration and loading are expected to run during single-threaded
// startup; reads afterwards are safe from any goroutine.
type Conf struct {
	mu        sync.RWMutex
	order     []string
	groups    map[string]*Group
	depot     *depot
	unfrozen  int
	log       zerolog.Logger
	discovery Discovery
}

// New creates an empty, frozen registry.
func New() *Conf {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an empty registry with explicit options.
func NewWithOptions(opts Options) *Conf {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	disc := opts.Discovery
	if disc.isZero() {
		disc = DefaultDiscovery()
	}
	return &Conf{
		groups:    make(map[string]*Group),
		depot:     newDepot(),
		log:       log,
		discovery: disc,
	}
}

// DeclareGroup registers a new group with its full property set. Defaults
// may be raw values (parser inferred from their type) or Prop values.
// The property set is sealed on return; redeclaring a group name fails with
// ErrDuplicateGroup and leaves the original group untouched.
func (c *Conf) DeclareGroup(name string, defaults map[string]any) (*Group, error) {
	return c.DeclareGroupFunc(name, func(b *GroupBuilder) {
		for _, prop := range sortedKeys(defaults) {
			b.Set(prop, defaults[prop])
		}
	})
}

// DeclareGroupFunc registers a new group through a declaration callback.
// The builder is live only for the duration of fn; the group seals when fn
// returns.
//
//	c.DeclareGroupFunc("yummy", func(g *conf.GroupBuilder) {
//	    g.Set("kind", "seafood")
//	    g.Set("name", "fish")
//	})
func (c *Conf) DeclareGroupFunc(name string, fn func(*GroupBuilder)) (*Group, error) {
	if !isValidIdent(name) {
		return nil, fmt.Errorf("%w: group name %q is not a valid identifier", ErrInvalidName, name)
	}

	c.mu.Lock()
	_, exists := c.groups[name]
	c.mu.Unlock()
	if exists {
		return nil, fmt.Errorf("%w: '%s'", ErrDuplicateGroup, name)
	}

	b := &GroupBuilder{
		groupName: name,
		props:     make(map[string]*property),
	}
	fn(b)
	b.sealed = true
	if b.err != nil {
		return nil, b.err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.groups[name]; exists {
		return nil, fmt.Errorf("%w: '%s'", ErrDuplicateGroup, name)
	}
	g := &Group{
		conf:  c,
		name:  name,
		order: b.order,
		props: b.props,
	}
	c.groups[name] = g
	c.order = append(c.order, name)
	c.drainDepotLocked(g)

	c.log.Debug().Str("group", name).Int("props", len(g.props)).Msg("declared configuration group")
	return g, nil
}

// Group resolves a declared group by name.
func (c *Conf) Group(name string) (*Group, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.groups[name]
	if !ok {
		return nil, unknownGroupError(name)
	}
	return g, nil
}

// Has reports whether a group is declared.
func (c *Conf) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.groups[name]
	return ok
}

// Groups returns all group names in declaration order.
func (c *Conf) Groups() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Get returns the current value of group.prop.
func (c *Conf) Get(group, prop string) (any, error) {
	g, err := c.Group(group)
	if err != nil {
		return nil, err
	}
	return g.Get(prop)
}

// MustGet is Get for startup paths where a missing group or property is a
// programming error.
func (c *Conf) MustGet(group, prop string) any {
	v, err := c.Get(group, prop)
	if err != nil {
		panic(err)
	}
	return v
}

// Set assigns a new current value to group.prop. It fails with ErrFrozenProp
// outside a MutateLocally scope.
func (c *Conf) Set(group, prop string, value any) error {
	g, err := c.Group(group)
	if err != nil {
		return err
	}
	return g.Set(prop, value)
}

// MutateLocally runs fn with the registry unfrozen and restores every
// current value afterwards, whether fn returns normally or panics. No
// mutation made inside the scope is observable after it ends. Scopes nest;
// each level rewinds to its own entry state.
func (c *Conf) MutateLocally(fn func()) {
	c.mu.Lock()
	snap := make(map[string]map[string]any, len(c.groups))
	for name, g := range c.groups {
		snap[name] = g.snapshot()
	}
	c.unfrozen++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		for name, g := range c.groups {
			if s, ok := snap[name]; ok {
				g.restore(s)
			}
		}
		c.unfrozen--
		c.mu.Unlock()
	}()

	fn()
}

// drainDepotLocked applies buffered shadow-namespace values for a group.
// Values for properties the group never declared are discarded. Caller
// holds the write lock.
func (c *Conf) drainDepotLocked(g *Group) {
	buffered, ok := c.depot.take(g.name)
	if !ok {
		return
	}
	for prop, value := range buffered {
		if g.setLoaded(prop, value) {
			c.log.Debug().Str("group", g.name).Str("prop", prop).Msg("applied buffered configuration value")
		}
	}
}

// applyDepotLocked drains buffered values into every declared group.
// Caller holds the write lock.
func (c *Conf) applyDepotLocked() {
	for _, name := range c.order {
		c.drainDepotLocked(c.groups[name])
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
