package conf

// depot is the shadow namespace loaders write into. It accepts values for
// any group and property name; entries are copied into the registry only
// when the matching property is declared. Entries whose group is not yet
// declared stay buffered, so a load performed before declaration takes
// effect once the group appears. Entries for properties a declared group
// never listed are discarded when the group drains.
type depot struct {
	groups map[string]map[string]any
}

func newDepot() *depot {
	return &depot{groups: make(map[string]map[string]any)}
}

func (d *depot) set(group, prop string, value any) {
	g, ok := d.groups[group]
	if !ok {
		g = make(map[string]any)
		d.groups[group] = g
	}
	g[prop] = value
}

// take removes and returns all buffered values for a group.
func (d *depot) take(group string) (map[string]any, bool) {
	g, ok := d.groups[group]
	if ok {
		delete(d.groups, group)
	}
	return g, ok
}
