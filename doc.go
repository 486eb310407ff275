// Package conf provides a declared-group configuration registry for Go
// applications: namespaced, typed settings declared up front with defaults,
// populated from files, environment variables, and command-line flags, and
// frozen against any other mutation.
//
// Features:
//   - Group/property declaration with defaults and inferred type parsers
//   - Frozen-by-default values; accidental runtime mutation is an error
//   - Scoped mutable overrides (MutateLocally) with automatic rollback
//   - File, named-module, environment-variable, and CLI-flag loaders with
//     last-write-wins merge semantics
//   - Values loaded before declaration are buffered and applied once the
//     target property is declared
//   - Struct decoding of a group via mapstructure (Scan)
//   - cobra/pflag integration: one --<group>-<prop> flag per property
//
// Quick start:
//
//	c := conf.New()
//	c.DeclareGroup("cache", map[string]any{
//	    "backend":     "memory",
//	    "expire_time": 60,
//	})
//
//	c.LoadFile("team.toml")     // shared settings
//	c.LoadFile("personal.toml") // personal overrides, last write wins
//	c.LoadEnv("MYAPP")          // MYAPP__cache__expire_time=120
//
//	expire := c.MustGet("cache", "expire_time").(int)
//
// After loading, values are read-only:
//
//	err := c.Set("cache", "backend", "redis") // ErrFrozenProp
//
// except inside a scoped override, which always rolls back:
//
//	c.MutateLocally(func() {
//	    c.Set("cache", "backend", "redis")
//	    // ... test or REPL experiment ...
//	})
//	// backend is "memory" again
//
// Declaration and loading are expected to happen during single-threaded
// startup. Reads afterwards are safe from any goroutine; a sync.RWMutex
// guards all state, and MutateLocally snapshot/restore runs under it.
package conf
