package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Discovery controls where LoadModule resolves dotted module names.
type Discovery struct {
	// Paths are searched first, in order.
	Paths []string

	// Extensions to try for each candidate, in order.
	// Defaults to ".toml", ".yaml", ".yml", ".json".
	Extensions []string

	// UseCurrentDir includes the working directory in the search.
	UseCurrentDir bool

	// UseXDG includes the XDG config directories in the search.
	UseXDG bool
}

// DefaultDiscovery searches the working directory and the XDG config
// directories for TOML, YAML, and JSON files.
func DefaultDiscovery() Discovery {
	return Discovery{
		Extensions:    []string{".toml", ".yaml", ".yml", ".json"},
		UseCurrentDir: true,
		UseXDG:        true,
	}
}

func (d Discovery) isZero() bool {
	return d.Paths == nil && d.Extensions == nil && !d.UseCurrentDir && !d.UseXDG
}

// LoadModule resolves a dotted module name against the discovery search
// path and loads the first matching file. The name maps to a relative path,
// so "myapp.prod" resolves to myapp/prod.toml (or another known extension)
// under each search directory.
//
// An unresolvable name fails with ErrModuleNotFound, kept distinct from
// ErrConfigNotFound so callers can implement "optional named config"
// patterns without masking real load failures.
func (c *Conf) LoadModule(name string) error {
	segments := strings.Split(name, ".")
	for _, seg := range segments {
		if !isValidIdent(seg) {
			return fmt.Errorf("%w: module name %q is not a dotted identifier", ErrInvalidName, name)
		}
	}
	rel := filepath.Join(segments...)

	exts := c.discovery.Extensions
	if len(exts) == 0 {
		exts = DefaultDiscovery().Extensions
	}

	for _, dir := range c.searchDirs() {
		for _, ext := range exts {
			path := filepath.Join(dir, rel+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				c.log.Debug().Str("module", name).Str("path", path).Msg("resolved configuration module")
				err := c.LoadFile(path)
				if errors.Is(err, ErrConfigNotFound) {
					// Raced with a concurrent delete; keep searching.
					continue
				}
				return err
			}
		}
	}

	return fmt.Errorf("%w: '%s'", ErrModuleNotFound, name)
}

func (c *Conf) searchDirs() []string {
	var dirs []string
	dirs = append(dirs, c.discovery.Paths...)

	if c.discovery.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			dirs = append(dirs, cwd)
		}
	}

	if c.discovery.UseXDG {
		dirs = append(dirs, xdgConfigDirs()...)
	}

	return dirs
}

// xdgConfigDirs returns the XDG base directory search list.
func xdgConfigDirs() []string {
	var dirs []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		dirs = append(dirs, xdgHome)
	} else if home := os.Getenv("HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, ".config"))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		dirs = append(dirs, filepath.SplitList(xdgDirs)...)
	} else {
		dirs = append(dirs, "/etc/xdg", "/etc")
	}

	return dirs
}
