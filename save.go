package conf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Save writes every declared group's current values to a TOML file using an
// atomic temp-file-and-rename write. The output is itself a valid LoadFile
// source, so a saved configuration round-trips.
func (c *Conf) Save(path string) error {
	c.mu.RLock()
	nested := make(map[string]any, len(c.groups))
	for name, g := range c.groups {
		table := make(map[string]any, len(g.props))
		for propName, p := range g.props {
			table[propName] = p.currentValue
		}
		nested[name] = table
	}
	c.mu.RUnlock()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(nested); err != nil {
		return fmt.Errorf("failed to marshal configuration to TOML: %w", err)
	}

	return atomicWriteFile(path, buf.Bytes())
}

// Describe returns a human-readable dump of every declared property: name,
// description, default, and current value, in declaration order.
func (c *Conf) Describe() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var b strings.Builder
	for _, groupName := range c.order {
		g := c.groups[groupName]
		fmt.Fprintf(&b, "[%s]\n", groupName)
		for _, propName := range g.order {
			p := g.props[propName]
			fmt.Fprintf(&b, "  %s = %v (default %v)", propName, p.currentValue, p.defaultValue)
			if p.description != "" {
				fmt.Fprintf(&b, " — %s", p.description)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// atomicWriteFile writes data to path through a temp file in the same
// directory followed by a rename.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // no-op after a successful rename

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file to '%s': %w", path, err)
	}
	return nil
}
