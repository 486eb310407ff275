package conf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a configuration source file and applies its values to the
// registry. The file's two-level structure is the write surface: every
// top-level table is a group and every key inside it a property, e.g. in
// TOML
//
//	[cache]
//	expire_time = 60
//	backend = "redis"
//
// Values are native (no string parsing). Entries naming undeclared
// properties are routed through the shadow namespace: those whose group is
// declared later take effect at declaration, the rest are silently ignored.
// Top-level bindings that are not tables are ignored as well.
//
// Successive loads overwrite value by value, last write wins. A missing
// file fails with ErrConfigNotFound; a parse failure aborts before any
// value reaches the registry.
func (c *Conf) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: '%s'", ErrConfigNotFound, path)
		}
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	parsed, err := parseConfigData(path, data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for group, sub := range parsed {
		table, ok := sub.(map[string]any)
		if !ok {
			continue
		}
		for prop, value := range table {
			c.depot.set(group, prop, value)
		}
	}
	c.applyDepotLocked()

	c.log.Debug().Str("path", path).Msg("loaded configuration file")
	return nil
}

// parseConfigData decodes file contents by format, detected from the
// extension first and the content as a fallback.
func parseConfigData(path string, data []byte) (map[string]any, error) {
	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
		if format == "" {
			return nil, fmt.Errorf("unable to determine config format for file '%s'", path)
		}
	}

	parsed := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config file '%s': %w", path, err)
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber() // preserve number precision
		if err := dec.Decode(&parsed); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file '%s': %w", path, err)
		}
		for k, v := range parsed {
			parsed[k] = normalizeJSON(v)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file '%s': %w", path, err)
		}
	}
	return parsed, nil
}

// detectFileFormat determines format from the file extension.
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing.
func detectFormatFromContent(data []byte) string {
	// JSON is the strictest format, TOML next, YAML accepts nearly anything.
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}
	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}
	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}
	return ""
}
