package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Open picks a provider for path by its extension. .db, .sqlite and .sqlite3
// files are SQLite databases, everything else is read as YAML.
func Open(path string) (ConfigProvider, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteProvider(path)
	case ".yaml", ".yml", "":
		return NewYAMLProvider(path), nil
	default:
		return nil, fmt.Errorf("unrecognised config file type %q", filepath.Ext(path))
	}
}

// Load opens path, reads the configuration and validates it
func Load(path string) (*ConfigData, error) {
	p, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	c, err := p.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return c, nil
}
