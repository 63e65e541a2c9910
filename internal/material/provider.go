package material

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Provider loads a material library from a backing store
type Provider interface {
	Load() (*Library, error)
	Close() error
}

// Saver is implemented by providers that can persist a library
type Saver interface {
	Save(*Library) error
}

// Open returns the provider for backend ("json", "yaml", "sqlite",
// "postgres" or "builtin"). An empty backend is inferred from the file
// extension of dsn.
func Open(backend, dsn string) (Provider, error) {
	if backend == "" {
		backend = backendFromPath(dsn)
	}

	switch backend {
	case "builtin":
		return builtinProvider{}, nil
	case "json":
		return NewJSONProvider(dsn), nil
	case "yaml":
		return NewYAMLProvider(dsn), nil
	case "sqlite":
		return NewSQLiteProvider(dsn)
	case "postgres":
		return NewPostgresProvider(dsn)
	}
	return nil, fmt.Errorf("unknown material library backend %q", backend)
}

func backendFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case "":
		if path == "" {
			return "builtin"
		}
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	}
	if strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://") {
		return "postgres"
	}
	return "json"
}

// builtinProvider serves Default()
type builtinProvider struct{}

func (builtinProvider) Load() (*Library, error) { return Default(), nil }
func (builtinProvider) Close() error            { return nil }
