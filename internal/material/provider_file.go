package material

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// JSONProvider reads and writes the mat_lib.json layout:
// {"material": {"condition": [a, b, c, d] | []}}
type JSONProvider struct {
	path string
}

// NewJSONProvider creates a provider for the JSON library at path
func NewJSONProvider(path string) *JSONProvider {
	return &JSONProvider{path: path}
}

// Load reads the library file
func (p *JSONProvider) Load() (*Library, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read material library: %w", err)
	}
	var m map[string]Conditions
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse material library %s: %w", p.path, err)
	}
	return FromMap(m), nil
}

// Save writes the library with sorted keys and four-space indentation
func (p *JSONProvider) Save(lib *Library) error {
	data, err := json.MarshalIndent(lib.Map(), "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode material library: %w", err)
	}
	return writeFileAtomic(p.path, append(data, '\n'))
}

// Close is a no-op for file providers
func (p *JSONProvider) Close() error {
	return nil
}

// YAMLProvider reads and writes the library as YAML with the same layout
// as the JSON file
type YAMLProvider struct {
	path string
}

// NewYAMLProvider creates a provider for the YAML library at path
func NewYAMLProvider(path string) *YAMLProvider {
	return &YAMLProvider{path: path}
}

// Load reads the library file
func (p *YAMLProvider) Load() (*Library, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read material library: %w", err)
	}
	var m map[string]Conditions
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse material library %s: %w", p.path, err)
	}
	return FromMap(m), nil
}

// Save writes the library file
func (p *YAMLProvider) Save(lib *Library) error {
	data, err := yaml.Marshal(lib.Map())
	if err != nil {
		return fmt.Errorf("failed to encode material library: %w", err)
	}
	return writeFileAtomic(p.path, data)
}

// Close is a no-op for file providers
func (p *YAMLProvider) Close() error {
	return nil
}

// writeFileAtomic replaces path through a temporary file so a watcher never
// sees a half-written library
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
