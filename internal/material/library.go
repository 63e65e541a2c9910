// Package material holds the S-N coefficient library: a two-level
// material -> condition table with file, SQLite and PostgreSQL backends.
package material

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/chrissnell/flightloads/internal/fatigue"
)

// NoDataCondition is the placeholder condition used for materials that are
// listed without any test data
const NoDataCondition = "No data available"

// Entry is the coefficient set of one material condition. A placeholder entry
// (Available false) is stored as an empty list in JSON and YAML.
type Entry struct {
	Coefficients fatigue.MaterialCoefficients
	Available    bool
}

// NewEntry returns an available entry from a, b, c and d
func NewEntry(a, b, c, d float64) Entry {
	return Entry{Coefficients: fatigue.MaterialCoefficients{A: a, B: b, C: c, D: d}, Available: true}
}

func (e Entry) values() []float64 {
	if !e.Available {
		return []float64{}
	}
	k := e.Coefficients
	return []float64{k.A, k.B, k.C, k.D}
}

func (e *Entry) setValues(v []float64) error {
	switch len(v) {
	case 0:
		*e = Entry{}
	case 4:
		*e = NewEntry(v[0], v[1], v[2], v[3])
	default:
		return fmt.Errorf("expected 4 coefficients or none, got %d", len(v))
	}
	return nil
}

// MarshalJSON writes the entry as [a, b, c, d] or []
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.values())
}

// UnmarshalJSON reads [a, b, c, d] or []
func (e *Entry) UnmarshalJSON(b []byte) error {
	var v []float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return e.setValues(v)
}

// MarshalYAML writes the entry as a flow sequence
func (e Entry) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range e.values() {
		var n yaml.Node
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &n)
	}
	return node, nil
}

// UnmarshalYAML reads [a, b, c, d] or []
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	var v []float64
	if err := value.Decode(&v); err != nil {
		return err
	}
	return e.setValues(v)
}

// Conditions maps a condition name (notch factor, form, direction) to its entry
type Conditions map[string]Entry

// Library is the material table. A Library handed to a Store must not be
// modified afterwards; use Clone to derive a new one.
type Library struct {
	materials map[string]Conditions
}

// NewLibrary returns an empty library
func NewLibrary() *Library {
	return &Library{materials: make(map[string]Conditions)}
}

// FromMap builds a library from a decoded material table
func FromMap(m map[string]Conditions) *Library {
	l := NewLibrary()
	for name, conds := range m {
		l.materials[name] = copyConditions(conds)
	}
	return l
}

// Map returns a copy of the table, suitable for encoding
func (l *Library) Map() map[string]Conditions {
	out := make(map[string]Conditions, len(l.materials))
	for name, conds := range l.materials {
		out[name] = copyConditions(conds)
	}
	return out
}

// Clone returns a deep copy of l
func (l *Library) Clone() *Library {
	return FromMap(l.materials)
}

func copyConditions(c Conditions) Conditions {
	out := make(Conditions, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Lookup returns the coefficients of a material condition
func (l *Library) Lookup(material, condition string) (fatigue.MaterialCoefficients, error) {
	conds, ok := l.materials[material]
	if !ok {
		return fatigue.MaterialCoefficients{}, &NotFoundError{Material: material}
	}
	entry, ok := conds[condition]
	if !ok {
		return fatigue.MaterialCoefficients{}, &NotFoundError{Material: material, Condition: condition}
	}
	if !entry.Available {
		return fatigue.MaterialCoefficients{}, &NoDataError{Material: material, Condition: condition}
	}
	return entry.Coefficients, nil
}

// Materials returns the sorted material names
func (l *Library) Materials() []string {
	names := make([]string, 0, len(l.materials))
	for name := range l.materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Conditions returns the sorted condition names of a material
func (l *Library) Conditions(material string) ([]string, error) {
	conds, ok := l.materials[material]
	if !ok {
		return nil, &NotFoundError{Material: material}
	}
	names := make([]string, 0, len(conds))
	for name := range conds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Entry returns the raw entry of a material condition, placeholder or not
func (l *Library) Entry(material, condition string) (Entry, bool) {
	e, ok := l.materials[material][condition]
	return e, ok
}

// Len returns the number of materials
func (l *Library) Len() int {
	return len(l.materials)
}

// Add inserts a new material. An existing material is never overwritten.
func (l *Library) Add(material string, conditions Conditions) error {
	if _, ok := l.materials[material]; ok {
		return fmt.Errorf("%q: %w", material, ErrExists)
	}
	if len(conditions) == 0 {
		conditions = Conditions{NoDataCondition: {}}
	}
	l.materials[material] = copyConditions(conditions)
	return nil
}

// Delete removes a material and all of its conditions
func (l *Library) Delete(material string) error {
	if _, ok := l.materials[material]; !ok {
		return &NotFoundError{Material: material}
	}
	delete(l.materials, material)
	return nil
}
