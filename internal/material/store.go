package material

import (
	"sync/atomic"

	"github.com/chrissnell/flightloads/internal/fatigue"
)

// Store shares one read-only Library between concurrent analyses. Reloads
// swap the whole library, so a lookup always sees a consistent table.
type Store struct {
	lib atomic.Pointer[Library]
}

// NewStore returns a store serving lib
func NewStore(lib *Library) *Store {
	s := &Store{}
	s.Replace(lib)
	return s
}

// Library returns the current library
func (s *Store) Library() *Library {
	return s.lib.Load()
}

// Replace swaps in a new library. A nil library is replaced by an empty one.
func (s *Store) Replace(lib *Library) {
	if lib == nil {
		lib = NewLibrary()
	}
	s.lib.Store(lib)
}

// Lookup resolves a material condition against the current library
func (s *Store) Lookup(material, condition string) (fatigue.MaterialCoefficients, error) {
	return s.Library().Lookup(material, condition)
}
