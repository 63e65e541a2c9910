package material

import (
	"errors"
	"fmt"
)

// ErrMaterialLookup matches NotFoundError and NoDataError
var ErrMaterialLookup = errors.New("material lookup failed")

// ErrExists is returned when adding a material that is already in the library
var ErrExists = errors.New("material already exists")

// NotFoundError reports a material or condition that is not in the library.
// Condition is empty when the material itself is missing.
type NotFoundError struct {
	Material  string
	Condition string
}

func (e *NotFoundError) Error() string {
	if e.Condition == "" {
		return fmt.Sprintf("material %q not found", e.Material)
	}
	return fmt.Sprintf("condition %q not found for material %q", e.Condition, e.Material)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrMaterialLookup
}

// NoDataError reports a library entry that exists but carries no coefficients
type NoDataError struct {
	Material  string
	Condition string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no S-N data available for %q / %q", e.Material, e.Condition)
}

func (e *NoDataError) Is(target error) bool {
	return target == ErrMaterialLookup
}
