package fatigue

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSignal matches any MalformedSignalError
	ErrMalformedSignal = errors.New("malformed signal")
	// ErrConfiguration matches any ConfigurationError
	ErrConfiguration = errors.New("invalid configuration")
	// ErrDomain matches any DomainError
	ErrDomain = errors.New("damage domain error")
)

// MalformedSignalError is returned before any processing when the input
// signal is too short or holds non-finite values.
type MalformedSignalError struct {
	Reason string
	Index  int
}

func (e *MalformedSignalError) Error() string {
	return fmt.Sprintf("malformed signal: %s (sample %d)", e.Reason, e.Index)
}

func (e *MalformedSignalError) Is(target error) bool {
	return target == ErrMalformedSignal
}

// ConfigurationError reports an invalid analysis parameter
type ConfigurationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%g %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// DomainError marks a mean-range cell whose cycles-to-failure cannot be
// evaluated (logarithm of a non-positive argument or a non-finite result).
type DomainError struct {
	Row, Col int // range bin, mean bin
	Mean     float64
	Range    float64
	Argument float64 // value passed to the logarithm
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("cycles-to-failure undefined for mean=%g range=%g (log argument %g)", e.Mean, e.Range, e.Argument)
}

func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}
