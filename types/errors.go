package types

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrLookup is matched by every LookupError
	ErrLookup = errors.New("value table lookup failed")
	// ErrConfig is matched by every ConfigError
	ErrConfig = errors.New("invalid configuration")
)

// LookupError is returned when a state (or an action under it) was never
// added to the value table. It signals a broken invariant, not a runtime condition
type LookupError struct {
	State  State
	Action Action
}

func (e *LookupError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("state %s not in value table", e.State.Hash())
	}
	return fmt.Sprintf("action %s not in value table for state %s", e.Action, e.State.Hash())
}

func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}

// ConfigError is returned at construction time for invalid parameters
type ConfigError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// CheckProbability returns a ConfigError if v is outside [0, 1]
func CheckProbability(field string, v float64) error {
	if v < 0 || v > 1 || v != v {
		return &ConfigError{Field: field, Value: v, Reason: "must be within [0, 1]"}
	}
	return nil
}
