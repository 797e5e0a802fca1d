package paravision

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound  = errors.New("parameter not found")
	ErrWrongKind = errors.New("parameter has wrong kind")
	ErrEmpty     = errors.New("parameter is empty")
)

// MissingParameterError reports a parameter that is absent from a Table.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %s", e.Name)
}

// Is reports whether target is ErrNotFound.
func (e *MissingParameterError) Is(target error) bool {
	return target == ErrNotFound
}

// KindError reports a parameter whose kind does not support the requested
// conversion.
type KindError struct {
	Name string
	Want string
	Got  Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("parameter %s: expected %s, got %s", e.Name, e.Want, e.Got)
}

// Is reports whether target is ErrWrongKind.
func (e *KindError) Is(target error) bool {
	return target == ErrWrongKind
}
