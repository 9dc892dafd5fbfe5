package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for world and lifecycle operations.
var (
	// ErrNoEntitiesAvailable indicates a removal was requested on an empty world.
	ErrNoEntitiesAvailable = errors.New("dynamo: no entities available")

	// ErrEntityNotFound indicates the requested entity id is not in the world.
	ErrEntityNotFound = errors.New("dynamo: entity not found")

	// ErrInvalidConfiguration indicates a viewport, physics parameter or entity
	// property outside its valid range.
	ErrInvalidConfiguration = errors.New("dynamo: invalid configuration")

	// ErrInvalidImpulse indicates an impulse magnitude that would produce a
	// non-finite velocity.
	ErrInvalidImpulse = errors.New("dynamo: invalid impulse")
)

// EntityError wraps an error with the operation and entity it concerns.
type EntityError struct {
	Op  string
	ID  EntityID
	Err error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s entity %d: %v", e.Op, e.ID, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
