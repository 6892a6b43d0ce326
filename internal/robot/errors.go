package robot

import "errors"

// Domain errors for the robot package.
var (
	// ErrUnknownOperation is returned when an operation name is not in the catalog.
	ErrUnknownOperation = errors.New("robot: unknown operation")

	// ErrInvalidParameters is returned when operation parameters cannot be
	// decoded or are out of range.
	ErrInvalidParameters = errors.New("robot: invalid parameters")

	// ErrNoTransport is returned when sending without a configured transport.
	ErrNoTransport = errors.New("robot: no transport configured")
)
