package capability

import "errors"

// Domain errors for the capability package.
//
// Callers check them with errors.Is():
//
//	if errors.Is(err, capability.ErrUnsupportedOperation) {
//	    // robot does not offer this operation
//	}
var (
	// ErrDuplicateRegistration is returned when a (capability, level) pair is
	// registered twice for the same operation. It indicates a defect in the
	// set of implementations and must not be ignored.
	ErrDuplicateRegistration = errors.New("capability: duplicate registration")

	// ErrNilImplementation is returned when registering a nil implementation.
	ErrNilImplementation = errors.New("capability: nil implementation")

	// ErrUnsupportedOperation is returned when invoking a handle whose robot
	// shares no (capability, level) pair with the operation.
	ErrUnsupportedOperation = errors.New("capability: unsupported operation")

	// ErrAmbiguousCapability is reported when more than one distinct
	// capability name would resolve an operation to different implementations.
	ErrAmbiguousCapability = errors.New("capability: ambiguous capability")
)
