package fleet

import "errors"

// Domain errors for the fleet package.
//
//	if errors.Is(err, fleet.ErrRobotNotFound) {
//	    // handle not found case
//	}
var (
	// ErrRobotNotFound is returned when a robot ID or serial does not exist.
	ErrRobotNotFound = errors.New("fleet: robot not found")

	// ErrRobotExists is returned when creating a robot whose ID or serial is taken.
	ErrRobotExists = errors.New("fleet: robot already exists")

	// ErrInvalidRobot is returned when robot validation fails.
	ErrInvalidRobot = errors.New("fleet: invalid robot")
)
