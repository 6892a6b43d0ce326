package fleet

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-botvac/internal/capability"
)

const (
	maxNameLength   = 100
	maxSerialLength = 64
	maxCapabilities = 32
)

// ValidateRobot checks the fields a robot needs to be addressable.
//
// Capability pairs are only checked for shape. Pairs missing from the
// validity table are accepted here; see UnknownCapabilities.
func ValidateRobot(r *Robot) error {
	if r == nil {
		return ErrInvalidRobot
	}

	name := strings.TrimSpace(r.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRobot)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidRobot, maxNameLength)
	}

	if err := ValidateSerial(r.Serial); err != nil {
		return err
	}

	if len(r.Capabilities) > maxCapabilities {
		return fmt.Errorf("%w: more than %d capabilities", ErrInvalidRobot, maxCapabilities)
	}
	for c, l := range r.Capabilities {
		if c == "" || l == "" {
			return fmt.Errorf("%w: capability %q has empty name or level", ErrInvalidRobot, c)
		}
	}

	return nil
}

// ValidateSerial checks a Nucleo serial number. Serials are used as URL
// path segments and MQTT topic levels.
func ValidateSerial(serial string) error {
	if serial == "" {
		return fmt.Errorf("%w: serial is required", ErrInvalidRobot)
	}
	if len(serial) > maxSerialLength {
		return fmt.Errorf("%w: serial exceeds %d characters", ErrInvalidRobot, maxSerialLength)
	}
	if strings.ContainsAny(serial, " \t\r\n/#+") {
		return fmt.Errorf("%w: serial %q contains reserved characters", ErrInvalidRobot, serial)
	}
	return nil
}

// UnknownCapabilities returns the declared pairs that are not in the
// validity table. Unknown pairs never match a registered operation.
func UnknownCapabilities(r *Robot) []capability.Key {
	return capability.UnknownKeys(r.Capabilities)
}

// GenerateID creates a new unique robot ID.
func GenerateID() string {
	return uuid.New().String()
}
