package nucleo

import "errors"

var (
	// ErrRequestFailed is returned when Nucleo answers with a non-2xx status.
	ErrRequestFailed = errors.New("nucleo: request failed")

	// ErrNoSecret is returned when no secret is known for a serial.
	ErrNoSecret = errors.New("nucleo: no secret for robot")

	// ErrInvalidResponse is returned when the response body is not a JSON object.
	ErrInvalidResponse = errors.New("nucleo: invalid response")
)
