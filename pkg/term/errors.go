package term

import "errors"

var (
	// ErrClosed is returned when an operation is attempted on a terminal
	// whose process has exited or that was explicitly closed
	ErrClosed = errors.New("terminal is closed")

	// ErrInvalidArgument is returned when an operation is called with
	// arguments the terminal rejects
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBadSnapshot is returned when a snapshot blob cannot be decoded
	ErrBadSnapshot = errors.New("malformed terminal snapshot")
)
