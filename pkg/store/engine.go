package store

// Engine is the terminal-session object whose operations the store
// delegates to. Engines report closure with term.ErrClosed and argument
// rejection with term.ErrInvalidArgument; any other failure is treated as
// an unhandled fault and propagates unchanged.
type Engine interface {
	// Pid returns the process id of the engine's underlying process
	Pid() int

	// Write sends input bytes to the session
	Write(p []byte) (int, error)

	// Read drains output buffered since the last read
	Read() ([]byte, error)

	// Resize changes the session's terminal dimensions
	Resize(cols, rows int) error

	// Close terminates the session
	Close() error

	// Snapshot serializes the engine's state without external resources
	Snapshot() ([]byte, error)
}

// Signaler is implemented by engines that can deliver signals to their
// underlying process. Support is discoverable through Handle.Supports.
type Signaler interface {
	Signal(sig int) error
}
