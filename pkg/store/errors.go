package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harun/termvault/pkg/term"
)

// Kind classifies a session store failure
type Kind string

const (
	// KindUnavailable means no record exists for the pid, or the terminal
	// behind it is gone. Terminal, non-retryable.
	KindUnavailable Kind = "unavailable"

	// KindInvalid means the engine rejected the operation's arguments.
	// Retryable with corrected input.
	KindInvalid Kind = "invalid"

	// KindUnauthorized means the supplied owner token does not match the
	// record's owner. Never retryable with the same token.
	KindUnauthorized Kind = "unauthorized"
)

// Error is a domain error carrying enough context to render a
// machine-readable payload
type Error struct {
	Kind Kind
	Pid  int
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("session %d: %s", e.Pid, e.Kind)
	if e.Op != "" {
		msg = fmt.Sprintf("session %d: %s: %s", e.Pid, e.Op, e.Kind)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MarshalJSON renders the error as a machine-readable payload
func (e *Error) MarshalJSON() ([]byte, error) {
	payload := struct {
		Kind    Kind   `json:"kind"`
		Pid     int    `json:"pid"`
		Op      string `json:"op,omitempty"`
		Message string `json:"message"`
	}{
		Kind:    e.Kind,
		Pid:     e.Pid,
		Op:      e.Op,
		Message: e.Error(),
	}
	return json.Marshal(payload)
}

func newError(kind Kind, pid int, op string, err error) *Error {
	return &Error{Kind: kind, Pid: pid, Op: op, Err: err}
}

// IsUnavailable reports whether err is an Unavailable session error
func IsUnavailable(err error) bool {
	return hasKind(err, KindUnavailable)
}

// IsInvalid reports whether err is an Invalid session error
func IsInvalid(err error) bool {
	return hasKind(err, KindInvalid)
}

// IsUnauthorized reports whether err is an Unauthorized session error
func IsUnauthorized(err error) bool {
	return hasKind(err, KindUnauthorized)
}

func hasKind(err error, kind Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// mapEngineError translates an engine failure into the domain taxonomy.
// Failures outside the two distinguished categories propagate unchanged.
func mapEngineError(pid int, op string, err error) error {
	switch {
	case errors.Is(err, term.ErrClosed):
		return newError(KindUnavailable, pid, op, err)
	case errors.Is(err, term.ErrInvalidArgument):
		return newError(KindInvalid, pid, op, err)
	default:
		return err
	}
}
