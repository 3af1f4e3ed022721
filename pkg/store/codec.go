package store

import (
	"fmt"

	"github.com/harun/termvault/pkg/term"
)

// Codec converts an engine to and from the opaque state blob kept in the
// physical store
type Codec interface {
	Encode(e Engine) ([]byte, error)
	Decode(blob []byte) (Engine, error)
}

// TermCodec is the default codec for pty-backed terminals. Encoding takes
// the engine's snapshot; decoding reattaches to the live terminal when its
// process is still running.
type TermCodec struct{}

func (TermCodec) Encode(e Engine) ([]byte, error) {
	blob, err := e.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to encode session state: %w", err)
	}
	return blob, nil
}

func (TermCodec) Decode(blob []byte) (Engine, error) {
	t, err := term.Restore(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to decode session state: %w", err)
	}
	return t, nil
}
