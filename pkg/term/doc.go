// Package term implements the interactive terminal engine backing persisted
// sessions. A Terminal wraps a shell process attached to a pseudo-terminal
// and exposes the operation set the session store delegates to: write, read,
// resize, and close.
//
// Terminals can be snapshotted to an opaque byte blob and restored later.
// Pseudo-terminal file descriptors cannot survive serialization, so a
// snapshot carries identity and pending output only; Restore reattaches to
// the live terminal through a process-wide registry keyed by process id.
// Restoring a terminal whose process is gone yields a closed terminal whose
// operations report ErrClosed.
package term
