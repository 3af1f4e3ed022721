package term

import (
	"encoding/json"
	"fmt"
	"time"
)

// snapshot is the serialized form of a terminal. File descriptors cannot be
// serialized; the snapshot carries identity plus pending output only.
type snapshot struct {
	ID         string    `json:"id"`
	Pid        int       `json:"pid"`
	Shell      string    `json:"shell"`
	WorkingDir string    `json:"working_dir"`
	Cols       int       `json:"cols"`
	Rows       int       `json:"rows"`
	StartedAt  time.Time `json:"started_at"`
	Pending    []byte    `json:"pending,omitempty"`
}

// Snapshot serializes the terminal's state to an opaque blob. Buffered
// output is included without being consumed.
func (t *Terminal) Snapshot() ([]byte, error) {
	t.mu.RLock()
	cols, rows := t.cols, t.rows
	t.mu.RUnlock()

	s := snapshot{
		ID:         t.id,
		Pid:        t.Pid(),
		Shell:      t.shell,
		WorkingDir: t.workingDir,
		Cols:       cols,
		Rows:       rows,
		StartedAt:  t.startedAt,
		Pending:    t.out.Peek(),
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal terminal snapshot: %w", err)
	}
	return data, nil
}

// Restore rebuilds a terminal from a snapshot blob. If the terminal's
// process is still alive in this process's registry the live instance is
// returned; otherwise the result is a closed terminal whose operations
// report ErrClosed.
func Restore(blob []byte) (*Terminal, error) {
	var s snapshot
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if s.Pid <= 0 {
		return nil, fmt.Errorf("%w: missing pid", ErrBadSnapshot)
	}

	if t, ok := Lookup(s.Pid); ok && t.id == s.ID {
		return t, nil
	}

	// The process is gone; hand back a tombstone that preserves identity
	// and still lets the pending output be drained once.
	dead := &Terminal{
		id:         s.ID,
		pid:        s.Pid,
		shell:      s.Shell,
		workingDir: s.WorkingDir,
		cols:       s.Cols,
		rows:       s.Rows,
		startedAt:  s.StartedAt,
		out:        NewBuffer(outputBufferSize),
		closed:     true,
	}
	if len(s.Pending) > 0 {
		dead.out.Write(s.Pending)
	}
	return dead, nil
}
