package term

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const outputBufferSize = 1024 * 1024 // 1MB of scrollback per session

// Options configures a new terminal
type Options struct {
	Shell      string
	WorkingDir string
	Cols       int
	Rows       int
	Env        map[string]string
}

// Terminal is an interactive shell attached to a pseudo-terminal
type Terminal struct {
	id         string
	pid        int
	shell      string
	workingDir string
	startedAt  time.Time

	cmd  *exec.Cmd
	ptmx *os.File
	out  *Buffer

	mu     sync.RWMutex
	cols   int
	rows   int
	closed bool
}

// Start spawns a shell on a fresh pseudo-terminal and registers it for
// later reattachment by pid
func Start(opts Options) (*Terminal, error) {
	shell := opts.Shell
	if shell == "" {
		shell = os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
	}

	workingDir := opts.WorkingDir
	if workingDir == "" {
		workingDir = os.Getenv("HOME")
		if workingDir == "" {
			workingDir = "/tmp"
		}
	}

	cols := opts.Cols
	if cols <= 0 {
		cols = 80
	}
	rows := opts.Rows
	if rows <= 0 {
		rows = 24
	}

	cmd := exec.Command(shell)
	cmd.Dir = workingDir
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")
	for key, value := range opts.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start pty: %w", err)
	}

	t := &Terminal{
		id:         uuid.New().String(),
		pid:        cmd.Process.Pid,
		shell:      shell,
		workingDir: workingDir,
		cols:       cols,
		rows:       rows,
		startedAt:  time.Now(),
		cmd:        cmd,
		ptmx:       ptmx,
		out:        NewBuffer(outputBufferSize),
	}

	register(t)

	go t.readOutput()
	go t.monitor()

	log.Debug().
		Int("pid", t.Pid()).
		Str("shell", shell).
		Msg("Terminal started")

	return t, nil
}

// readOutput continuously drains the pty into the output buffer
func (t *Terminal) readOutput() {
	buf := make([]byte, 4096)
	for {
		n, err := t.ptmx.Read(buf)
		if n > 0 {
			t.out.Write(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				log.Debug().Int("pid", t.Pid()).Err(err).Msg("Terminal read loop ended")
			}
			return
		}
	}
}

// monitor waits for the shell process and marks the terminal closed
func (t *Terminal) monitor() {
	t.cmd.Wait()

	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	t.ptmx.Close()
	unregister(t)
}

// ID returns the terminal's unique identifier
func (t *Terminal) ID() string {
	return t.id
}

// Pid returns the process id of the underlying shell
func (t *Terminal) Pid() int {
	return t.pid
}

// Shell returns the shell binary path
func (t *Terminal) Shell() string {
	return t.shell
}

// Size returns the current terminal dimensions
func (t *Terminal) Size() (cols, rows int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cols, t.rows
}

// StartedAt returns the terminal start time
func (t *Terminal) StartedAt() time.Time {
	return t.startedAt
}

// Closed reports whether the terminal can no longer be used
func (t *Terminal) Closed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

// Write sends input bytes to the shell
func (t *Terminal) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidArgument)
	}

	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return 0, ErrClosed
	}

	return t.ptmx.Write(p)
}

// Read drains and returns the output buffered since the last read. A closed
// terminal still surrenders output captured before closure; once that is
// drained, reads fail with ErrClosed.
func (t *Terminal) Read() ([]byte, error) {
	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		if p := t.out.Drain(); len(p) > 0 {
			return p, nil
		}
		return nil, ErrClosed
	}

	return t.out.Drain(), nil
}

// Resize changes the terminal dimensions
func (t *Terminal) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("%w: dimensions must be positive (%dx%d)", ErrInvalidArgument, cols, rows)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	if err := pty.Setsize(t.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		return fmt.Errorf("failed to resize pty: %w", err)
	}

	t.cols = cols
	t.rows = rows
	return nil
}

// Signal delivers a signal to the shell process
func (t *Terminal) Signal(sig int) error {
	if sig <= 0 {
		return fmt.Errorf("%w: signal must be positive (%d)", ErrInvalidArgument, sig)
	}

	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	if err := t.cmd.Process.Signal(syscall.Signal(sig)); err != nil {
		return fmt.Errorf("failed to signal pid %d: %w", t.pid, err)
	}
	return nil
}

// Close terminates the shell and releases the pty. Closing an already
// closed terminal is a no-op.
func (t *Terminal) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	if t.cmd.Process != nil {
		t.cmd.Process.Kill()
	}
	t.ptmx.Close()
	unregister(t)

	log.Debug().Int("pid", t.Pid()).Msg("Terminal closed")
	return nil
}
