package term

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestTerminal(t *testing.T) *Terminal {
	t.Helper()

	term, err := Start(Options{
		Shell:      "/bin/sh",
		WorkingDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { term.Close() })

	return term
}

// drainUntil reads terminal output until the predicate matches or the
// deadline passes
func drainUntil(t *testing.T, term *Terminal, want string) string {
	t.Helper()

	var collected strings.Builder
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		out, err := term.Read()
		require.NoError(t, err)
		collected.Write(out)
		if strings.Contains(collected.String(), want) {
			return collected.String()
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("terminal output never contained %q; got %q", want, collected.String())
	return ""
}

func TestStartDefaults(t *testing.T) {
	term := startTestTerminal(t)

	assert.Greater(t, term.Pid(), 0)
	assert.NotEmpty(t, term.ID())
	assert.False(t, term.Closed())

	cols, rows := term.Size()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 24, rows)
}

func TestWriteAndRead(t *testing.T) {
	term := startTestTerminal(t)

	_, err := term.Write([]byte("echo session-check\n"))
	require.NoError(t, err)

	drainUntil(t, term, "session-check")
}

func TestWriteEmptyInput(t *testing.T) {
	term := startTestTerminal(t)

	_, err := term.Write(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestResize(t *testing.T) {
	term := startTestTerminal(t)

	require.NoError(t, term.Resize(120, 40))

	cols, rows := term.Size()
	assert.Equal(t, 120, cols)
	assert.Equal(t, 40, rows)
}

func TestResizeInvalidDimensions(t *testing.T) {
	term := startTestTerminal(t)

	assert.ErrorIs(t, term.Resize(0, 24), ErrInvalidArgument)
	assert.ErrorIs(t, term.Resize(80, -1), ErrInvalidArgument)
}

func TestCloseIsIdempotent(t *testing.T) {
	term := startTestTerminal(t)

	require.NoError(t, term.Close())
	require.NoError(t, term.Close())
	assert.True(t, term.Closed())
}

func TestOperationsAfterClose(t *testing.T) {
	term := startTestTerminal(t)
	require.NoError(t, term.Close())

	_, err := term.Write([]byte("echo hi\n"))
	assert.ErrorIs(t, err, ErrClosed)

	assert.ErrorIs(t, term.Resize(100, 30), ErrClosed)
	assert.ErrorIs(t, term.Signal(15), ErrClosed)

	// Output captured before closure may still drain; once the buffer is
	// empty, reads fail
	var readErr error
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, readErr = term.Read(); readErr != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.ErrorIs(t, readErr, ErrClosed)
}

func TestRegistryLookup(t *testing.T) {
	term := startTestTerminal(t)

	found, ok := Lookup(term.Pid())
	require.True(t, ok)
	assert.Same(t, term, found)

	require.NoError(t, term.Close())
	_, ok = Lookup(term.Pid())
	assert.False(t, ok)
}
