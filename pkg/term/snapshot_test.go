package term

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestoreLiveTerminal(t *testing.T) {
	term := startTestTerminal(t)

	blob, err := term.Snapshot()
	require.NoError(t, err)

	restored, err := Restore(blob)
	require.NoError(t, err)

	// The process is alive, so restore reattaches to the same terminal
	assert.Same(t, term, restored)
	assert.False(t, restored.Closed())
}

func TestSnapshotRestoreAfterClose(t *testing.T) {
	term := startTestTerminal(t)

	blob, err := term.Snapshot()
	require.NoError(t, err)
	require.NoError(t, term.Close())

	restored, err := Restore(blob)
	require.NoError(t, err)

	assert.True(t, restored.Closed())
	assert.Equal(t, term.ID(), restored.ID())
	assert.Equal(t, term.Pid(), restored.Pid())

	_, err = restored.Write([]byte("echo hi\n"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSnapshotCarriesDimensions(t *testing.T) {
	term := startTestTerminal(t)
	require.NoError(t, term.Resize(132, 43))

	blob, err := term.Snapshot()
	require.NoError(t, err)
	require.NoError(t, term.Close())

	restored, err := Restore(blob)
	require.NoError(t, err)

	cols, rows := restored.Size()
	assert.Equal(t, 132, cols)
	assert.Equal(t, 43, rows)
}

func TestSnapshotDoesNotConsumeOutput(t *testing.T) {
	term := startTestTerminal(t)

	_, err := term.Write([]byte("echo snapshot-probe\n"))
	require.NoError(t, err)
	drained := drainUntil(t, term, "snapshot-probe")
	require.NotEmpty(t, drained)

	_, err = term.Write([]byte("echo after-probe\n"))
	require.NoError(t, err)

	// Snapshot then verify the pending output is still readable
	_, err = term.Snapshot()
	require.NoError(t, err)
	drainUntil(t, term, "after-probe")
}

func TestRestoredTombstoneDrainsPendingOutput(t *testing.T) {
	term := startTestTerminal(t)

	_, err := term.Write([]byte("echo pending-marker\n"))
	require.NoError(t, err)

	// Snapshot repeatedly until the echoed output has been captured
	var blob []byte
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		blob, err = term.Snapshot()
		require.NoError(t, err)

		var s snapshot
		require.NoError(t, json.Unmarshal(blob, &s))
		if strings.Contains(string(s.Pending), "pending-marker") {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, term.Close())

	restored, err := Restore(blob)
	require.NoError(t, err)
	require.True(t, restored.Closed())

	out, err := restored.Read()
	require.NoError(t, err)
	assert.Contains(t, string(out), "pending-marker")

	_, err = restored.Read()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRestoreBadBlob(t *testing.T) {
	_, err := Restore([]byte("not json"))
	assert.ErrorIs(t, err, ErrBadSnapshot)
}

func TestRestoreMissingPid(t *testing.T) {
	blob, err := json.Marshal(map[string]any{"id": "abc"})
	require.NoError(t, err)

	_, err = Restore(blob)
	assert.ErrorIs(t, err, ErrBadSnapshot)
}
