package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/termvault/internal/config"
	"github.com/harun/termvault/pkg/term"
)

func TestEngineFactoryUsesTerminalConfig(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pty test in short mode")
	}

	factory := engineFactory(config.TerminalConfig{
		Shell: "/bin/sh",
		Cols:  120,
		Rows:  40,
	})

	engine, err := factory()
	require.NoError(t, err)
	defer engine.Close()

	assert.Greater(t, engine.Pid(), 0)

	terminal, ok := engine.(*term.Terminal)
	require.True(t, ok)
	assert.Equal(t, "/bin/sh", terminal.Shell())

	cols, rows := terminal.Size()
	assert.Equal(t, 120, cols)
	assert.Equal(t, 40, rows)
}
