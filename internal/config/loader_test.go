package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader("/path/to/config.json")
	assert.NotNil(t, loader)
	assert.Equal(t, "/path/to/config.json", loader.configPath)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("load default config when file doesn't exist", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nonexistent.json")

		loader := NewLoader(configPath)
		cfg, err := loader.Load()

		require.NoError(t, err)
		assert.NotNil(t, cfg)
		assert.Equal(t, 24*time.Hour, cfg.Retention.MaxAge)
		assert.NotEmpty(t, cfg.Database.Path)
	})

	t.Run("load config from file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")

		testConfig := `{
			"data_dir": "` + tmpDir + `",
			"terminal": {
				"shell": "/bin/zsh",
				"cols": 120,
				"rows": 40
			},
			"retention": {
				"schedule": "@every 30m"
			}
		}`
		err := os.WriteFile(configPath, []byte(testConfig), 0644)
		require.NoError(t, err)

		loader := NewLoader(configPath)
		cfg, err := loader.Load()

		require.NoError(t, err)
		assert.Equal(t, "/bin/zsh", cfg.Terminal.Shell)
		assert.Equal(t, 120, cfg.Terminal.Cols)
		assert.Equal(t, "@every 30m", cfg.Retention.Schedule)
		assert.Equal(t, filepath.Join(tmpDir, "sessions.db"), cfg.Database.Path)
		assert.Equal(t, filepath.Join(tmpDir, "termvault.log"), cfg.Logging.File)
	})

	t.Run("invalid json is an error", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")

		err := os.WriteFile(configPath, []byte("{not json"), 0644)
		require.NoError(t, err)

		loader := NewLoader(configPath)
		_, err = loader.Load()
		assert.Error(t, err)
	})
}
