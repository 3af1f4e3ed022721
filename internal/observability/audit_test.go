package observability

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAuditLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	require.NoError(t, InitAuditLogger(path))

	RecordRetentionAudit(context.Background(), 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"retention"`)
	assert.Contains(t, string(data), `"deleted":3`)
}

func TestGetAuditLoggerKeepsInitializedSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	require.NoError(t, InitAuditLogger(path))

	// A lookup after init must not fall back to the stderr default
	first := GetAuditLogger()
	assert.Same(t, first, GetAuditLogger())

	RecordAccessAudit(context.Background(), 42, "access_denied", "failure", nil)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"action":"access_denied"`)
	assert.Contains(t, string(data), `"pid":"42"`)
}

func TestGetAuditLoggerDefaultsWithoutInit(t *testing.T) {
	assert.NotNil(t, GetAuditLogger())
}
