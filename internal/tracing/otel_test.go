package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitOpenTelemetry(t *testing.T) {
	require.NoError(t, InitOpenTelemetry("termvault-test", "0.0.1"))

	// Repeated init keeps the first provider
	require.NoError(t, InitOpenTelemetry("other-service", "9.9.9"))

	ctx, span := StartSpan(context.Background(), "termvault.test", "init.op")
	defer span.End()
	assert.NotEmpty(t, GetTraceID(ctx))
}

func TestShutdownOpenTelemetry(t *testing.T) {
	require.NoError(t, InitOpenTelemetry("termvault-test", "0.0.1"))
	assert.NoError(t, ShutdownOpenTelemetry(context.Background()))
}
