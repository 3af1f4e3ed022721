package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactOwnerToken(t *testing.T) {
	r := NewRedactor()

	in := `{"owner":"own_V1StGXR8_Z5jdHi6B-myT","pid":100}`
	out := r.Redact(in)

	assert.NotContains(t, out, "own_V1StGXR8_Z5jdHi6B-myT")
	assert.Contains(t, out, "[REDACTED]")
}

func TestRedactLeavesNormalTextAlone(t *testing.T) {
	r := NewRedactor()

	in := "session 100 persisted in 2ms"
	assert.Equal(t, in, r.Redact(in))
}

func TestRedactBearerToken(t *testing.T) {
	r := NewRedactor()

	out := r.Redact("Authorization: Bearer abc.def.ghi")
	assert.NotContains(t, out, "abc.def.ghi")
}

func TestAddPattern(t *testing.T) {
	r := NewRedactor()

	err := r.AddPattern(`pin-\d{4}`)
	require.NoError(t, err)

	assert.Equal(t, "[REDACTED]", r.Redact("pin-1234"))
}

func TestAddPatternInvalid(t *testing.T) {
	r := NewRedactor()

	err := r.AddPattern(`[unclosed`)
	assert.Error(t, err)
}

func TestRedactingWriter(t *testing.T) {
	var buf bytes.Buffer
	r := NewRedactor()
	w := r.Wrap(&buf)

	payload := []byte(`owner=own_0123456789abcdef`)
	n, err := w.Write(payload)
	require.NoError(t, err)

	assert.Equal(t, len(payload), n)
	assert.NotContains(t, buf.String(), "own_0123456789abcdef")
}
