package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mikey/email-verify-api/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCliFrontendSummary(t *testing.T) {
	var out bytes.Buffer
	f := NewCliFrontend(&fakeVerifier{}, zap.NewNop(), &out, false, true)

	outcome, err := f.Verify(context.Background(), core.VerificationRequest{Email: "user@example.com"})
	require.NoError(t, err)
	assert.True(t, outcome.Valid)

	assert.Contains(t, out.String(), "=== user@example.com ===")
	assert.Contains(t, out.String(), "Valid: true")
	assert.Contains(t, out.String(), "Risk: 0 (low)")
}

func TestCliFrontendJSON(t *testing.T) {
	var out bytes.Buffer
	f := NewCliFrontend(&fakeVerifier{}, zap.NewNop(), &out, true, false)

	_, err := f.Verify(context.Background(), core.VerificationRequest{Email: "a@example.com"})
	require.NoError(t, err)
	_, err = f.Verify(context.Background(), core.VerificationRequest{Email: "b@example.com"})
	require.NoError(t, err)

	decoder := json.NewDecoder(&out)
	var first, second core.VerificationOutcome
	require.NoError(t, decoder.Decode(&first))
	require.NoError(t, decoder.Decode(&second))
	assert.Equal(t, "a@example.com", first.Email)
	assert.Equal(t, "b@example.com", second.Email)
}

func TestCliFrontendError(t *testing.T) {
	var out bytes.Buffer
	f := NewCliFrontend(&fakeVerifier{err: errors.New("boom")}, zap.NewNop(), &out, false, false)

	_, err := f.Verify(context.Background(), core.VerificationRequest{Email: "a@example.com"})
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Error: boom")
	assert.NoError(t, f.Start())
	assert.NoError(t, f.Stop())
}
