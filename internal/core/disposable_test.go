package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDisposableCheckMembership(t *testing.T) {
	lookup := &fakeDisposableLookup{domains: map[string]bool{"mailinator.com": true}}
	checker := NewDisposableChecker(lookup, zap.NewNop(), nil)

	result := checker.Check(context.Background(), "Mailinator.COM")
	assert.True(t, result.IsDisposable)
	assert.Equal(t, MsgDisposable, result.Message)
	assert.Equal(t, "Mailinator.COM", result.Provider)

	result = checker.Check(context.Background(), "example.com")
	assert.False(t, result.IsDisposable)
	assert.Equal(t, MsgNotDisposable, result.Message)
	assert.Empty(t, result.Provider)

	assert.Equal(t, []string{"mailinator.com", "example.com"}, lookup.seen)
}

func TestDisposableCheckFailsOpen(t *testing.T) {
	metrics := newFakeMetrics()
	lookup := &fakeDisposableLookup{
		domains: map[string]bool{"mailinator.com": true},
		err:     errors.New("connection refused"),
	}
	checker := NewDisposableChecker(lookup, zap.NewNop(), metrics)

	for _, domain := range []string{"mailinator.com", "example.com"} {
		result := checker.Check(context.Background(), domain)
		assert.False(t, result.IsDisposable)
		assert.Equal(t, MsgDisposableUnavailable, result.Message)
	}
	assert.Equal(t, 2, metrics.storeFailures)
}

func TestDisposableCheckWithoutStore(t *testing.T) {
	checker := NewDisposableChecker(nil, zap.NewNop(), nil)

	result := checker.Check(context.Background(), "mailinator.com")
	assert.Equal(t, DisposableUnavailable(), result)
}
