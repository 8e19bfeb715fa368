package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mikey/email-verify-api/internal/adapters/frontend"
	"github.com/mikey/email-verify-api/internal/adapters/resolver"
	"github.com/mikey/email-verify-api/internal/adapters/store"
	"github.com/mikey/email-verify-api/internal/config"
)

func newTestConfig(settings map[string]interface{}) *config.Config {
	v := config.NewEmptyViper()
	for key, value := range settings {
		v.Set(key, value)
	}
	return config.NewFromViper(v)
}

func TestStoreFactory(t *testing.T) {
	ctx := context.Background()

	memory, err := NewStoreFactory(newTestConfig(nil), zap.NewNop()).CreateDisposableStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, memory)

	dbPath := filepath.Join(t.TempDir(), "nested", "disposable.db")
	sqlite, err := NewStoreFactory(newTestConfig(map[string]interface{}{
		"disposable.store":       "sqlite",
		"disposable.sqlite_path": dbPath,
	}), zap.NewNop()).CreateDisposableStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &store.SQLiteStore{}, sqlite)
	require.NoError(t, sqlite.(*store.SQLiteStore).Close())

	_, err = NewStoreFactory(newTestConfig(map[string]interface{}{
		"disposable.store": "cassandra",
	}), zap.NewNop()).CreateDisposableStore(ctx)
	assert.ErrorContains(t, err, "unsupported disposable store type")
}

func TestStoreFactoryWarnsOnShortGenerationTTL(t *testing.T) {
	tests := []struct {
		ttl      string
		warnings int
	}{
		{"24h", 1},
		{"72h", 0},
		{"0s", 0},
	}

	for _, tt := range tests {
		observed, logs := observer.New(zap.WarnLevel)
		f := NewStoreFactory(newTestConfig(map[string]interface{}{
			"disposable.store":                   "dynamodb",
			"disposable.dynamodb.generation_ttl": tt.ttl,
			"disposable.dynamodb.endpoint":       "http://127.0.0.1:8000",
			"disposable.refresh.interval":        "24h",
		}), zap.New(observed))

		s, err := f.CreateDisposableStore(context.Background())
		require.NoError(t, err, tt.ttl)
		assert.IsType(t, &store.DynamoDBStore{}, s)
		assert.Equal(t, tt.warnings, logs.FilterMessageSnippet("generation TTL").Len(), tt.ttl)
	}
}

func TestResolverFactory(t *testing.T) {
	system, err := NewResolverFactory(newTestConfig(nil), zap.NewNop()).CreateMXLookup()
	require.NoError(t, err)
	assert.IsType(t, &resolver.SystemResolver{}, system)

	miekg, err := NewResolverFactory(newTestConfig(map[string]interface{}{
		"dns.type": "miekg",
	}), zap.NewNop()).CreateMXLookup()
	require.NoError(t, err)
	assert.IsType(t, &resolver.MiekgResolver{}, miekg)

	_, err = NewResolverFactory(newTestConfig(map[string]interface{}{
		"dns.type":       "miekg",
		"dns.nameserver": "",
	}), zap.NewNop()).CreateMXLookup()
	assert.Error(t, err)

	_, err = NewResolverFactory(newTestConfig(map[string]interface{}{
		"dns.timeout": "later",
	}), zap.NewNop()).CreateMXLookup()
	assert.Error(t, err)
}

func TestProberFactory(t *testing.T) {
	prober, err := NewProberFactory(newTestConfig(map[string]interface{}{
		"smtp.proxy_address": "127.0.0.1:1080",
	}), zap.NewNop(), nil).CreateProber()
	require.NoError(t, err)
	assert.NotNil(t, prober)
}

func TestFrontendFactory(t *testing.T) {
	fe, err := NewFrontendFactory(newTestConfig(nil), zap.NewNop(), nil, nil).CreateFrontend()
	require.NoError(t, err)
	assert.IsType(t, &frontend.HTTPFrontend{}, fe)

	fe, err = NewFrontendFactory(newTestConfig(map[string]interface{}{
		"server.frontend": "cli",
	}), zap.NewNop(), nil, nil).CreateFrontend()
	require.NoError(t, err)
	assert.IsType(t, &frontend.CliFrontend{}, fe)

	_, err = NewFrontendFactory(newTestConfig(map[string]interface{}{
		"server.frontend": "milter",
	}), zap.NewNop(), nil, nil).CreateFrontend()
	assert.Error(t, err)
}
