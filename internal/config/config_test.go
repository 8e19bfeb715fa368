package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	smtpCfg, err := cfg.GetSMTP()
	require.NoError(t, err)
	assert.Equal(t, 25, smtpCfg.Port)
	assert.Equal(t, 10*time.Second, smtpCfg.Timeout)
	assert.Equal(t, "verifyflow.com", smtpCfg.HeloIdentity)
	assert.Equal(t, "verify@verifyflow.com", smtpCfg.MailFrom)
	assert.Empty(t, smtpCfg.SkipDomains)

	disposableCfg, err := cfg.GetDisposable()
	require.NoError(t, err)
	assert.Equal(t, "memory", disposableCfg.Store)
	assert.Equal(t, "disposable_domains", disposableCfg.Key)
	assert.Equal(t, 72*time.Hour, disposableCfg.DynamoDB.GenerationTTL)

	refreshCfg, err := cfg.GetRefresh()
	require.NoError(t, err)
	assert.True(t, refreshCfg.Enabled, "memory store starts empty and must be refreshed")
	assert.True(t, refreshCfg.OnStart)
	assert.Equal(t, DefaultDisposableListURL, refreshCfg.URL)
	assert.Equal(t, 24*time.Hour, refreshCfg.Interval)
	assert.Equal(t, 1, refreshCfg.MinDomains)

	serverCfg, err := cfg.GetServer()
	require.NoError(t, err)
	assert.Equal(t, "http", serverCfg.Frontend)
	assert.Equal(t, 30*time.Second, serverCfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, serverCfg.CORSAllowedOrigins)
}

func TestInvalidDuration(t *testing.T) {
	v := NewEmptyViper()
	v.Set("smtp.timeout", "soon")

	_, err := NewFromViper(v).GetSMTP()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp.timeout")
}

func TestNewFromFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := []byte(`
dns:
  type: miekg
  nameserver: 9.9.9.9:53
smtp:
  skip_domains:
    - gmail.com
    - yahoo.com
disposable:
  store: redis
`)
	require.NoError(t, os.WriteFile(path, contents, 0o600))
	t.Setenv("VERIFY_API_DISPOSABLE_STORE", "sqlite")

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	dnsCfg, err := cfg.GetDNS()
	require.NoError(t, err)
	assert.Equal(t, "miekg", dnsCfg.Type)
	assert.Equal(t, "9.9.9.9:53", dnsCfg.Nameserver)
	assert.Equal(t, 5*time.Second, dnsCfg.Timeout)

	smtpCfg, err := cfg.GetSMTP()
	require.NoError(t, err)
	assert.Equal(t, []string{"gmail.com", "yahoo.com"}, smtpCfg.SkipDomains)

	assert.Equal(t, "sqlite", cfg.GetString("disposable.store"))
}

func TestRefreshEnabled(t *testing.T) {
	tests := []struct {
		name    string
		store   string
		enabled interface{}
		want    bool
		wantErr bool
	}{
		{"auto with memory store", "memory", RefreshAuto, true, false},
		{"auto with redis store", "redis", RefreshAuto, false, false},
		{"empty means auto", "memory", "", true, false},
		{"explicit false with memory store", "memory", false, false, false},
		{"explicit true with sqlite store", "sqlite", true, true, false},
		{"string true", "dynamodb", "TRUE", true, false},
		{"invalid", "memory", "sometimes", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewEmptyViper()
			v.Set("disposable.store", tt.store)
			v.Set("disposable.refresh.enabled", tt.enabled)

			refreshCfg, err := NewFromViper(v).GetRefresh()
			if tt.wantErr {
				assert.ErrorContains(t, err, "disposable.refresh.enabled")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, refreshCfg.Enabled)
		})
	}
}

func TestRefreshEnabledFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("disposable:\n  store: memory\n"), 0o600))
	t.Setenv("VERIFY_API_DISPOSABLE_REFRESH_ENABLED", "false")

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	refreshCfg, err := cfg.GetRefresh()
	require.NoError(t, err)
	assert.False(t, refreshCfg.Enabled)
}
