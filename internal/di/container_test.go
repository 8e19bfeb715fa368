package di

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mikey/email-verify-api/internal/adapters/frontend"
	"github.com/mikey/email-verify-api/internal/config"
	"github.com/mikey/email-verify-api/internal/core"
	"github.com/mikey/email-verify-api/internal/disposable"
	"github.com/mikey/email-verify-api/internal/ports"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestBuildCLIContainerResolvesGraph(t *testing.T) {
	container, err := BuildCLIContainer(&CLIFlags{Quick: true, JSON: true})
	require.NoError(t, err)

	err = container.Invoke(func(
		fe ports.Frontend,
		service *core.VerificationService,
		cfg *config.Config,
		refresher *disposable.Refresher,
	) {
		assert.IsType(t, &frontend.CliFrontend{}, fe)
		assert.NotNil(t, service)
		assert.NotNil(t, refresher)

		// The default memory store starts empty, so it is always refreshed
		refreshCfg, err := cfg.GetRefresh()
		require.NoError(t, err)
		assert.Equal(t, "memory", cfg.GetString("disposable.store"))
		assert.True(t, refreshCfg.Enabled)
		assert.True(t, refreshCfg.OnStart)
	})
	require.NoError(t, err)
}

func TestDefaultMemoryStoreDetectsDisposableAfterRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "mailinator.com")
		fmt.Fprintln(w, "guerrillamail.com")
	}))
	defer server.Close()

	path := writeConfig(t, fmt.Sprintf("disposable:\n  refresh:\n    url: %s\n", server.URL))
	container, err := BuildCLIContainer(&CLIFlags{ConfigFile: path})
	require.NoError(t, err)

	err = container.Invoke(func(refresher *disposable.Refresher, checker *core.DisposableChecker) {
		size, err := refresher.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, size)

		result := checker.Check(context.Background(), "mailinator.com")
		assert.True(t, result.IsDisposable)
		assert.Equal(t, core.MsgDisposable, result.Message)

		result = checker.Check(context.Background(), "example.com")
		assert.False(t, result.IsDisposable)
	})
	require.NoError(t, err)
}

func TestSkipListLoggedOnce(t *testing.T) {
	path := writeConfig(t, "smtp:\n  skip_domains:\n    - yahoo.com\n    - outlook.com\n")
	container, err := BuildCLIContainer(&CLIFlags{ConfigFile: path})
	require.NoError(t, err)

	observed, logs := observer.New(zap.InfoLevel)
	require.NoError(t, container.Decorate(func(*zap.Logger) *zap.Logger {
		return zap.New(observed)
	}))

	err = container.Invoke(func(skipper core.ProbeSkipper) {
		assert.True(t, skipper.ShouldSkip("yahoo.com"))
	})
	require.NoError(t, err)

	entries := logs.FilterMessageSnippet("skip list").All()
	require.Len(t, entries, 1)
}

func TestBuildCLIContainerMissingConfigFile(t *testing.T) {
	container, err := BuildCLIContainer(&CLIFlags{ConfigFile: "/nonexistent/config.yaml"})
	require.NoError(t, err)

	err = container.Invoke(func(fe ports.Frontend) {})
	assert.Error(t, err)
}
