//go:build integration

package integration

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/httpcontext-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/httpcontext-service/internal/platform/config"
)

// writeConfigs creates a configs/ directory in a temp dir and changes into it.
func writeConfigs(t *testing.T, files map[string]string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", name), []byte(content), 0o600))
	}

	t.Chdir(dir)
}

// TestConfig_ProfileSelectsDispatcher verifies that a profile file picks the
// framework and mount path the service serves.
func TestConfig_ProfileSelectsDispatcher(t *testing.T) {
	writeConfigs(t, map[string]string{
		"base.yaml": "dispatch:\n  framework: chi\n",
		"staging.yaml": "dispatch:\n  framework: echo\n  mount_path: /routers\n" +
			"selfcheck:\n  units: 8\n  reads: 2\n  workers: 2\n",
	})

	cfg, err := config.Load("staging")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "echo", cfg.Dispatch.Framework)
	assert.Equal(t, "/routers", cfg.Dispatch.MountPath)

	svc := startService(t, cfg)

	var resp handlers.ResourceResponse
	status := getJSON(t, svc.server.URL+"/routers/resources/bolts", "cfg-req", &resp)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "echo", resp.Framework)
	assert.Equal(t, "bolts", resp.Name)
}

// TestConfig_EnvOverridesProfile verifies APP_ variables win over files.
func TestConfig_EnvOverridesProfile(t *testing.T) {
	writeConfigs(t, map[string]string{
		"base.yaml": "dispatch:\n  framework: echo\n",
	})
	t.Setenv("APP_DISPATCH_FRAMEWORK", "stdlib")
	t.Setenv("APP_SELFCHECK_UNITS", "12")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "stdlib", cfg.Dispatch.Framework)
	assert.Equal(t, 12, cfg.SelfCheck.Units)

	svc := startService(t, cfg)

	var resp handlers.ResourceResponse
	status := getJSON(t, svc.server.URL+cfg.Dispatch.MountPath+"/resources/nuts", "env-req", &resp)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "stdlib", resp.Framework)
	assert.Equal(t, "GET /resources/{name}", resp.Pattern)
}

// TestConfig_SelfCheckDefaultsFromConfig verifies that /-/selfcheck sizes
// its self-check from the selfcheck section when no query is given.
func TestConfig_SelfCheckDefaultsFromConfig(t *testing.T) {
	cfg := testConfig(t, "chi")
	cfg.SelfCheck.Units = 24
	cfg.SelfCheck.Reads = 3

	svc := startService(t, cfg)

	var report struct {
		Units int `json:"units"`
		Reads int `json:"reads"`
	}
	status := getJSON(t, svc.server.URL+"/-/selfcheck", "defaults", &report)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 24, report.Units)
	assert.Equal(t, 3, report.Reads)
}

// TestConfig_InvalidConfiguration verifies that bad values are rejected
// before anything is served.
func TestConfig_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{
			name:   "unknown framework",
			mutate: func(c *config.Config) { c.Dispatch.Framework = "martini" },
		},
		{
			name:   "relative mount path",
			mutate: func(c *config.Config) { c.Dispatch.MountPath = "frameworks" },
		},
		{
			name:   "zero self-check units",
			mutate: func(c *config.Config) { c.SelfCheck.Units = 0 },
		},
		{
			name:   "zero workers",
			mutate: func(c *config.Config) { c.SelfCheck.Workers = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load("")
			require.NoError(t, err)

			tt.mutate(cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}
