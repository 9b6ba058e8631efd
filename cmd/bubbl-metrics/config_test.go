package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bubbl-app/bubbl-metrics/internal/model"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	home := setupHome(t)

	cfg, err := loadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, model.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, model.DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, model.DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, model.DefaultActiveWindowDays, cfg.ActiveDays)
	assert.Equal(t, model.DefaultChartDays, cfg.ChartDays)
	assert.Equal(t, model.DefaultAPIAddr, cfg.APIAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.OpenBrowser)
	assert.Equal(t, filepath.Join(home, "Downloads"), cfg.ExportDir)
	assert.Equal(t, filepath.Join(home, ".local", "state", "bubbl-metrics", "bubbl-metrics.log"), cfg.LogFile)
	assert.Empty(t, cfg.ConfigPath)
}

func TestLoadConfigFromFile(t *testing.T) {
	home := setupHome(t)
	path := writeConfig(t, `
base-url: http://metrics.internal:8080/
poll-interval: 5s
chart-days: 14
export-dir: ~/exports
open-browser: false
`)

	cfg, err := loadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://metrics.internal:8080", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 14, cfg.ChartDays)
	assert.Equal(t, filepath.Join(home, "exports"), cfg.ExportDir)
	assert.False(t, cfg.OpenBrowser)
	assert.Equal(t, path, cfg.ConfigPath)
}

func TestLoadConfigDefaultLocation(t *testing.T) {
	home := setupHome(t)
	dir := filepath.Join(home, ".config", "bubbl-metrics")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("active-days: 3\n"), 0o644))

	cfg, err := loadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.ActiveDays)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	setupHome(t)
	path := writeConfig(t, "base-url: http://file:8080\n")
	t.Setenv("BUBBL_BASE_URL", "http://env:9000")
	t.Setenv("BUBBL_REQUEST_TIMEOUT", "2s")

	cfg, err := loadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://env:9000", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

func TestLoadConfigFlagOverridesEnv(t *testing.T) {
	setupHome(t)
	t.Setenv("BUBBL_BASE_URL", "http://env:9000")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("base-url", "", "")
	cmd.Flags().Int("chart-days", 0, "")
	require.NoError(t, cmd.Flags().Set("base-url", "http://flag:7000"))

	cfg, err := loadConfig("", cmd)
	require.NoError(t, err)
	assert.Equal(t, "http://flag:7000", cfg.BaseURL)
	// Unset flags keep the default.
	assert.Equal(t, model.DefaultChartDays, cfg.ChartDays)
}

func TestLoadConfigMissingFileIsFine(t *testing.T) {
	setupHome(t)

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"), nil)
	assert.NoError(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad url", "base-url: not a url\n", "invalid base-url"},
		{"zero chart days", "chart-days: 0\n", "invalid chart-days"},
		{"chart days too large", "chart-days: 400\n", "invalid chart-days"},
		{"bad api addr", "api-addr: nope\n", "invalid api-addr"},
		{"bad log level", "log-level: loud\n", "invalid log-level"},
		{"zero poll interval", "poll-interval: 0s\n", "invalid poll-interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHome(t)
			_, err := loadConfig(writeConfig(t, tt.body), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	setupHome(t)

	_, err := loadConfig(writeConfig(t, "base-url: [unterminated\n"), nil)
	assert.Error(t, err)
}

func TestConfigCommandPrintsYAML(t *testing.T) {
	setupHome(t)
	path := writeConfig(t, "base-url: http://metrics:8080\npoll-interval: 5s\n")

	out, err := runCLI(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "base-url: http://metrics:8080")
	assert.Contains(t, out, "poll-interval: 5s")
	assert.NotContains(t, out, "configpath")
}
