package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
loglevel = "DEBUG"
maxfeeds = 2
maxtasks = 16
timeout = 5
useragent = "test-agent"
proxies = ["http://127.0.0.1:8888", "http://127.0.0.1:8889"]
reload = true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 2, cfg.MaxFeeds)
	assert.Equal(t, 16, cfg.MaxTasks)
	assert.Equal(t, 12, cfg.MaxPerHost, "unset keys keep their default")
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout())
	assert.Equal(t, "test-agent", cfg.UserAgent)
	assert.Equal(t, []string{"http://127.0.0.1:8888", "http://127.0.0.1:8889"}, cfg.Proxies)
	assert.True(t, cfg.Reload)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("NEWSAGG_MAXTASKS", "7")
	t.Setenv("NEWSAGG_METRICSADDR", ":9100")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxTasks)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, 2, cfg.MaxFeeds)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, time.Duration(0), cfg.FetchTimeout())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"zero feeds", func(c *Config) { c.MaxFeeds = 0 }, false},
		{"negative per host", func(c *Config) { c.MaxPerHost = -1 }, false},
		{"negative timeout", func(c *Config) { c.Timeout = -3 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			if tt.ok {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}
