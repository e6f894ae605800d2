package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolated returns options that see no files outside a temp dir.
func isolated(t *testing.T) (LoadOptions, string) {
	t.Helper()
	dir := t.TempDir()
	return LoadOptions{SearchPaths: []string{dir}, EnvFile: filepath.Join(dir, ".env")}, dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	opts, _ := isolated(t)

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10*time.Minute, cfg.Market.ShortTTL)
	assert.Equal(t, time.Hour, cfg.Market.LongTTL)
	assert.Empty(t, cfg.Journal.DSN)
}

func TestLoadSearchPathFile(t *testing.T) {
	opts, dir := isolated(t)
	writeFile(t, filepath.Join(dir, "ws101.yaml"), `
server:
  addr: ":9090"
  session_idle: 5m
market:
  timeout: 3s
journal:
  dsn: /tmp/journal.db
`)

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Server.SessionIdle)
	assert.Equal(t, 3*time.Second, cfg.Market.Timeout)
	assert.Equal(t, "/tmp/journal.db", cfg.Journal.DSN)
	assert.Equal(t, "release", cfg.Server.Mode, "unset keys keep defaults")
}

func TestLoadExplicitFile(t *testing.T) {
	opts, dir := isolated(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "log:\n  level: debug\n")
	opts.File = path

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	opts, dir := isolated(t)
	opts.File = filepath.Join(dir, "nope.yaml")

	_, err := Load(opts)
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	opts, dir := isolated(t)
	writeFile(t, filepath.Join(dir, "ws101.yaml"), "server:\n  addr: \":9090\"\n")
	t.Setenv("WS101_SERVER_ADDR", ":7070")
	t.Setenv("WS101_MARKET_SHORT_TTL", "2m")

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Market.ShortTTL)
}

func TestLoadDotEnv(t *testing.T) {
	opts, dir := isolated(t)
	writeFile(t, opts.EnvFile, "WS101_JOURNAL_DSN="+filepath.Join(dir, "j.db")+"\nWS101_LOG_LEVEL=warn\n")
	t.Setenv("WS101_LOG_LEVEL", "error")
	t.Cleanup(func() { os.Unsetenv("WS101_JOURNAL_DSN") })

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "j.db"), cfg.Journal.DSN)
	assert.Equal(t, "error", cfg.Log.Level, "process env wins over .env")
}

func TestLoadInvalid(t *testing.T) {
	opts, _ := isolated(t)
	t.Setenv("WS101_SERVER_MODE", "chaos")

	_, err := Load(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.mode")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"zero log size", func(c *Config) { c.Log.MaxSizeMB = 0 }},
		{"no base url", func(c *Config) { c.Market.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.Market.Timeout = 0 }},
		{"zero ttl", func(c *Config) { c.Market.LongTTL = 0 }},
		{"zero rate", func(c *Config) { c.Market.RateLimit = 0 }},
		{"zero idle", func(c *Config) { c.Server.SessionIdle = 0 }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, filepath.Join("/state", "ws101", "ws101.log"), DefaultLogPath())
}
