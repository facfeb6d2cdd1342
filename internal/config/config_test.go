package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:8000", c.API.BaseURL)
	require.Equal(t, "memory", c.Cache.Kind)
	require.Equal(t, 10, c.List.PageSize)
	require.Equal(t, time.Duration(0), c.API.Timeout)
	require.False(t, c.Audit.Emit)
	require.Equal(t, 10*time.Minute, c.CacheTTL())
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	p := writeYAML(t, `
api:
  base_url: https://api.example.com/
  timeout: 5s
session:
  file: state/session.json
cache:
  kind: redis
  ttl: 1m
audit:
  emit: true
`)
	t.Setenv("SEVERUS_REDIS_ADDR", "redis:6380")
	t.Setenv("SEVERUS_PAGE_SIZE", "25")

	c, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", c.API.BaseURL)
	require.Equal(t, 5*time.Second, c.API.Timeout)
	require.Equal(t, filepath.Join(filepath.Dir(p), "state", "session.json"), c.Session.File)
	require.Equal(t, "redis", c.Cache.Kind)
	require.Equal(t, "redis:6380", c.Cache.Redis.Addr)
	require.Equal(t, 25, c.List.PageSize)
	require.True(t, c.Audit.Emit)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := writeYAML(t, "api:\n  base_url: http://from-file:8000\n")
	t.Setenv("SEVERUS_API_URL", "http://from-env:9000")

	c, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "http://from-env:9000", c.API.BaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeYAML(t, "cache:\n  kind: memcached\n"))
	require.Error(t, err)

	_, err = Load(writeYAML(t, "api:\n  base_url: not a url\n"))
	require.Error(t, err)

	_, err = Load(writeYAML(t, "api: [\n"))
	require.Error(t, err)
}
