package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadFromFileAndFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	p := writeConfig(t, `
backend:
  base_url: https://api.example.org
  timeout: 7s
cache:
  gc_time: 2m
logs:
  level: debug
`)
	cfg, err := Load([]string{"--config", p, "--listen-port", "9090"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.org", cfg.Backend.BaseURL)
	assert.Equal(t, 7*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.Cache.GCTime)
	assert.Equal(t, 1024, cfg.Cache.Capacity)
	assert.Equal(t, "9090", cfg.Server.HTTPPort)
	assert.Equal(t, "127.0.0.1:9090", cfg.Listen())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "default", cfg.Session.Slot)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BACKEND_BASE_URL", "http://localhost:4000")
	t.Setenv("CACHE_CAPACITY", "16")
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000", cfg.Backend.BaseURL)
	assert.Equal(t, 16, cfg.Cache.Capacity)
}

func TestValidation(t *testing.T) {
	t.Chdir(t.TempDir())
	cases := map[string]string{
		"no backend":     ``,
		"bad scheme":     "backend:\n  base_url: ftp://x\n",
		"db no secret":   "backend:\n  base_url: http://x\ndatabase:\n  driver: postgres\n  dsn: postgres://u@h/db\n",
		"db no dsn":      "backend:\n  base_url: http://x\ndatabase:\n  driver: mysql\nsession:\n  secret: s3cret\n",
		"unknown driver": "backend:\n  base_url: http://x\ndatabase:\n  driver: oracle\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]string{"--config", writeConfig(t, body)})
			assert.Error(t, err)
		})
	}

	_, err := Load([]string{"--config", writeConfig(t,
		"backend:\n  base_url: http://x\ndatabase:\n  driver: postgres\n  dsn: postgres://u@h/db\nsession:\n  secret: s3cret\n")})
	assert.NoError(t, err)
}

func TestExplicitMissingFileIsAnError(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load([]string{"--config", "/nonexistent/guardhouse.yaml"})
	assert.Error(t, err)
}
