package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Setenv("TEST_UNDRSTND_KEY", "sk-from-env")
	path := writeFile(t, `
server:
  addr: ":9090"
  request_timeout: 30s
provider:
  base_url: https://proxy.local/v1
  api_key: ${TEST_UNDRSTND_KEY}
  model: open-mistral-7b
  safe_prompt: true
cache:
  backend: none
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "https://proxy.local/v1", cfg.Provider.BaseURL)
	assert.Equal(t, "sk-from-env", cfg.Provider.APIKey)
	assert.Equal(t, "open-mistral-7b", cfg.Provider.Model)
	assert.True(t, cfg.Provider.SafePrompt)
	assert.Equal(t, "none", cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	path := writeFile(t, "provider:\n  model: open-mistral-7b\n")
	t.Setenv("UNDRSTND__PROVIDER__MODEL", "mistral-large-latest")
	t.Setenv("UNDRSTND__CACHE__BACKEND", "redis")
	t.Setenv("UNDRSTND__CACHE__REDIS_ADDR", "localhost:6379")
	t.Setenv("UNDRSTND__CACHE__CLEANUP_INTERVAL", "30s")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mistral-large-latest", cfg.Provider.Model)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "localhost:6379", cfg.CacheStoreConfig().RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.CacheStoreConfig().CleanupInterval)
}

func TestLoadFile_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "mistral-small-latest", cfg.Provider.Model)
	assert.Equal(t, "memory", cfg.Cache.Backend)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"defaults", Config{}.WithDefaults(), true},
		{"redis without addr", Config{Cache: CacheConfig{Backend: "redis"}}.WithDefaults(), false},
		{"unknown backend", Config{Cache: CacheConfig{Backend: "disk"}}.WithDefaults(), false},
		{"bad retries", Config{Provider: ProviderConfig{MaxRetries: -2}}.WithDefaults(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestResolveEnvString(t *testing.T) {
	t.Setenv("TEST_UNDRSTND_X", "x")
	assert.Equal(t, "a-x-b", resolveEnvString("a-${TEST_UNDRSTND_X}-b"))
	assert.Equal(t, "${TEST_UNDRSTND_UNSET}", resolveEnvString("${TEST_UNDRSTND_UNSET}"))
}
