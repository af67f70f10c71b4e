// Package config loads the proxy configuration from an optional YAML file and
// UNDRSTND__ environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	kenv "github.com/knadh/koanf/providers/env"
	kfile "github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/undrstnd-labs/undrstnd-go/internal/cache"
	"github.com/undrstnd-labs/undrstnd-go/provider"
)

// Env names read by Load.
const (
	PathEnv   = "UNDRSTND_CONFIG_PATH"
	EnvPrefix = "UNDRSTND__"
)

// Config is the root of the proxy configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Provider ProviderConfig `koanf:"provider"`
	Cache    CacheConfig    `koanf:"cache"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr           string        `koanf:"addr"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
}

// ProviderConfig configures the upstream API.
type ProviderConfig struct {
	// Legacy selects the deprecated Mistral facade (MISTRAL_API_KEY, api.mistral.ai).
	Legacy     bool          `koanf:"legacy"`
	BaseURL    string        `koanf:"base_url"`
	APIKey     string        `koanf:"api_key"`
	Model      string        `koanf:"model"`
	SafePrompt bool          `koanf:"safe_prompt"`
	MaxRetries int           `koanf:"max_retries"`
	Timeout    time.Duration `koanf:"timeout"`
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	Backend         string        `koanf:"backend"`
	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"` // memory backend sweep period
	Prefix          string        `koanf:"prefix"`
	RedisAddr       string        `koanf:"redis_addr"`
	RedisDB         int           `koanf:"redis_db"`
	RedisPassword   string        `koanf:"redis_password"`
}

// LogConfig configures logging.
type LogConfig struct {
	Env   string `koanf:"env"`
	Level string `koanf:"level"`
}

// Load reads UNDRSTND_CONFIG_PATH (default config.yaml) and the environment.
func Load() (*Config, error) {
	path := os.Getenv(PathEnv)
	if path == "" {
		path = "config.yaml"
	}
	return LoadFile(path)
}

// LoadFile reads path, which may be missing, then applies env overrides such as
// UNDRSTND__PROVIDER__API_KEY. Defaults are applied and the result validated.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(kfile.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}

	if err := k.Load(kenv.Provider(EnvPrefix, "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.resolveEnvVars()
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WithDefaults returns a copy with defaults applied.
func (c Config) WithDefaults() Config {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = 120 * time.Second
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Provider.Model == "" {
		c.Provider.Model = provider.MistralSmallLatest
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = cache.BackendMemory
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "undrstnd"
	}
	return c
}

// Validate checks fields that have no usable default.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case cache.BackendMemory, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("config: cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("config: unknown cache.backend %q", c.Cache.Backend)
	}
	if c.Provider.MaxRetries < -1 {
		return errors.New("config: provider.max_retries must be >= -1")
	}
	return nil
}

// CacheStoreConfig maps the cache section onto cache.Config.
func (c Config) CacheStoreConfig() cache.Config {
	return cache.Config{
		Backend:         c.Cache.Backend,
		TTL:             c.Cache.TTL,
		CleanupInterval: c.Cache.CleanupInterval,
		Prefix:          c.Cache.Prefix,
		RedisAddr:       c.Cache.RedisAddr,
		RedisDB:         c.Cache.RedisDB,
		RedisPass:       c.Cache.RedisPassword,
	}
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func (c *Config) resolveEnvVars() {
	for _, s := range []*string{
		&c.Provider.APIKey, &c.Provider.BaseURL, &c.Provider.Model,
		&c.Cache.RedisAddr, &c.Cache.RedisPassword,
	} {
		*s = resolveEnvString(*s)
	}
}

// resolveEnvString replaces ${VAR} with its value, leaving unknown variables as is.
func resolveEnvString(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		if value := os.Getenv(match[2 : len(match)-1]); value != "" {
			return value
		}
		return match
	})
}
