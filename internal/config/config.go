// Package config loads rl settings from defaults, a YAML file, RL_* env
// variables and bound command-line flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/nikbrunner/rl/internal/storage"
)

// Keys.
const (
	KeyMaxInboxItems  = "max_inbox_items"
	KeyStorageBackend = "storage.backend"
	KeyStoragePath    = "storage.path"
	KeyLogLevel       = "log_level"
	KeyFetchEnabled   = "fetch.enabled"
	KeyFetchTimeout   = "fetch.timeout"
	KeyFetchRetryMax  = "fetch.retry_max"
	KeyFetchUserAgent = "fetch.user_agent"
	KeyFetchDebounce  = "fetch.debounce"
	KeyServerAddr     = "server.addr"
)

// EnvPrefix is prepended to environment overrides, e.g. RL_STORAGE_BACKEND.
const EnvPrefix = "RL"

type Config struct {
	MaxInboxItems int
	Storage       StorageConfig
	LogLevel      string
	Fetch         FetchConfig
	Server        ServerConfig
}

type StorageConfig struct {
	Backend string // "sqlite" | "json"
	Path    string
}

type FetchConfig struct {
	Enabled   bool
	Timeout   time.Duration
	RetryMax  int
	UserAgent string
	Debounce  time.Duration
}

type ServerConfig struct {
	Addr string
}

// Dir returns the rl configuration directory, ~/.config/rl.
func Dir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	return filepath.Join(home, ".config", "rl"), nil
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMaxInboxItems, 5)
	v.SetDefault(KeyStorageBackend, storage.BackendSQLite)
	v.SetDefault(KeyStoragePath, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyFetchEnabled, true)
	v.SetDefault(KeyFetchTimeout, 10*time.Second)
	v.SetDefault(KeyFetchRetryMax, 2)
	v.SetDefault(KeyFetchUserAgent, "rl/1.0")
	v.SetDefault(KeyFetchDebounce, 500*time.Millisecond)
	v.SetDefault(KeyServerAddr, "127.0.0.1:8787")
}

// New returns a viper instance with defaults and env overrides wired.
// When file is empty, config.yaml in Dir is used if it exists.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		path, err := homedir.Expand(file)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		MaxInboxItems: v.GetInt(KeyMaxInboxItems),
		Storage: StorageConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(KeyStorageBackend))),
			Path:    strings.TrimSpace(v.GetString(KeyStoragePath)),
		},
		LogLevel: v.GetString(KeyLogLevel),
		Fetch: FetchConfig{
			Enabled:   v.GetBool(KeyFetchEnabled),
			Timeout:   v.GetDuration(KeyFetchTimeout),
			RetryMax:  v.GetInt(KeyFetchRetryMax),
			UserAgent: v.GetString(KeyFetchUserAgent),
			Debounce:  v.GetDuration(KeyFetchDebounce),
		},
		Server: ServerConfig{
			Addr: v.GetString(KeyServerAddr),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	if cfg.Storage.Path == "" {
		dir, err := Dir()
		if err != nil {
			return Config{}, err
		}
		cfg.Storage.Path = filepath.Join(dir, defaultFileName(cfg.Storage.Backend))
	} else {
		path, err := homedir.Expand(cfg.Storage.Path)
		if err != nil {
			return Config{}, err
		}
		cfg.Storage.Path = path
	}

	return cfg, nil
}

// Validate rejects settings that would change behaviour in surprising ways.
func (c Config) Validate() error {
	if c.MaxInboxItems <= 0 {
		return fmt.Errorf("%s must be a positive integer, got %d", KeyMaxInboxItems, c.MaxInboxItems)
	}
	switch c.Storage.Backend {
	case storage.BackendSQLite, storage.BackendJSON:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", KeyStorageBackend, storage.BackendSQLite, storage.BackendJSON, c.Storage.Backend)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyFetchTimeout)
	}
	if c.Fetch.RetryMax < 0 {
		return fmt.Errorf("%s must not be negative", KeyFetchRetryMax)
	}
	if c.Fetch.Debounce < 0 {
		return fmt.Errorf("%s must not be negative", KeyFetchDebounce)
	}
	return nil
}

func defaultFileName(backend string) string {
	if backend == storage.BackendJSON {
		return "items.json"
	}
	return "items.db"
}
