// Package config handles configuration loading for clientdesk.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "CLIENTDESK"

// Config represents the complete application configuration.
type Config struct {
	Backend   BackendConfig   `mapstructure:"backend"   yaml:"backend"   json:"backend"`
	Server    ServerConfig    `mapstructure:"server"    yaml:"server"    json:"server"`
	Auth      AuthConfig      `mapstructure:"auth"      yaml:"auth"      json:"-"`
	Portfolio PortfolioConfig `mapstructure:"portfolio" yaml:"portfolio" json:"portfolio"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"   json:"logging"`
}

// BackendConfig describes the advisory backend the views read from.
type BackendConfig struct {
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"    json:"base_url"`    // e.g., "http://localhost:5000"
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"` // 0 = no timeout
	RateLimit  int    `mapstructure:"rate_limit"  yaml:"rate_limit"  json:"rate_limit"`  // requests per second
	Token      string `mapstructure:"token"       yaml:"token"       json:"-"`           // optional bearer token
}

// Timeout returns the request timeout; zero means requests may wait forever.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(b.TimeoutSec) * time.Second
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"         json:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"         json:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins" json:"cors_origins"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AuthConfig holds the login gate credentials.
type AuthConfig struct {
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
}

// PortfolioConfig controls the portfolio view.
type PortfolioConfig struct {
	// DegradeOnError renders the sections that did load when a secondary
	// fetch (risks, sentiments, satisfaction) fails. The portfolio itself
	// is always required.
	DegradeOnError bool `mapstructure:"degrade_on_error" yaml:"degrade_on_error" json:"degrade_on_error"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  json:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format" json:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.clientdesk/config.yaml (home directory)
//  3. /etc/clientdesk/config.yaml (system)
//
// Environment variables override config file values.
// Format: CLIENTDESK_<SECTION>_<KEY>, e.g., CLIENTDESK_BACKEND_BASE_URL
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".clientdesk"))
	v.AddConfigPath("/etc/clientdesk")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

// Default returns the configuration with only defaults applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// SaveToFile writes cfg as YAML to path, creating parent directories.
func SaveToFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ConfigFilePath returns the default location written by "config init".
func ConfigFilePath() string {
	return filepath.Join("config", "config.yaml")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override sensitive values from environment
	overrideFromEnv(&cfg)

	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Backend defaults
	v.SetDefault("backend.base_url", "http://localhost:5000")
	v.SetDefault("backend.timeout_sec", 0)
	v.SetDefault("backend.rate_limit", 20)
	v.SetDefault("backend.token", "")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})

	// Login gate defaults
	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password", "admin")

	v.SetDefault("portfolio.degrade_on_error", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv(EnvPrefix + "_BACKEND_TOKEN"); key != "" {
		cfg.Backend.Token = key
	}
	if pw := os.Getenv(EnvPrefix + "_AUTH_PASSWORD"); pw != "" {
		cfg.Auth.Password = pw
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
