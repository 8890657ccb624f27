package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. CHAT_WIDGET_ENDPOINT
const EnvPrefix = "CHAT_WIDGET"

// Config keys
const (
	ConfigEndpoint = "endpoint"
	ConfigStorage  = "storage"
	ConfigTimeout  = "timeout"
	ConfigVerbose  = "verbose"
)

// Config holds the resolved runtime settings
type Config struct {
	Endpoint string
	Storage  string
	Timeout  time.Duration
	Verbose  bool
}

// DefaultStoragePath returns ~/.chat-widget/storage.db
func DefaultStoragePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".chat-widget", "storage.db"), nil
}

// NewViper returns a viper instance wired for CHAT_WIDGET_* environment overrides
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads settings from v, reading configFile first when set.
// Flags bound into v win over the environment, which wins over the file.
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
		LogDebug("Loaded config from %s", v.ConfigFileUsed())
	}

	cfg := &Config{
		Endpoint: v.GetString(ConfigEndpoint),
		Storage:  v.GetString(ConfigStorage),
		Timeout:  v.GetDuration(ConfigTimeout),
		Verbose:  v.GetBool(ConfigVerbose),
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint must not be empty")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}
	if cfg.Storage == "" {
		path, err := DefaultStoragePath()
		if err != nil {
			return nil, err
		}
		cfg.Storage = path
	}

	return cfg, nil
}
