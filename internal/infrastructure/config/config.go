package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is everything the client reads at startup.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Actions  ActionsConfig  `mapstructure:"actions"`
	UI       UIConfig       `mapstructure:"ui"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// envKeys are bound up front; viper ignores SC_* variables for keys that no
// config file mentioned.
var envKeys = []string{
	"server.base_url", "server.timeout",
	"server.rate_limit.requests", "server.rate_limit.burst",
	"server.retry.max_attempts", "server.retry.backoff_base",
	"sync.poll_interval", "sync.countdown_tick",
	"actions.submit_timeout", "actions.toast_ttl",
	"ui.reveal_interval", "ui.refresh_fps", "ui.pid_file",
	"database.type", "database.url", "database.path",
	"database.max_open_conns", "database.conn_max_lifetime",
	"logging.level", "logging.format", "logging.output", "logging.file_path", "logging.include_caller",
	"metrics.enabled", "metrics.host", "metrics.port", "metrics.path",
}

// LoadConfig layers SC_* environment variables over the config file over the
// built-in defaults. An empty configPath searches ., ./configs, the state
// directory and /etc/spaceconquest for config.yaml. A .env file in the
// working directory is loaded first when present.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// DATABASE_URL alone is enough to move the session store to postgres
	if url := os.Getenv("DATABASE_URL"); url != "" {
		v.Set("database.url", url)
		if v.GetString("database.type") == "" {
			v.Set("database.type", "postgres")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	SetDefaults(cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range searchPath() {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("SC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

func searchPath() []string {
	dirs := []string{".", "./configs"}
	if state, err := StateDir(); err == nil {
		dirs = append(dirs, state)
	}
	return append(dirs, "/etc/spaceconquest")
}

// DefaultConfig is the configuration used when nothing is set anywhere.
func DefaultConfig() *Config {
	cfg := &Config{}
	SetDefaults(cfg)
	return cfg
}
