package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// StateDir is where the client keeps its session database, log and preferences
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".spaceconquest"), nil
}

// stateFile resolves a file under StateDir, falling back to the working directory
func stateFile(name string) string {
	dir, err := StateDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, name)
}

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 10 * time.Second
	}
	if cfg.Server.RateLimit.Requests == 0 {
		cfg.Server.RateLimit.Requests = 10
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = 20
	}
	if cfg.Server.Retry.BackoffBase == 0 {
		cfg.Server.Retry.BackoffBase = 500 * time.Millisecond
	}

	// Sync defaults
	if cfg.Sync.PollInterval == 0 {
		cfg.Sync.PollInterval = 2 * time.Second
	}
	if cfg.Sync.CountdownTick == 0 {
		cfg.Sync.CountdownTick = time.Second
	}

	// Action defaults
	if cfg.Actions.SubmitTimeout == 0 {
		cfg.Actions.SubmitTimeout = 10 * time.Second
	}
	if cfg.Actions.ToastTTL == 0 {
		cfg.Actions.ToastTTL = 4 * time.Second
	}

	// UI defaults
	if cfg.UI.RevealInterval == 0 {
		cfg.UI.RevealInterval = 400 * time.Millisecond
	}
	if cfg.UI.RefreshFPS == 0 {
		cfg.UI.RefreshFPS = 20
	}
	if cfg.UI.PIDFile == "" {
		cfg.UI.PIDFile = stateFile("play.pid")
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = stateFile("session.db")
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 4
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = stateFile("client.log")
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9095
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
