package config

import "time"

// ServerConfig describes how to reach the game server's REST API.
type ServerConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Retry     RetryConfig     `mapstructure:"retry"`
}

// RateLimitConfig is a token bucket shared by polling and actions, so a burst
// of clicks cannot starve the poller.
type RateLimitConfig struct {
	Requests int `mapstructure:"requests" validate:"min=1"` // per second
	Burst    int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig applies to reads only; a retried action could be applied twice.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=0"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}
