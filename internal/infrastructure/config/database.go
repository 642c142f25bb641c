package config

import "time"

// DatabaseConfig locates the session store. The default is a sqlite file in
// the state directory; a postgres URL lets several machines share one login.
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`

	// postgres only, e.g. postgresql://sc:secret@db:5432/spaceconquest
	URL string `mapstructure:"url" validate:"required_if=Type postgres"`

	// sqlite only; ":memory:" keeps the session for the life of the process
	Path string `mapstructure:"path" validate:"required_if=Type sqlite"`

	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// InMemory reports whether the store is lost when the process exits.
func (d DatabaseConfig) InMemory() bool {
	return d.Type == "sqlite" && d.Path == ":memory:"
}
