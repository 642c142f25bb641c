package config

// MetricsConfig exposes the client's Prometheus registry while the dashboard
// runs. One-shot commands never start the listener.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

func (m MetricsConfig) Address() string {
	return joinHostPort(m.Host, m.Port)
}
