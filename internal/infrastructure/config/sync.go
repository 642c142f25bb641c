package config

import "time"

// SyncConfig controls how planet state is kept fresh
type SyncConfig struct {
	// Interval between planet polls
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required"`

	// Interval of local countdown ticks
	CountdownTick time.Duration `mapstructure:"countdown_tick" validate:"required"`
}

// ActionsConfig controls action submission feedback
type ActionsConfig struct {
	// How long an action stays in submitting when no confirming snapshot arrives
	SubmitTimeout time.Duration `mapstructure:"submit_timeout" validate:"required"`

	// How long a toast stays on screen
	ToastTTL time.Duration `mapstructure:"toast_ttl" validate:"required"`
}

// UIConfig controls the terminal dashboard
type UIConfig struct {
	// Delay between revealed combat report lines
	RevealInterval time.Duration `mapstructure:"reveal_interval" validate:"required"`

	// Maximum redraws per second
	RefreshFPS int `mapstructure:"refresh_fps" validate:"min=1,max=60"`

	// Lock file that keeps a second dashboard from polling the same session
	PIDFile string `mapstructure:"pid_file"`
}
