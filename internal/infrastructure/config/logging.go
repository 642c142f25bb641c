package config

// LoggingConfig picks where the client's slog output goes. The dashboard owns
// the terminal, so "play" forces Output to "file".
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`

	// adds file:line to every record
	IncludeCaller bool `mapstructure:"include_caller"`
}
