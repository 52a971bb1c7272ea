package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"wlog/internal/logger"
)

// Config holds all application configuration
type Config struct {
	// Home is the storage root holding config.json, clients/ and logos/.
	Home string `mapstructure:"home"`
	// OutputDir receives generated PDF and XLSX files.
	OutputDir string `mapstructure:"output_dir"`
	// CompressPDF enables stream compression in generated documents.
	CompressPDF bool `mapstructure:"compress_pdf"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
	Output     string `mapstructure:"output"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnvVars(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Home == "" {
		home, err := defaultHome()
		if err != nil {
			return nil, err
		}
		cfg.Home = home
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", ".")
	v.SetDefault("compress_pdf", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.time_format", time.RFC3339)
	v.SetDefault("log.output", "stderr")
}

func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("home", "WLOG_HOME")
	_ = v.BindEnv("output_dir", "WLOG_OUTPUT_DIR")
	_ = v.BindEnv("compress_pdf", "WLOG_COMPRESS_PDF")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "LOG_FORMAT")
	_ = v.BindEnv("log.time_format", "LOG_TIME_FORMAT")
	_ = v.BindEnv("log.output", "LOG_OUTPUT")
}

// defaultHome is the only place the user's home directory is consulted.
func defaultHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve storage root: %w", err)
	}
	return filepath.Join(dir, ".wlog"), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Home == "" {
		return fmt.Errorf("home is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		TimeFormat: c.Log.TimeFormat,
		Output:     c.Log.Output,
	}
}
