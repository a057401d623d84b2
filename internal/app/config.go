package app

import (
	"errors"
	"fmt"
)

const (
	DefaultModulesFile  = "conf/modules.hcl"
	DefaultSettingsFile = "conf/settings.hcl"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModulesFile  string `mapstructure:"modules-file"`
	SettingsFile string `mapstructure:"settings-file"` // empty: keep defaults
	SaveSettings bool   `mapstructure:"save-settings"`

	LogFormat       string `mapstructure:"log-format"`
	LogLevel        string `mapstructure:"log-level"`
	HealthcheckPort int    `mapstructure:"healthcheck-port"`
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModulesFile == "" {
		return nil, errors.New("ModulesFile is a required configuration field and cannot be empty")
	}
	if cfg.SaveSettings && cfg.SettingsFile == "" {
		return nil, errors.New("SaveSettings requires SettingsFile to be set")
	}

	switch cfg.LogFormat {
	case logFormatText, logFormatJSON:
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
