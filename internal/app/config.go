package app

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Override is one caller-supplied hyperparameter assignment, kept in the
// order it was given so later overrides win.
type Override struct {
	Name  string
	Value string
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath     string `env:"TRAINCTL_CONFIG"`
	ParamsFile     string `env:"TRAINCTL_PARAMS"`
	OutputRoot     string `env:"TRAINCTL_OUTPUT_ROOT" envDefault:"checkpoints"`
	TrainerBin     string `env:"TRAINCTL_TRAINER" envDefault:"allennlp"`
	IncludePackage string `env:"TRAINCTL_INCLUDE_PACKAGE" envDefault:"semqa"`

	LogFormat string `env:"TRAINCTL_LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"TRAINCTL_LOG_LEVEL" envDefault:"info"`

	DryRun    bool       `env:"-"`
	Overrides []Override `env:"-"`
}

// FromEnv builds a Config seeded from the process environment, loading a
// .env file first when one exists.
func FromEnv() (Config, error) {
	// A missing .env file is the normal case, not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing launcher environment: %w", err)
	}
	return cfg, nil
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.OutputRoot == "" {
		return nil, errors.New("OutputRoot is a required configuration field and cannot be empty")
	}
	if cfg.TrainerBin == "" {
		return nil, errors.New("TrainerBin is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
