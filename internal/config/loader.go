package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Load reads configuration from a YAML file and environment variables,
// with ENV > YAML > defaults (env-default tags). The file path comes from
// CONFIG_PATH, falling back to "./config.yaml"; when neither exists the
// service runs on ENV + defaults alone, which is the common deployment
// (a DSN in the environment and everything else defaulted).
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	fromEnv := path != ""
	if !fromEnv {
		path = "./config.yaml"
	}

	switch _, err := os.Stat(path); {
	case err == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case fromEnv:
		// An explicitly requested file must exist.
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
