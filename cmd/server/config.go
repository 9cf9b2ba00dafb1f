package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/phrazzld/cirf-api/internal/config"
)

const (
	// configFileEnv names an optional YAML configuration file.
	configFileEnv = "CIRF_CONFIG_FILE"

	dotEnvFile = ".env"
)

// loadAppConfig loads a .env file when one exists, then the configuration
// from configPath (if set), config.yaml and CIRF_* environment variables.
// Variables already set in the environment win over .env entries.
func loadAppConfig(configPath string) (*config.Config, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", dotEnvFile, err)
	}

	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
