package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvConfigFile = "LABSIM_CONFIG"
	EnvPreset     = "LABSIM_PRESET"
	EnvDt         = "LABSIM_DT"
	EnvDuration   = "LABSIM_DURATION"
)

// Env holds the defaults the environment supplies for the CLI's --config and
// --preset flags.
type Env struct {
	ConfigFile string
	Preset     string
}

// LoadEnv reads a .env file from the working directory when one exists, then
// the LABSIM_* variables. Variables already set in the process win over the
// file.
func LoadEnv() Env {
	_ = godotenv.Load()

	return Env{
		ConfigFile: getEnv(EnvConfigFile, ""),
		Preset:     getEnv(EnvPreset, ""),
	}
}

// ApplyEnv overlays LABSIM_DT and LABSIM_DURATION on the driver timing.
func (c *Config) ApplyEnv() error {
	if v, ok, err := getEnvFloat(EnvDt); err != nil {
		return err
	} else if ok {
		c.Dt = v
	}
	if v, ok, err := getEnvFloat(EnvDuration); err != nil {
		return err
	} else if ok {
		c.Duration = v
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string) (float64, bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return f, true, nil
}
