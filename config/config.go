package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	JWT struct {
		Secret        string `yaml:"secret"`
		ExpiryMinutes int    `yaml:"expiryMinutes"`
	} `yaml:"jwt"`

	Push struct {
		Endpoint string `yaml:"endpoint"` // Expo push API, empty disables the relay
	} `yaml:"push"`

	Decay struct {
		HungerPerHour      float64 `yaml:"hungerPerHour"`
		StarvingHealthLoss float64 `yaml:"starvingHealthLoss"`
	} `yaml:"decay"`

	Scheduler struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"scheduler"`
}

// LoadConfig reads the configuration file and fills in defaults for the
// decay rates and token expiry when the file leaves them out.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	if cfg.Decay.HungerPerHour <= 0 {
		cfg.Decay.HungerPerHour = 0.05
	}
	if cfg.Decay.StarvingHealthLoss <= 0 {
		cfg.Decay.StarvingHealthLoss = 0.05
	}
	if cfg.JWT.ExpiryMinutes <= 0 {
		cfg.JWT.ExpiryMinutes = 60
	}

	return &cfg, nil
}
