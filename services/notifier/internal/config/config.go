package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	LogLevel           string `yaml:"logLevel"`
	AmqpURL            string `yaml:"amqpURL"`
	NotificationsQueue string `yaml:"notificationsQueue"`
	Concurrency        int    `yaml:"concurrency"`
	TwilioAccountSID   string `yaml:"twilioAccountSID"`
	TwilioAuthToken    string `yaml:"twilioAuthToken"`
	TwilioFromNumber   string `yaml:"twilioFromNumber"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("AMQP_URL"); v != "" {
		cfg.AmqpURL = v
	}
	if v := os.Getenv("TWILIO_ACCOUNT_SID"); v != "" {
		cfg.TwilioAccountSID = v
	}
	if v := os.Getenv("TWILIO_AUTH_TOKEN"); v != "" {
		cfg.TwilioAuthToken = v
	}
	if v := os.Getenv("TWILIO_FROM_NUMBER"); v != "" {
		cfg.TwilioFromNumber = v
	}
	if v := os.Getenv("NOTIFIER_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Concurrency = n
		}
	}
	if cfg.NotificationsQueue == "" {
		cfg.NotificationsQueue = "tapbuddy.notifications"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.Concurrency > 50 {
		cfg.Concurrency = 50
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.AmqpURL == "" {
		return errors.New("config: amqpURL is required (set in config.yaml or AMQP_URL)")
	}
	return nil
}
