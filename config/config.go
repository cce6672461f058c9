// Package config loads tcgen's runtime configuration and the versioned
// rule tables that drive the normalization, classification, coverage, and
// generation stages.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the tcgen service. Every value has a
// default, can be set in config.yaml, and can be overridden via TCGEN_*
// environment variables.
type Config struct {
	Server struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"server"`

	RateLimit struct {
		RequestsPerSecond float64 `mapstructure:"requests_per_second"`
		Burst             int     `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`

	Generator struct {
		// Version is stamped into every audit log.
		Version string `mapstructure:"version"`
		// ModelReference identifies the rule engine revision; there is no
		// learned model behind generation.
		ModelReference string `mapstructure:"model_reference"`
		// DeterminismSeed is carried through into every generated test
		// case. Generation never introduces fresh randomness.
		DeterminismSeed int64 `mapstructure:"determinism_seed"`
	} `mapstructure:"generator"`

	Classifier struct {
		// SecondaryThreshold is the minimum raw score a non-primary
		// dimension needs to be reported as a secondary class.
		SecondaryThreshold int `mapstructure:"secondary_threshold"`
	} `mapstructure:"classifier"`

	Output struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"output"`
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("rate_limit.requests_per_second", 10.0)
	viper.SetDefault("rate_limit.burst", 20)
	viper.SetDefault("generator.version", "1.0.0")
	viper.SetDefault("generator.model_reference", "rule-based-v1")
	viper.SetDefault("generator.determinism_seed", 42)
	viper.SetDefault("classifier.secondary_threshold", 1)
	viper.SetDefault("output.dir", "./output")
}

// LoadConfig reads configuration from config.yaml (current directory or
// ./config), falling back to defaults and TCGEN_* environment variables.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()
	viper.SetEnvPrefix("TCGEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, will use defaults and env vars
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit requests_per_second must be positive")
	}
	if c.Classifier.SecondaryThreshold < 1 {
		return fmt.Errorf("classifier secondary_threshold must be at least 1")
	}
	if c.Generator.Version == "" {
		return fmt.Errorf("generator version is required")
	}
	return nil
}

// Default returns a Config populated with defaults only, for tests and
// library callers that do not read config files.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8000
	cfg.RateLimit.RequestsPerSecond = 10.0
	cfg.RateLimit.Burst = 20
	cfg.Generator.Version = "1.0.0"
	cfg.Generator.ModelReference = "rule-based-v1"
	cfg.Generator.DeterminismSeed = 42
	cfg.Classifier.SecondaryThreshold = 1
	cfg.Output.Dir = "./output"
	return cfg
}
