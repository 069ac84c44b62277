package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Directory DirectoryConfig `yaml:"directory"`
	Console   ConsoleConfig   `yaml:"console"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DirectoryConfig lists the users the repository starts with.
type DirectoryConfig struct {
	Seed     []SeedUser `yaml:"seed"`
	SeedFile string     `yaml:"seedFile"`
}

// SeedUser is one initial account. A nil Email means the user has none.
type SeedUser struct {
	Username string  `yaml:"username"`
	Password string  `yaml:"password"`
	Email    *string `yaml:"email"`
}

// ConsoleConfig drives the interactive command console.
type ConsoleConfig struct {
	Prompt string `yaml:"prompt"`
	Echo   bool   `yaml:"echo"`
}

type envOverrides struct {
	LogLevel string  `env:"LOG_LEVEL"`
	SeedFile string  `env:"DIRECTORY_SEED_FILE"`
	Prompt   *string `env:"CONSOLE_PROMPT"`
	Echo     *bool   `env:"CONSOLE_ECHO"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cfg.Directory.SeedFile != "" {
		seed, err := loadSeedFile(cfg.Directory.SeedFile)
		if err != nil {
			return nil, err
		}
		cfg.Directory.Seed = append(cfg.Directory.Seed, seed...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func loadSeedFile(path string) ([]SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed []SeedUser
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return seed, nil
}

func applyEnvOverrides(cfg *Config) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if overrides.LogLevel != "" {
		cfg.Log.Level = overrides.LogLevel
	}
	if overrides.SeedFile != "" {
		cfg.Directory.SeedFile = overrides.SeedFile
	}
	if overrides.Prompt != nil {
		cfg.Console.Prompt = *overrides.Prompt
	}
	if overrides.Echo != nil {
		cfg.Console.Echo = *overrides.Echo
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Console: ConsoleConfig{
			Prompt: "> ",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	for i, user := range c.Directory.Seed {
		if strings.TrimSpace(user.Username) == "" {
			return fmt.Errorf("directory.seed[%d].username cannot be empty", i)
		}
	}
	return nil
}
