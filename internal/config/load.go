package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/logfields"
)

// Load reads configPath, expands ${VAR} references, applies defaults and validates.
// A missing file is a configuration error.
func Load(configPath string) (*Config, error) {
	loadEnvFile(filepath.Dir(configPath))

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(configPath, []byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded configuration", logfields.Path(configPath))
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when configPath
// does not exist. The boolean reports whether a file was read.
func LoadOrDefault(configPath string) (*Config, bool, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		loadEnvFile(filepath.Dir(configPath))
		slog.Debug("No configuration file, using defaults", logfields.Path(configPath))
		return Default(), false, nil
	}
	cfg, err := Load(configPath)
	return cfg, err == nil, err
}

// Parse decodes raw configuration bytes. The format is chosen from the file
// extension: .toml is TOML, anything else is YAML.
func Parse(name string, data []byte) (*Config, error) {
	var cfg Config
	var err error
	if strings.EqualFold(filepath.Ext(name), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").
			Fatal().
			WithContext("path", name).
			Build()
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFile loads the first of .env/.env.local found in dir. Variables that
// are already set in the process environment are never overwritten.
func loadEnvFile(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		envPath := filepath.Join(dir, name)
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("Failed to load environment file", logfields.Path(envPath), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(envPath))
		return
	}
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.History.Enabled = true
	example.Pages.FrontMatter = true

	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		data, err = toml.Marshal(example)
	} else {
		data, err = yaml.Marshal(example)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
