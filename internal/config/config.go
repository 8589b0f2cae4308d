// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads opsboard settings from defaults, opsboard.yaml,
// OPSBOARD_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName    = "opsboard"
	fileName   = appName + ".yaml"
	envPrefix  = appName
	DefaultDSN = "./opsboard.db"
)

// Config is the full application configuration.
type Config struct {
	Database Database `mapstructure:"database" yaml:"database"`
	Language string   `mapstructure:"language" yaml:"language" validate:"omitempty,oneof=en de"`
	Log      Log      `mapstructure:"log" yaml:"log"`
	Security Security `mapstructure:"security" yaml:"security"`
	Users    Users    `mapstructure:"users" yaml:"users"`
}

// Database selects the store backend.
type Database struct {
	Type string `mapstructure:"type" yaml:"type" validate:"required,oneof=sqlite postgres mysql"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn" validate:"required"`
}

// Log configures the process logger.
type Log struct {
	Level string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Security configures credential hashing.
type Security struct {
	HashScheme string `mapstructure:"hash_scheme" yaml:"hash_scheme" validate:"required,oneof=bcrypt sha256"`
	// BcryptCost of zero selects the library default.
	BcryptCost int `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost" validate:"omitempty,min=4,max=31"`
}

// Users configures provisioning.
type Users struct {
	MigrateFile         string `mapstructure:"migrate_file" yaml:"migrate_file"`
	MinSecretLength     int    `mapstructure:"min_secret_length" yaml:"min_secret_length" validate:"min=0"`
	MaxSecretLength     int    `mapstructure:"max_secret_length" yaml:"max_secret_length" validate:"min=0,max=72,gtefield=MinSecretLength"`
	UpgradeLegacyHashes bool   `mapstructure:"upgrade_legacy_hashes" yaml:"upgrade_legacy_hashes"`
}

// Defaults returns the built-in value of every key.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":               "sqlite",
		"database.dsn":                DefaultDSN,
		"language":                    "en",
		"log.level":                   "info",
		"security.hash_scheme":        "bcrypt",
		"security.bcrypt_cost":        0,
		"users.migrate_file":          "",
		"users.min_secret_length":     6,
		"users.max_secret_length":     50,
		"users.upgrade_legacy_hashes": true,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config value for %s: %v", strings.ToLower(fe.Namespace()), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Opsboard")
		default: // Linux, macOS, etc.
			configDir = "/etc/opsboard"
		}
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(dir, appName)
	}
	return filepath.Join(configDir, fileName), nil
}

// LoadConfig builds a T from defaults, the first opsboard.yaml found (or
// configPath when set), the environment and the flags of cmd. flagKeys maps
// flag names to config keys; only changed flags override other sources.
// The returned bool reports whether a config file was read.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configPath *string, flagKeys map[string]string) (T, bool, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	if configPath != nil && *configPath != "" {
		v.SetConfigFile(*configPath)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, false, fmt.Errorf("read config: %w", err)
		}
		found = false
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for flag, key := range flagKeys {
			if f := cmd.Flags().Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return c, found, err
				}
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, found, fmt.Errorf("decode config: %w", err)
	}
	return c, found, nil
}

// WriteConfigFile writes c as YAML to the user (or system) config path and
// returns that path.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}
	return path, WriteConfigFileTo(path, c)
}

// WriteConfigFileTo writes c as YAML to path, creating parent directories.
func WriteConfigFileTo[T any](path string, c *T) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}
	// 0600: the DSN may carry database credentials.
	return os.WriteFile(path, data, 0o600)
}
