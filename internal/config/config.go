// Package config provides Viper-based configuration loading for the skirmish
// engine and its CLI front ends.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// NarrativeConfig holds settings for the Anthropic-backed combat narrator.
type NarrativeConfig struct {
	// Enabled toggles LLM narration; when false the static narrator is used.
	Enabled bool `mapstructure:"enabled"`
	// Model is the Anthropic model identifier.
	Model string `mapstructure:"model"`
	// MaxTokens caps the narration response length.
	MaxTokens int `mapstructure:"max_tokens"`
	// Timeout bounds each narration request.
	Timeout time.Duration `mapstructure:"timeout"`
}

// GameConfig holds content directories and encounter tuning.
type GameConfig struct {
	// AdversariesDir is the directory of adversary template YAML files.
	AdversariesDir string `mapstructure:"adversaries_dir"`
	// ClassesDir is the directory of character class YAML files.
	ClassesDir string `mapstructure:"classes_dir"`
	// ScriptsDir is the directory of Lua encounter hook scripts.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit caps Lua VM instructions per hook invocation.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Narrative NarrativeConfig `mapstructure:"narrative"`
	Game      GameConfig      `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateNarrative(c.Narrative); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateNarrative(n NarrativeConfig) error {
	if !n.Enabled {
		return nil
	}
	var errs []string
	if n.Model == "" {
		errs = append(errs, "narrative.model must not be empty when narration is enabled")
	}
	if n.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("narrative.max_tokens must be >= 1, got %d", n.MaxTokens))
	}
	if n.Timeout <= 0 {
		errs = append(errs, "narrative.timeout must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.AdversariesDir == "" {
		errs = append(errs, "game.adversaries_dir must not be empty")
	}
	if g.ClassesDir == "" {
		errs = append(errs, "game.classes_dir must not be empty")
	}
	if g.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("game.script_instruction_limit must be >= 0, got %d", g.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "skirmish")
	v.SetDefault("database.password", "skirmish")
	v.SetDefault("database.name", "skirmish")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("narrative.enabled", false)
	v.SetDefault("narrative.model", "claude-3-5-haiku-latest")
	v.SetDefault("narrative.max_tokens", 256)
	v.SetDefault("narrative.timeout", "15s")

	v.SetDefault("game.adversaries_dir", "content/adversaries")
	v.SetDefault("game.classes_dir", "content/classes")
	v.SetDefault("game.scripts_dir", "content/scripts")
	v.SetDefault("game.script_instruction_limit", 1000000)
}
