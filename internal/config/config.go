// Package config loads studydeck settings from flags, environment and an
// optional YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "STUDYDECK_"

// Config names every backing location. Document names (cards, plan,
// concepts and backup files) are relative to DataDir.
type Config struct {
	DataDir         string `koanf:"data_dir" validate:"required"`
	CardsFile       string `koanf:"cards_file" validate:"required"`
	CardsBackupFile string `koanf:"cards_backup_file" validate:"required,nefield=CardsFile"`
	PlanFile        string `koanf:"plan_file" validate:"required"`
	ResultsFile     string `koanf:"results_file" validate:"required"`
	ConceptsFile    string `koanf:"concepts_file" validate:"required"`
	Backend         string `koanf:"backend" validate:"required,oneof=file sqlite"`
	SQLitePath      string `koanf:"sqlite_path" validate:"required_if=Backend sqlite"`
	ReposDir        string `koanf:"repos_dir" validate:"required"`
	LogLevel        string `koanf:"log_level" validate:"required,oneof=debug info warn error"`
}

// Flags returns the flag set understood by Load. Flag names use dashes where
// the config keys use underscores.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "studydeck.yaml", "Path to an optional YAML config file")
	fs.String("data-dir", "data", "Directory holding the study data")
	fs.String("cards-file", "flashcards.json", "Cards document name")
	fs.String("cards-backup-file", "flashcards.backup.json", "Backup written before deduplication")
	fs.String("plan-file", "plan.json", "Study plan document name")
	fs.String("results-file", "results.csv", "Quiz results log")
	fs.String("concepts-file", "concepts.json", "Concepts document used by generate")
	fs.String("backend", "file", "Document backend: file or sqlite")
	fs.String("sqlite-path", "studydeck.db", "SQLite database used by the sqlite backend")
	fs.String("repos-dir", "repos", "Directory for git checkouts used by import")
	fs.String("log-level", "info", "Log level: debug, info, warn or error")
	return fs
}

// Load merges, lowest precedence first: flag defaults, the YAML file named by
// --config, STUDYDECK_* environment variables and explicitly set flags. A
// missing config file is ignored unless --config was given explicitly.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path, err := fs.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to read config flag: %w", err)
	}
	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil || fs.Changed("config") {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if f.Name == "config" {
			return "", nil
		}
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Resolve returns p unchanged when it is absolute, otherwise p inside DataDir.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
