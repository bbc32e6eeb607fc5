package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studydeck.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	fs := Flags("test")
	if err := fs.Parse([]string{"--config", ""}); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load() returned an unexpected error: %v", err)
	}
	expected := Config{
		DataDir:         "data",
		CardsFile:       "flashcards.json",
		CardsBackupFile: "flashcards.backup.json",
		PlanFile:        "plan.json",
		ResultsFile:     "results.csv",
		ConceptsFile:    "concepts.json",
		Backend:         "file",
		SQLitePath:      "studydeck.db",
		ReposDir:        "repos",
		LogLevel:        "info",
	}
	if *cfg != expected {
		t.Errorf("Expected %+v, but got %+v", expected, *cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeYAML(t, "data_dir: from-file\nplan_file: file-plan.json\nbackend: sqlite\nlog_level: warn\n")
	t.Setenv("STUDYDECK_PLAN_FILE", "env-plan.json")
	t.Setenv("STUDYDECK_LOG_LEVEL", "error")

	fs := Flags("test")
	if err := fs.Parse([]string{"--config", path, "--log-level", "debug"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load() returned an unexpected error: %v", err)
	}

	if cfg.DataDir != "from-file" {
		t.Errorf("Expected data_dir from file, but got %q", cfg.DataDir)
	}
	if cfg.PlanFile != "env-plan.json" {
		t.Errorf("Expected plan_file from env, but got %q", cfg.PlanFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log_level from flag, but got %q", cfg.LogLevel)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("Expected backend from file, but got %q", cfg.Backend)
	}
	if cfg.CardsFile != "flashcards.json" {
		t.Errorf("Expected cards_file default, but got %q", cfg.CardsFile)
	}
}

func TestLoadValidation(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "Unknown backend", args: []string{"--backend", "postgres"}},
		{name: "Unknown log level", args: []string{"--log-level", "loud"}},
		{name: "Empty data dir", args: []string{"--data-dir", ""}},
		{name: "Backup equals cards", args: []string{"--cards-backup-file", "flashcards.json"}},
		{name: "Sqlite without path", args: []string{"--backend", "sqlite", "--sqlite-path", ""}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fs := Flags("test")
			if err := fs.Parse(append([]string{"--config", ""}, tc.args...)); err != nil {
				t.Fatal(err)
			}
			_, err := Load(fs)
			if err == nil || !strings.Contains(err.Error(), "validation failed") {
				t.Errorf("Expected a validation error, but got %v", err)
			}
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	fs := Flags("test")
	if err := fs.Parse([]string{"--config", missing}); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(fs); err == nil {
		t.Error("Expected an error for an explicitly named missing config file")
	}
}

func TestResolve(t *testing.T) {
	cfg := &Config{DataDir: "data"}
	if got := cfg.Resolve("results.csv"); got != filepath.Join("data", "results.csv") {
		t.Errorf("Expected relative path inside data dir, but got %q", got)
	}
	abs := filepath.Join(t.TempDir(), "results.csv")
	if got := cfg.Resolve(abs); got != abs {
		t.Errorf("Expected absolute path unchanged, but got %q", got)
	}
}

func TestSlogLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for level, expected := range testCases {
		cfg := &Config{LogLevel: level}
		if got := cfg.SlogLevel(); got != expected {
			t.Errorf("SlogLevel() for %q = %v, want %v", level, got, expected)
		}
	}
}
