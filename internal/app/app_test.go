package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conorfennell/studydeck/internal/config"
	"github.com/conorfennell/studydeck/internal/domain"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:         t.TempDir(),
		CardsFile:       "flashcards.json",
		CardsBackupFile: "flashcards.backup.json",
		PlanFile:        "plan.json",
		ResultsFile:     "results.csv",
		ConceptsFile:    "concepts.json",
		Backend:         backend,
		SQLitePath:      "studydeck.db",
		ReposDir:        "repos",
		LogLevel:        "info",
	}
}

func TestNewBackends(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)
			a, err := New(cfg, nil)
			if err != nil {
				t.Fatalf("New() returned an unexpected error: %v", err)
			}
			defer a.Close()

			if _, err := a.Cards.Add("Capital of France?", "Paris", nil); err != nil {
				t.Fatal(err)
			}
			if _, err := a.Plan.SetGoal(1, []string{"read", "write"}); err != nil {
				t.Fatal(err)
			}
			if _, err := a.Quiz.Grade(mustFirstCard(t, a), "paris"); err != nil {
				t.Fatal(err)
			}

			totals, err := a.Stats.Totals()
			if err != nil {
				t.Fatal(err)
			}
			if totals.Total != 1 || totals.Correct != 1 || totals.Accuracy != 100 {
				t.Errorf("Expected one correct attempt, but got %+v", totals)
			}
			if _, err := os.Stat(filepath.Join(cfg.DataDir, "results.csv")); err != nil {
				t.Errorf("Expected results log inside data dir, but got %v", err)
			}

			_, statErr := os.Stat(filepath.Join(cfg.DataDir, "studydeck.db"))
			if backend == "sqlite" && statErr != nil {
				t.Errorf("Expected sqlite database to be created, but got %v", statErr)
			}
			if backend == "file" && statErr == nil {
				t.Error("Expected no sqlite database for the file backend")
			}
		})
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New(testConfig(t, "postgres"), nil); err == nil {
		t.Error("Expected an error for an unknown backend")
	}
}

func TestGenerateAndDedupe(t *testing.T) {
	cfg := testConfig(t, "file")
	concepts := `[{"term": "int", "lang": "python", "def": "A whole number type"}]`
	if err := os.WriteFile(filepath.Join(cfg.DataDir, "concepts.json"), []byte(concepts), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	added, err := a.Generate(2)
	if err != nil {
		t.Fatalf("Generate() returned an unexpected error: %v", err)
	}
	if added != 2 {
		t.Errorf("Expected 2 generated cards, but got %d", added)
	}

	before, after, err := a.Dedupe()
	if err != nil {
		t.Fatalf("Dedupe() returned an unexpected error: %v", err)
	}
	if before != 2 || after != 2 {
		t.Errorf("Expected 2 cards before and after, but got %d and %d", before, after)
	}
	if _, err := os.Stat(filepath.Join(cfg.DataDir, "flashcards.backup.json")); err != nil {
		t.Errorf("Expected backup file, but got %v", err)
	}
}

func mustFirstCard(t *testing.T, a *App) domain.Card {
	t.Helper()
	cards, err := a.Cards.List()
	if err != nil || len(cards) == 0 {
		t.Fatalf("Expected a stored card, but got %v (%v)", cards, err)
	}
	return cards[0]
}

func TestGenerateReadsConceptsFileWithSQLite(t *testing.T) {
	cfg := testConfig(t, "sqlite")
	concepts := `[{"term": "JOIN", "lang": "sql", "def": "Combines rows"}]`
	if err := os.WriteFile(filepath.Join(cfg.DataDir, "concepts.json"), []byte(concepts), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	added, err := a.Generate(1)
	if err != nil {
		t.Fatalf("Generate() returned an unexpected error: %v", err)
	}
	if added != 1 {
		t.Errorf("Expected 1 generated card from concepts.json, but got %d", added)
	}
	cards, err := a.Cards.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 1 || cards[0].Question != "What is JOIN?" {
		t.Errorf("Expected the generated card in sqlite, but got %+v", cards)
	}
	if _, err := os.Stat(filepath.Join(cfg.DataDir, "flashcards.json")); err == nil {
		t.Error("Expected generated cards to stay out of the JSON files")
	}
}

func TestBackupLocation(t *testing.T) {
	fileCfg := testConfig(t, "file")
	fileApp, err := New(fileCfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer fileApp.Close()
	if got, want := fileApp.BackupLocation(), filepath.Join(fileCfg.DataDir, "flashcards.backup.json"); got != want {
		t.Errorf("Expected backup location %q, but got %q", want, got)
	}

	abs := filepath.Join(t.TempDir(), "backup.json")
	fileCfg.CardsBackupFile = abs
	if got := fileApp.BackupLocation(); got != abs {
		t.Errorf("Expected absolute backup location %q, but got %q", abs, got)
	}

	sqlCfg := testConfig(t, "sqlite")
	sqlApp, err := New(sqlCfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sqlApp.Close()
	want := "document flashcards.backup.json in " + filepath.Join(sqlCfg.DataDir, "studydeck.db")
	if got := sqlApp.BackupLocation(); got != want {
		t.Errorf("Expected backup location %q, but got %q", want, got)
	}
}
