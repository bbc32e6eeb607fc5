// Package app wires the study deck components from a Config.
package app

import (
	"fmt"
	"io"

	"github.com/conorfennell/studydeck/internal/config"
	"github.com/conorfennell/studydeck/internal/flashcards"
	"github.com/conorfennell/studydeck/internal/generator"
	"github.com/conorfennell/studydeck/internal/importer"
	"github.com/conorfennell/studydeck/internal/plan"
	"github.com/conorfennell/studydeck/internal/quiz"
	"github.com/conorfennell/studydeck/internal/results"
	"github.com/conorfennell/studydeck/internal/stats"
	"github.com/conorfennell/studydeck/internal/storage"
)

// App holds one instance of every component.
type App struct {
	Config    *config.Config
	Store     storage.Store
	Cards     *flashcards.Repository
	Plan      *plan.Repository
	Results   *results.Log
	Quiz      *quiz.Engine
	Stats     *stats.Aggregator
	Generator *generator.Generator
	Importer  *importer.Importer

	closer io.Closer
}

// New opens the configured document backend and builds the components on it.
// Import progress is written to progress.
func New(cfg *config.Config, progress io.Writer) (*App, error) {
	a := &App{Config: cfg}

	switch cfg.Backend {
	case "sqlite":
		db, err := storage.Open(cfg.Resolve(cfg.SQLitePath))
		if err != nil {
			return nil, err
		}
		a.Store = db
		a.closer = db
	case "file":
		a.Store = storage.NewFileStore(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	a.Cards = flashcards.New(a.Store, cfg.CardsFile)
	a.Plan = plan.New(a.Store, cfg.PlanFile)
	a.Results = results.New(cfg.Resolve(cfg.ResultsFile))
	a.Quiz = quiz.New(a.Cards, a.Results)
	a.Stats = stats.New(a.Results)
	a.Generator = generator.New(a.Cards)
	a.Importer = importer.New(a.Cards, cfg.Resolve(cfg.ReposDir), progress)
	return a, nil
}

// Generate adds cards for the concepts file. The concepts file is read from
// DataDir whichever backend holds the cards.
func (a *App) Generate(perTerm int) (int, error) {
	concepts, err := generator.LoadConcepts(storage.NewFileStore(a.Config.DataDir), a.Config.ConceptsFile)
	if err != nil {
		return 0, err
	}
	return a.Generator.Generate(concepts, perTerm)
}

// Dedupe rewrites the card collection without duplicates after backing it up.
func (a *App) Dedupe() (before, after int, err error) {
	return a.Cards.Dedupe(a.Config.CardsBackupFile)
}

// BackupLocation describes where Dedupe writes its backup.
func (a *App) BackupLocation() string {
	if fs, ok := a.Store.(*storage.FileStore); ok {
		return fs.Path(a.Config.CardsBackupFile)
	}
	return fmt.Sprintf("document %s in %s", a.Config.CardsBackupFile, a.Config.Resolve(a.Config.SQLitePath))
}

// Close releases the document backend.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
