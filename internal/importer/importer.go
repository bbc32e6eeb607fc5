// Package importer seeds the card collection from markdown notes kept in a
// local directory or a git repository.
package importer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/studydeck/internal/domain"
	"github.com/conorfennell/studydeck/internal/gitsource"
	"github.com/conorfennell/studydeck/internal/parser"
)

// CardAdder is satisfied by flashcards.Repository.
type CardAdder interface {
	Add(question, answer string, tags []string) (domain.Card, error)
	Exists(question, answer string) (bool, error)
}

// Report summarizes one import run.
type Report struct {
	Files      int
	Parsed     int
	Added      int
	Duplicates int
	Errors     []error
}

// Importer walks markdown files and adds the cards they contain.
type Importer struct {
	cards    CardAdder
	reposDir string
	progress io.Writer
}

// New returns an importer adding to cards. Git sources are checked out under
// reposDir; clone progress is written to progress when it is not nil.
func New(cards CardAdder, reposDir string, progress io.Writer) *Importer {
	return &Importer{cards: cards, reposDir: reposDir, progress: progress}
}

// Import reads every *.md file under source and adds each card not already in
// the collection. Source is a directory or a git URL. Problems with single
// files or cards are collected in the report and the walk continues.
func (im *Importer) Import(ctx context.Context, source string) (Report, error) {
	root := source
	if gitsource.IsURL(source) {
		localPath, err := gitsource.LocalPath(im.reposDir, source)
		if err != nil {
			return Report{}, err
		}
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return Report{}, fmt.Errorf("failed to create repos directory: %w", err)
		}
		if err := gitsource.Sync(ctx, source, localPath, im.progress); err != nil {
			return Report{}, err
		}
		root = localPath
	}

	var report Report
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		report.Files++
		im.importFile(path, &report)
		return ctx.Err()
	})
	if walkErr != nil {
		return report, fmt.Errorf("error walking directory %s: %w", root, walkErr)
	}

	slog.Info("Import complete",
		"source", source,
		"files", report.Files,
		"parsed_cards", report.Parsed,
		"added", report.Added,
		"duplicates", report.Duplicates,
		"errors", len(report.Errors),
	)
	return report, nil
}

func (im *Importer) importFile(path string, report *Report) {
	fileCards, err := parser.ParseFile(path)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, err))
		return
	}
	for _, card := range fileCards {
		report.Parsed++
		exists, err := im.cards.Exists(card.Question, card.Answer)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("checking %s: %w", path, err))
			continue
		}
		if exists {
			report.Duplicates++
			continue
		}
		if _, err := im.cards.Add(card.Question, card.Answer, card.Tags); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("adding card from %s: %w", path, err))
			continue
		}
		slog.Debug("New card imported", "path", path, "question", card.Question)
		report.Added++
	}
}
