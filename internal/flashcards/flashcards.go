// Package flashcards owns the collection of question-answer cards.
package flashcards

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/studydeck/internal/domain"
	"github.com/conorfennell/studydeck/internal/knol"
	"github.com/conorfennell/studydeck/internal/storage"
)

var validate = validator.New()

// Repository reads and rewrites the whole cards document on every call.
type Repository struct {
	store storage.Store
	name  string
}

// New returns a repository over the document called name in store.
func New(store storage.Store, name string) *Repository {
	return &Repository{store: store, name: name}
}

// Add trims question and answer, appends the card and persists the collection.
func (r *Repository) Add(question, answer string, tags []string) (domain.Card, error) {
	card := domain.Card{
		Question: strings.TrimSpace(question),
		Answer:   strings.TrimSpace(answer),
		Tags:     tags,
	}
	if card.Tags == nil {
		card.Tags = []string{}
	}
	if err := validate.Struct(card); err != nil {
		return domain.Card{}, fmt.Errorf("%w: both question and answer must have content", domain.ErrValidation)
	}

	cards, err := r.List()
	if err != nil {
		return domain.Card{}, err
	}
	cards = append(cards, card)
	if err := r.store.Save(r.name, cards); err != nil {
		return domain.Card{}, err
	}
	slog.Debug("Card added", "hash", knol.Hash(card), "total", len(cards))
	return card, nil
}

// List returns every stored card, or an empty slice when none were saved.
func (r *Repository) List() ([]domain.Card, error) {
	cards := []domain.Card{}
	if _, err := r.store.Load(r.name, &cards); err != nil {
		if errors.Is(err, domain.ErrFormat) {
			return nil, fmt.Errorf("%s must be a list of cards: %w", r.name, err)
		}
		return nil, err
	}
	if cards == nil {
		// A literal null document.
		return nil, fmt.Errorf("%w: %s must be a list of cards", domain.ErrFormat, r.name)
	}
	return cards, nil
}

// Exists reports whether a card with the same normalized question and answer
// is already stored.
func (r *Repository) Exists(question, answer string) (bool, error) {
	cards, err := r.List()
	if err != nil {
		return false, err
	}
	want := knol.Hash(domain.Card{Question: question, Answer: answer})
	for _, c := range cards {
		if knol.Hash(c) == want {
			return true, nil
		}
	}
	return false, nil
}

// Dedupe saves the current collection to backupName, then rewrites it keeping
// only the first card of every identity. Tags of kept cards are trimmed,
// deduplicated and sorted. It returns the card counts before and after.
func (r *Repository) Dedupe(backupName string) (before, after int, err error) {
	cards, err := r.List()
	if err != nil {
		return 0, 0, err
	}
	if err := r.store.Save(backupName, cards); err != nil {
		return 0, 0, fmt.Errorf("failed to write backup: %w", err)
	}

	seen := make(map[string]bool, len(cards))
	unique := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		h := knol.Hash(c)
		if seen[h] {
			slog.Debug("Dropping duplicate card", "hash", h, "question", c.Question)
			continue
		}
		seen[h] = true
		c.Tags = cleanTags(c.Tags)
		unique = append(unique, c)
	}

	if err := r.store.Save(r.name, unique); err != nil {
		return 0, 0, err
	}
	slog.Info("Cards deduplicated", "before", len(cards), "after", len(unique), "backup", backupName)
	return len(cards), len(unique), nil
}

func cleanTags(tags []string) []string {
	set := make(map[string]bool, len(tags))
	out := []string{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || set[t] {
			continue
		}
		set[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
