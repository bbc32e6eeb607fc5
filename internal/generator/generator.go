// Package generator derives flashcards from a list of concepts.
package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/conorfennell/studydeck/internal/domain"
	"github.com/conorfennell/studydeck/internal/storage"
)

// Tag marks every generated card.
const Tag = "auto"

// CardAdder is satisfied by flashcards.Repository.
type CardAdder interface {
	Add(question, answer string, tags []string) (domain.Card, error)
	Exists(question, answer string) (bool, error)
}

// Generator adds concept cards that are not already in the collection.
type Generator struct {
	cards CardAdder
}

// New returns a generator adding to cards.
func New(cards CardAdder) *Generator {
	return &Generator{cards: cards}
}

// LoadConcepts reads the concepts document called name. A missing document
// yields no concepts.
func LoadConcepts(store storage.Store, name string) ([]domain.Concept, error) {
	concepts := []domain.Concept{}
	if _, err := store.Load(name, &concepts); err != nil {
		if errors.Is(err, domain.ErrFormat) {
			return nil, fmt.Errorf("%s must be a list of concepts: %w", name, err)
		}
		return nil, err
	}
	if concepts == nil {
		return nil, fmt.Errorf("%w: %s must be a list of concepts", domain.ErrFormat, name)
	}
	return concepts, nil
}

// Question builds the primary question for term.
func Question(term, lang string) string {
	term = strings.TrimSpace(term)
	if strings.ToLower(strings.TrimSpace(lang)) == "python" {
		return fmt.Sprintf("What is %s in Python?", term)
	}
	return fmt.Sprintf("What is %s?", term)
}

// VariantQuestion builds the extra question generated when more than one card
// per term is requested.
func VariantQuestion(term string) string {
	return fmt.Sprintf("Describe %s briefly", strings.TrimSpace(term))
}

// Generate adds up to perTerm cards for every concept that has both a term
// and a definition, skipping cards whose question and answer already exist.
// It returns the number of cards added.
func (g *Generator) Generate(concepts []domain.Concept, perTerm int) (int, error) {
	added := 0
	for _, c := range concepts {
		term := strings.TrimSpace(c.Term)
		def := strings.TrimSpace(c.Definition)
		if term == "" || def == "" {
			continue
		}
		lang := strings.TrimSpace(c.Lang)
		if lang == "" {
			lang = "unknown"
		}

		questions := []string{Question(term, c.Lang)}
		if perTerm > 1 {
			questions = append(questions, VariantQuestion(term))
		}
		for _, q := range questions {
			ok, err := g.addNew(q, def, lang)
			if err != nil {
				return added, fmt.Errorf("failed to add card for %q: %w", term, err)
			}
			if ok {
				added++
			}
		}
	}
	slog.Info("Generated cards from concepts", "concepts", len(concepts), "added", added)
	return added, nil
}

func (g *Generator) addNew(question, answer, lang string) (bool, error) {
	exists, err := g.cards.Exists(question, answer)
	if err != nil {
		return false, err
	}
	if exists {
		slog.Debug("Skipping duplicate card", "question", question)
		return false, nil
	}
	if _, err := g.cards.Add(question, answer, []string{lang, Tag}); err != nil {
		return false, err
	}
	return true, nil
}
