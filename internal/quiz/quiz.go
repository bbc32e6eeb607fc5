// Package quiz asks one random card at a time and logs the attempt.
package quiz

import (
	"math/rand/v2"
	"time"

	"github.com/conorfennell/studydeck/internal/domain"
	"github.com/conorfennell/studydeck/internal/knol"
)

// CardLister is satisfied by flashcards.Repository.
type CardLister interface {
	List() ([]domain.Card, error)
}

// Recorder is satisfied by results.Log.
type Recorder interface {
	Append(a domain.Attempt) error
}

// AnswerFunc presents a question and returns the raw answer typed for it.
type AnswerFunc func(question string) (string, error)

// Outcome is the result of one quiz question.
type Outcome struct {
	Asked   bool
	Correct bool
	Card    domain.Card
	Given   string
}

// Engine draws cards and grades answers.
type Engine struct {
	cards CardLister
	log   Recorder
	rng   *rand.Rand
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used to draw cards.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock sets the clock used to timestamp attempts.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an engine drawing from cards and recording to log.
func New(cards CardLister, log Recorder, opts ...Option) *Engine {
	e := &Engine{
		cards: cards,
		log:   log,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Draw picks one card uniformly at random. It returns false when the
// collection is empty.
func (e *Engine) Draw() (domain.Card, bool, error) {
	cards, err := e.cards.List()
	if err != nil {
		return domain.Card{}, false, err
	}
	if len(cards) == 0 {
		return domain.Card{}, false, nil
	}
	return cards[e.rng.IntN(len(cards))], true, nil
}

// Grade compares given with the card's answer after normalization and logs
// the attempt with the original question, expected and given text.
func (e *Engine) Grade(card domain.Card, given string) (domain.Attempt, error) {
	a := domain.Attempt{
		Timestamp: e.now().Truncate(time.Second),
		Question:  card.Question,
		Expected:  card.Answer,
		Given:     given,
		Correct:   knol.Normalize(given) == knol.Normalize(card.Answer),
	}
	if err := e.log.Append(a); err != nil {
		return a, err
	}
	return a, nil
}

// Once draws a card, asks it through answer and grades the reply. With no
// cards it returns an outcome with Asked false and logs nothing.
func (e *Engine) Once(answer AnswerFunc) (Outcome, error) {
	card, ok, err := e.Draw()
	if err != nil || !ok {
		return Outcome{}, err
	}
	given, err := answer(card.Question)
	if err != nil {
		return Outcome{}, err
	}
	a, err := e.Grade(card, given)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Asked: true, Correct: a.Correct, Card: card, Given: given}, nil
}
