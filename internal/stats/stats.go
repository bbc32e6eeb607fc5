// Package stats summarizes the quiz result log.
package stats

import (
	"github.com/conorfennell/studydeck/internal/domain"
	"github.com/conorfennell/studydeck/internal/knol"
)

// AttemptReader is satisfied by results.Log.
type AttemptReader interface {
	ReadAll() ([]domain.Attempt, error)
}

// Totals is the aggregate over every logged attempt.
type Totals struct {
	Total     int `json:"total"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Accuracy  int `json:"accuracy"` // percent, 0..100
}

// Aggregator reduces a result log to Totals.
type Aggregator struct {
	log AttemptReader
}

// New returns an aggregator over log.
func New(log AttemptReader) *Aggregator {
	return &Aggregator{log: log}
}

// Totals reads the whole log and counts it.
func (a *Aggregator) Totals() (Totals, error) {
	attempts, err := a.log.ReadAll()
	if err != nil {
		return Totals{}, err
	}
	return Summarize(attempts), nil
}

// Summarize counts attempts. An empty slice yields all zeros.
func Summarize(attempts []domain.Attempt) Totals {
	t := Totals{Total: len(attempts)}
	for _, a := range attempts {
		if a.Correct {
			t.Correct++
		}
	}
	t.Incorrect = t.Total - t.Correct
	t.Accuracy = knol.Percent(t.Correct, t.Total)
	return t
}
