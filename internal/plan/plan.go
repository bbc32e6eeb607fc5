// Package plan keeps weekly study goals and their completion flags.
//
// The plan document maps a week key to its record:
//
//	{"35": {"items": ["Read chapter 1", "Practice loops"], "done": [true, false]}}
package plan

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/conorfennell/studydeck/internal/domain"
	"github.com/conorfennell/studydeck/internal/knol"
	"github.com/conorfennell/studydeck/internal/storage"
)

// Repository reads and rewrites the whole plan document on every call.
type Repository struct {
	store storage.Store
	name  string
}

// New returns a repository over the document called name in store.
func New(store storage.Store, name string) *Repository {
	return &Repository{store: store, name: name}
}

// WeekKey returns the canonical document key of week.
func WeekKey(week int) string {
	return strconv.Itoa(week)
}

func (r *Repository) load() (map[string]domain.WeekRecord, error) {
	weeks := map[string]domain.WeekRecord{}
	if _, err := r.store.Load(r.name, &weeks); err != nil {
		if errors.Is(err, domain.ErrFormat) {
			return nil, fmt.Errorf("%s must map weeks to {items, done}: %w", r.name, err)
		}
		return nil, err
	}
	if weeks == nil {
		return nil, fmt.Errorf("%w: %s must map weeks to {items, done}", domain.ErrFormat, r.name)
	}
	for key, rec := range weeks {
		if len(rec.Done) != len(rec.Items) {
			slog.Warn("Repairing done flags", "week", key, "items", len(rec.Items), "done", len(rec.Done))
			weeks[key] = repair(rec)
		}
	}
	return weeks, nil
}

// repair pads or truncates Done to the length of Items.
func repair(rec domain.WeekRecord) domain.WeekRecord {
	done := make([]bool, len(rec.Items))
	copy(done, rec.Done)
	rec.Done = done
	if rec.Items == nil {
		rec.Items = []string{}
	}
	return rec
}

// SetGoal replaces the goals of week with the non-empty trimmed items, all
// marked as not done.
func (r *Repository) SetGoal(week int, items []string) (domain.WeekRecord, error) {
	clean := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			clean = append(clean, s)
		}
	}
	if len(clean) == 0 {
		return domain.WeekRecord{}, fmt.Errorf("%w: items must contain at least one non-empty goal", domain.ErrValidation)
	}

	weeks, err := r.load()
	if err != nil {
		return domain.WeekRecord{}, err
	}
	rec := domain.WeekRecord{Items: clean, Done: make([]bool, len(clean))}
	key := WeekKey(week)
	weeks[key] = rec
	if err := r.store.Save(r.name, weeks); err != nil {
		return domain.WeekRecord{}, err
	}
	slog.Info("Goals set", "week", key, "items", len(clean))
	return rec, nil
}

// MarkDone sets the completion flag of the goal at the 0-based index.
func (r *Repository) MarkDone(week int, index int, value bool) (domain.WeekRecord, error) {
	key := WeekKey(week)
	weeks, err := r.load()
	if err != nil {
		return domain.WeekRecord{}, err
	}
	rec, ok := weeks[key]
	if !ok {
		return domain.WeekRecord{}, fmt.Errorf("week %s: %w, set goals first", key, domain.ErrNotFound)
	}
	if index < 0 || index >= len(rec.Items) {
		if len(rec.Items) == 0 {
			return domain.WeekRecord{}, fmt.Errorf("%w: week %s has no goals", domain.ErrIndex, key)
		}
		return domain.WeekRecord{}, fmt.Errorf("%w: index %d is outside 0..%d", domain.ErrIndex, index, len(rec.Items)-1)
	}

	rec.Done[index] = value
	weeks[key] = rec
	if err := r.store.Save(r.name, weeks); err != nil {
		return domain.WeekRecord{}, err
	}
	slog.Info("Goal marked", "week", key, "index", index, "done", value)
	return rec, nil
}

// Progress returns the percentage of done goals for week. Missing weeks and
// weeks without goals report 0.
func (r *Repository) Progress(week int) (int, error) {
	rec, ok, err := r.GetWeek(week)
	if err != nil || !ok {
		return 0, err
	}
	done := 0
	for _, d := range rec.Done {
		if d {
			done++
		}
	}
	return knol.Percent(done, len(rec.Items)), nil
}

// GetWeek returns the record of week and whether it exists.
func (r *Repository) GetWeek(week int) (domain.WeekRecord, bool, error) {
	weeks, err := r.load()
	if err != nil {
		return domain.WeekRecord{}, false, err
	}
	rec, ok := weeks[WeekKey(week)]
	return rec, ok, nil
}

// ListWeeks returns every stored week key. Numeric keys come first in numeric
// order, followed by any other keys in lexical order.
func (r *Repository) ListWeeks() ([]string, error) {
	weeks, err := r.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(weeks))
	for k := range weeks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			if a != b {
				return a < b
			}
			return keys[i] < keys[j]
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys, nil
}
