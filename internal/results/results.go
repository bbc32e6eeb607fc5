// Package results keeps the append-only CSV log of quiz attempts.
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/conorfennell/studydeck/internal/domain"
)

// TimeLayout is the timestamp format written to the log.
const TimeLayout = "2006-01-02T15:04:05"

// Header lists the log columns in order.
var Header = []string{"timestamp", "question", "expected", "given", "correct"}

// Log is a CSV file of quiz attempts.
type Log struct {
	path string
}

// New returns a log stored at path.
func New(path string) *Log {
	return &Log{path: path}
}

// Append writes one attempt to the end of the log, creating the file with a
// header row on first use.
func (l *Log) Append(a domain.Attempt) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open results log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat results log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("failed to write results header: %w", err)
		}
	}
	correct := "0"
	if a.Correct {
		correct = "1"
	}
	row := []string{a.Timestamp.Format(TimeLayout), a.Question, a.Expected, a.Given, correct}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write result row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush results log: %w", err)
	}
	return f.Close()
}

// ReadAll returns every logged attempt in file order. A missing log yields no
// attempts.
//
// The first row is treated as a header only when it matches the column names
// exactly (ignoring case and surrounding space). Older logs were written
// without a header, so anything else is read as data. A data row that happens
// to equal the header text is misread as a header; that is accepted.
func (l *Log) ReadAll() ([]domain.Attempt, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Attempt{}, nil
		}
		return nil, fmt.Errorf("failed to open results log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	attempts := []domain.Attempt{}
	for line := 0; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read results log: %w", err)
		}
		if line == 0 && isHeader(row) {
			continue
		}
		if len(row) < len(Header) {
			slog.Warn("Skipping short result row", "path", l.path, "fields", len(row))
			continue
		}
		attempts = append(attempts, domain.Attempt{
			Timestamp: parseTime(row[0]),
			Question:  row[1],
			Expected:  row[2],
			Given:     row[3],
			Correct:   IsTruthy(row[4]),
		})
	}
	return attempts, nil
}

func isHeader(row []string) bool {
	if len(row) != len(Header) {
		return false
	}
	for i, cell := range row {
		if strings.ToLower(strings.TrimSpace(cell)) != Header[i] {
			return false
		}
	}
	return true
}

// IsTruthy reports whether a logged correct field marks a correct answer.
func IsTruthy(field string) bool {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "1", "true":
		return true
	}
	return false
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(TimeLayout, s, time.Local); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
