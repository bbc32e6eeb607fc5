package domain

import "time"

// Card represents a single question-answer entry.
// The JSON field names match the cards document on disk.
type Card struct {
	Question string   `json:"q" validate:"required"`
	Answer   string   `json:"a" validate:"required"`
	Tags     []string `json:"tags"`
}

// WeekRecord holds the goals of one study-plan week.
// Done is positionally aligned with Items and always has the same length.
type WeekRecord struct {
	Items []string `json:"items"`
	Done  []bool   `json:"done"`
}

// Attempt records a single answered quiz question.
type Attempt struct {
	Timestamp time.Time
	Question  string
	Expected  string
	Given     string
	Correct   bool
}

// Concept is one entry of the concepts document used by the generator.
type Concept struct {
	Term       string `json:"term"`
	Lang       string `json:"lang"`
	Definition string `json:"def"`
	Hint       string `json:"hint,omitempty"`
}
