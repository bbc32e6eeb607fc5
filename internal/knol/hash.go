package knol

import (
	"crypto/sha256"
	"fmt"
	"math"
	"strings"

	"github.com/conorfennell/studydeck/internal/domain"
)

// Normalize trims, lowercases and collapses every run of whitespace
// (including line breaks) into a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Identity is the structural identity of a card: its normalized question and
// answer. Tags take no part in it.
type Identity struct {
	Question string
	Answer   string
}

// IdentityOf returns the identity of a question-answer pair.
func IdentityOf(question, answer string) Identity {
	return Identity{Question: Normalize(question), Answer: Normalize(answer)}
}

// CardIdentity returns the identity of card.
func CardIdentity(card domain.Card) Identity {
	return IdentityOf(card.Question, card.Answer)
}

// Hash returns the SHA-256 hex digest of the card's identity.
// Two cards hash equally iff they are duplicates of each other.
func Hash(card domain.Card) string {
	id := CardIdentity(card)
	// Joined with a newline, which Normalize never leaves in either part.
	hashBytes := sha256.Sum256([]byte(id.Question + "\n" + id.Answer))
	return fmt.Sprintf("%x", hashBytes)
}

// Percent returns 100*part/whole rounded to the nearest integer, ties to even.
// A zero whole yields 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.RoundToEven(100 * float64(part) / float64(whole)))
}
