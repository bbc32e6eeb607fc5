// Package menu runs the interactive terminal front end.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/conorfennell/studydeck/internal/domain"
	"github.com/conorfennell/studydeck/internal/quiz"
	"github.com/conorfennell/studydeck/internal/stats"
)

// MaxAttempts bounds how often a single prompt is repeated on bad input.
const MaxAttempts = 5

// ErrTooManyAttempts is returned when a prompt got no valid input.
var ErrTooManyAttempts = errors.New("too many invalid attempts")

// CardAdder is satisfied by flashcards.Repository.
type CardAdder interface {
	Add(question, answer string, tags []string) (domain.Card, error)
}

// Quizzer is satisfied by quiz.Engine.
type Quizzer interface {
	Once(answer quiz.AnswerFunc) (quiz.Outcome, error)
}

// Planner is satisfied by plan.Repository.
type Planner interface {
	SetGoal(week int, items []string) (domain.WeekRecord, error)
	MarkDone(week int, index int, value bool) (domain.WeekRecord, error)
	Progress(week int) (int, error)
	GetWeek(week int) (domain.WeekRecord, bool, error)
	ListWeeks() ([]string, error)
}

// TotalsReader is satisfied by stats.Aggregator.
type TotalsReader interface {
	Totals() (stats.Totals, error)
}

// Menu reads choices from in and writes everything the user sees to out.
type Menu struct {
	cards CardAdder
	quiz  Quizzer
	plan  Planner
	stats TotalsReader

	in  *bufio.Scanner
	out io.Writer
}

// New returns a menu over the given components.
func New(cards CardAdder, q Quizzer, p Planner, s TotalsReader, in io.Reader, out io.Writer) *Menu {
	return &Menu{cards: cards, quiz: q, plan: p, stats: s, in: bufio.NewScanner(in), out: out}
}

// Run shows the main menu until the user exits or input ends. User mistakes
// such as an empty plan are reported and the menu continues; storage errors
// end the run.
func (m *Menu) Run() error {
	for {
		m.printf("\n====== FLASHCARDS ======\n")
		m.printf("1) Add card\n2) Quiz\n3) Study plan\n4) Statistics\n5) Exit\n")
		choice, err := m.prompt("Choice: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = m.addCard()
		case "2":
			err = m.runQuiz()
		case "3":
			err = m.planMenu()
		case "4":
			err = m.showStats()
		case "5":
			m.printf("Bye!\n")
			return nil
		default:
			m.printf("Invalid choice. Enter 1, 2, 3, 4 or 5.\n")
		}
		if err = m.report(err); err != nil {
			return err
		}
	}
}

// report prints user errors and passes everything else through.
func (m *Menu) report(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrIndex),
		errors.Is(err, ErrTooManyAttempts):
		m.printf("Error: %v\n", err)
		return nil
	case errors.Is(err, io.EOF):
		return fmt.Errorf("input ended in the middle of a prompt: %w", err)
	default:
		return err
	}
}

func (m *Menu) addCard() error {
	m.printf("\n--- Add card ---\n")
	q, err := m.promptNonEmpty("Question: ")
	if err != nil {
		return err
	}
	a, err := m.promptNonEmpty("Answer: ")
	if err != nil {
		return err
	}
	rawTags, err := m.prompt("Tags (optional, space separated): ")
	if err != nil {
		return err
	}
	card, err := m.cards.Add(q, a, strings.Fields(rawTags))
	if err != nil {
		return err
	}
	m.printf("Added: %s -> %s %v\n", card.Question, card.Answer, card.Tags)
	return nil
}

func (m *Menu) runQuiz() error {
	m.printf("\n--- Quiz ---\n")
	n, err := m.promptInt("How many questions? (default 3): ", 3)
	if err != nil {
		return err
	}
	return m.Quiz(n)
}

// Quiz asks up to n questions and prints the tally. It stops early when there
// are no cards.
func (m *Menu) Quiz(n int) error {
	asked, correct := 0, 0
	for i := 1; i <= n; i++ {
		m.printf("\n(%d/%d)\n", i, n)
		outcome, err := m.quiz.Once(m.askQuestion)
		if err != nil {
			return err
		}
		if !outcome.Asked {
			m.printf("No cards yet. Add some first.\n")
			break
		}
		asked++
		if outcome.Correct {
			correct++
			m.printf("Correct!\n")
		} else {
			m.printf("Wrong. The answer is: %s\n", outcome.Card.Answer)
		}
	}
	m.printf("\nDone! Correct: %d/%d\n", correct, asked)
	return nil
}

func (m *Menu) askQuestion(question string) (string, error) {
	m.printf("\nQUESTION:\n%s\n", question)
	return m.prompt("\nYour answer: ")
}

func (m *Menu) planMenu() error {
	for {
		m.printf("\n====== STUDY PLAN ======\n")
		m.printf("1) Set goals for a week\n2) Mark an item done\n3) Show progress\n4) Back\n")
		choice, err := m.prompt("Choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = m.setGoals()
		case "2":
			err = m.markItem()
		case "3":
			err = m.showProgress()
		case "4":
			return nil
		default:
			m.printf("Invalid choice.\n")
		}
		if err = m.report(err); err != nil {
			return err
		}
	}
}

func (m *Menu) setGoals() error {
	m.printf("\n--- Study plan: set goals ---\n")
	week, err := m.promptInt("Week (e.g. 35): ", -1)
	if err != nil {
		return err
	}
	raw, err := m.prompt("Goals (comma separated): ")
	if err != nil {
		return err
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		m.printf("No goals given.\n")
		return nil
	}
	rec, err := m.plan.SetGoal(week, items)
	if err != nil {
		return err
	}
	m.printf("Week %d saved:\n", week)
	m.printItems(rec)
	return nil
}

func (m *Menu) markItem() error {
	m.printf("\n--- Study plan: mark done ---\n")
	week, err := m.promptInt("Week: ", -1)
	if err != nil {
		return err
	}
	rec, ok, err := m.plan.GetWeek(week)
	if err != nil {
		return err
	}
	if !ok {
		m.printf("Week does not exist. Set goals first.\n")
		return nil
	}
	m.printItems(rec)
	idx, err := m.promptInt("Index to mark (0-based): ", -1)
	if err != nil {
		return err
	}
	answer, err := m.prompt("Mark as done? (y/n, default y): ")
	if err != nil {
		return err
	}
	rec, err = m.plan.MarkDone(week, idx, strings.ToLower(answer) != "n")
	if err != nil {
		return err
	}
	m.printf("Updated:\n")
	m.printItems(rec)
	return nil
}

func (m *Menu) showProgress() error {
	m.printf("\n--- Study plan: progress ---\n")
	weeks, err := m.plan.ListWeeks()
	if err != nil {
		return err
	}
	if len(weeks) == 0 {
		m.printf("No weeks yet.\n")
		return nil
	}
	m.printf("Available weeks: %s\n", strings.Join(weeks, ", "))
	week, err := m.promptInt("Week to show: ", -1)
	if err != nil {
		return err
	}
	rec, ok, err := m.plan.GetWeek(week)
	if err != nil {
		return err
	}
	if !ok {
		m.printf("Week %d is missing.\n", week)
		return nil
	}
	pct, err := m.plan.Progress(week)
	if err != nil {
		return err
	}
	m.printf("Week %d: %d%% done\n", week, pct)
	m.printItems(rec)
	return nil
}

func (m *Menu) showStats() error {
	m.printf("\n--- Statistics ---\n")
	t, err := m.stats.Totals()
	if err != nil {
		return err
	}
	m.printf("Total:     %d\n", t.Total)
	m.printf("Correct:   %d\n", t.Correct)
	m.printf("Incorrect: %d\n", t.Incorrect)
	m.printf("Accuracy:  %d%%\n", t.Accuracy)
	return nil
}

func (m *Menu) printItems(rec domain.WeekRecord) {
	for i, item := range rec.Items {
		status := "."
		if i < len(rec.Done) && rec.Done[i] {
			status = "x"
		}
		m.printf("  %d: [%s] %s\n", i, status, item)
	}
}

// prompt writes label and returns the next trimmed input line. It returns
// io.EOF when input has ended.
func (m *Menu) prompt(label string) (string, error) {
	m.printf("%s", label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) promptNonEmpty(label string) (string, error) {
	for range MaxAttempts {
		s, err := m.prompt(label)
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
		m.printf("The field must not be empty. Try again.\n")
	}
	return "", fmt.Errorf("%q: %w", strings.TrimSpace(label), ErrTooManyAttempts)
}

// promptInt reads a whole number. Empty input returns def unless def is
// negative, in which case a number is required.
func (m *Menu) promptInt(label string, def int) (int, error) {
	for range MaxAttempts {
		s, err := m.prompt(label)
		if err != nil {
			return 0, err
		}
		if s == "" && def >= 0 {
			return def, nil
		}
		n, err := strconv.Atoi(s)
		if err == nil {
			return n, nil
		}
		m.printf("Must be a whole number.\n")
	}
	return 0, fmt.Errorf("%q: %w", strings.TrimSpace(label), ErrTooManyAttempts)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}
