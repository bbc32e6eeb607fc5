package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/conorfennell/studydeck/internal/app"
	"github.com/conorfennell/studydeck/internal/config"
	"github.com/conorfennell/studydeck/internal/menu"
)

const usage = `Usage: studydeck [flags] [command] [args]

Commands:
  menu                          interactive menu (default)
  add <question> <answer> [tag...]
  list
  quiz [n]
  plan set <week> <goal, goal...>
  plan mark <week> <index> [true|false]
  plan progress <week>
  plan show <week>
  plan weeks
  stats
  generate [per-term]
  import <dir|git-url>
  dedupe

Flags:
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			slog.Error("studydeck failed", "error", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := config.Flags("studydeck")
	fs.SetInterspersed(false)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	a, err := app.New(cfg, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	cmd, rest := "menu", fs.Args()
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}
	m := menu.New(a.Cards, a.Quiz, a.Plan, a.Stats, stdin, stdout)

	err = dispatch(ctx, a, m, cmd, rest, stdout)
	if errors.Is(err, errUsage) {
		fs.Usage()
	}
	return err
}

func dispatch(ctx context.Context, a *app.App, m *menu.Menu, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "menu":
		return m.Run()

	case "add":
		if len(args) < 2 {
			return fmt.Errorf("%w: add needs a question and an answer", errUsage)
		}
		card, err := a.Cards.Add(args[0], args[1], args[2:])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Added: %s -> %s %v\n", card.Question, card.Answer, card.Tags)
		return nil

	case "list":
		cards, err := a.Cards.List()
		if err != nil {
			return err
		}
		for i, c := range cards {
			fmt.Fprintf(out, "%d. %s -> %s [%s]\n", i+1, c.Question, c.Answer, strings.Join(c.Tags, " "))
		}
		fmt.Fprintf(out, "%d cards\n", len(cards))
		return nil

	case "quiz":
		n, err := optionalInt(args, 3)
		if err != nil {
			return err
		}
		return m.Quiz(n)

	case "plan":
		return planCommand(a, args, out)

	case "stats":
		t, err := a.Stats.Totals()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Total: %d\nCorrect: %d\nIncorrect: %d\nAccuracy: %d%%\n", t.Total, t.Correct, t.Incorrect, t.Accuracy)
		return nil

	case "generate":
		perTerm, err := optionalInt(args, 1)
		if err != nil {
			return err
		}
		added, err := a.Generate(perTerm)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Generated %d new cards\n", added)
		return nil

	case "import":
		if len(args) != 1 {
			return fmt.Errorf("%w: import needs exactly one source", errUsage)
		}
		report, err := a.Importer.Import(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Scanned %d files: %d cards found, %d added, %d duplicates, %d errors\n",
			report.Files, report.Parsed, report.Added, report.Duplicates, len(report.Errors))
		for _, e := range report.Errors {
			fmt.Fprintf(out, "- %s\n", e)
		}
		return nil

	case "dedupe":
		before, after, err := a.Dedupe()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Kept %d of %d cards, backup in %s\n", after, before, a.BackupLocation())
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func planCommand(a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: plan needs a subcommand", errUsage)
	}
	sub, args := args[0], args[1:]

	if sub == "weeks" {
		weeks, err := a.Plan.ListWeeks()
		if err != nil {
			return err
		}
		for _, w := range weeks {
			fmt.Fprintln(out, w)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("%w: plan %s needs a week", errUsage, sub)
	}
	week, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: week must be a whole number, got %q", errUsage, args[0])
	}
	args = args[1:]

	switch sub {
	case "set":
		rec, err := a.Plan.SetGoal(week, strings.Split(strings.Join(args, " "), ","))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Week %d saved with %d goals\n", week, len(rec.Items))
		return nil

	case "mark":
		if len(args) == 0 || len(args) > 2 {
			return fmt.Errorf("%w: plan mark needs an index and an optional value", errUsage)
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: index must be a whole number, got %q", errUsage, args[0])
		}
		value := true
		if len(args) == 2 {
			if value, err = strconv.ParseBool(args[1]); err != nil {
				return fmt.Errorf("%w: value must be true or false, got %q", errUsage, args[1])
			}
		}
		if _, err := a.Plan.MarkDone(week, index, value); err != nil {
			return err
		}
		fmt.Fprintf(out, "Week %d item %d marked %t\n", week, index, value)
		return nil

	case "progress":
		pct, err := a.Plan.Progress(week)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Week %d: %d%% done\n", week, pct)
		return nil

	case "show":
		rec, ok, err := a.Plan.GetWeek(week)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(out, "Week %d has no goals\n", week)
			return nil
		}
		for i, item := range rec.Items {
			status := "."
			if rec.Done[i] {
				status = "x"
			}
			fmt.Fprintf(out, "%d: [%s] %s\n", i, status, item)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown plan subcommand %q", errUsage, sub)
	}
}

func optionalInt(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: expected a whole number, got %q", errUsage, args[0])
	}
	return n, nil
}
