package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/textprep/internal/corpus"
	"github.com/cognicore/textprep/pkg/textprep"
	"github.com/cognicore/textprep/pkg/textprep/batch"
	"github.com/cognicore/textprep/pkg/textprep/config"
	"github.com/cognicore/textprep/pkg/textprep/store"
	"github.com/cognicore/textprep/pkg/textprep/store/memstore"
	"github.com/cognicore/textprep/pkg/textprep/store/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

type cliFlags struct {
	configPath string
	jsonlPath  string
	dbPath     string
	emojiMode  string
	workers    int
	top        int
	trace      bool
	files      []string
}

func parseFlags(args []string, stderr io.Writer) (cliFlags, error) {
	fs := flag.NewFlagSet("textprep", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var f cliFlags
	fs.StringVar(&f.configPath, "config", "", "YAML config file (optional, TEXTPREP_* env vars override)")
	fs.StringVar(&f.jsonlPath, "jsonl", "", "JSONL corpus with {\"source\",\"text\"} records")
	fs.StringVar(&f.dbPath, "db", "", "SQLite database for results (optional)")
	fs.StringVar(&f.emojiMode, "emoji", "", "Emoji handling: translate or remove")
	fs.IntVar(&f.workers, "workers", 0, "Parallel documents (0 = config value)")
	fs.IntVar(&f.top, "top", 0, "Print the N most frequent tokens after the run")
	fs.BoolVar(&f.trace, "trace", false, "Print the value after every stage")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: textprep [flags] [file ...]")
		fmt.Fprintln(fs.Output(), "Reads stdin when no files and no -jsonl are given.")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	f.files = fs.Args()
	if f.jsonlPath != "" && len(f.files) > 0 {
		return cliFlags{}, errors.New("-jsonl and file arguments are mutually exclusive")
	}
	if f.workers < 0 {
		return cliFlags{}, errors.New("-workers must not be negative")
	}
	return f, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	f, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	app, err := config.LoadApp(f.configPath)
	if err != nil {
		return err
	}
	if f.emojiMode != "" {
		app.Emoji.Mode = f.emojiMode
	}
	if f.workers > 0 {
		app.Workers = f.workers
	}
	if f.dbPath != "" {
		app.DBPath = f.dbPath
	}
	if err := app.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(app.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	comp, err := app.Loader(logger).Load()
	if err != nil {
		return err
	}
	pipeline, err := textprep.New(textprep.Options{
		Components:    comp,
		Logger:        logger,
		MaxInputBytes: app.MaxInputBytes,
		Trace:         f.trace,
	})
	if err != nil {
		return err
	}

	items, err := loadItems(f, stdin, logger)
	if err != nil {
		return err
	}

	if f.trace {
		return traceItems(ctx, pipeline, items, stdout)
	}

	st, err := openStore(ctx, app.DBPath, f.top > 0)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	inputs := make([]batch.Input, len(items))
	for i, it := range items {
		inputs[i] = batch.Input{Source: it.Source, Text: it.Text}
	}
	runner := batch.NewRunner(pipeline, batch.Options{
		Store:   st,
		Workers: app.Workers,
		Logger:  logger,
	})
	results, err := runner.Run(ctx, inputs)
	if err != nil {
		return err
	}

	single := len(results) == 1 && f.jsonlPath == "" && len(f.files) == 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.Source, res.Err)
		case single:
			fmt.Fprintln(stdout, res.Output)
		default:
			fmt.Fprintf(stdout, "%s\t%s\n", res.Source, res.Output)
		}
	}

	if f.top > 0 {
		counts, err := st.TopTokens(ctx, f.top)
		if err != nil {
			return err
		}
		for _, tc := range counts {
			fmt.Fprintf(stdout, "%6d  %s\n", tc.Docs, tc.Token)
		}
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "console"
	return cfg.Build()
}

func loadItems(f cliFlags, stdin io.Reader, logger *zap.Logger) ([]corpus.Item, error) {
	switch {
	case f.jsonlPath != "":
		return corpus.LoadFromJSONL(f.jsonlPath, logger)
	case len(f.files) > 0:
		return corpus.LoadFiles(f.files)
	default:
		item, err := corpus.FromReader(stdin, "-")
		if err != nil {
			return nil, err
		}
		return []corpus.Item{item}, nil
	}
}

// openStore returns SQLite when path is set, an in-memory store when results
// are only needed for the token summary, and nil otherwise.
func openStore(ctx context.Context, path string, needSummary bool) (store.Store, error) {
	if path != "" {
		return sqlite.OpenSQLite(ctx, path)
	}
	if needSummary {
		return memstore.New(), nil
	}
	return nil, nil
}

func traceItems(ctx context.Context, p *textprep.Pipeline, items []corpus.Item, w io.Writer) error {
	for _, it := range items {
		res, err := p.Run(ctx, it.Text)
		if err != nil {
			return fmt.Errorf("%s: %w", it.Source, err)
		}
		fmt.Fprintf(w, "== %s\n", it.Source)
		for _, st := range res.Trace {
			value := st.Text
			if st.Tokens != nil {
				value = "[" + strings.Join(st.Tokens, " ") + "]"
			}
			fmt.Fprintf(w, "%-15s %q\n", st.Stage, value)
		}
	}
	return nil
}
