// Package textprep turns raw, noisy text (HTML fragments, URLs, emoji,
// contractions, mixed case) into a normalized sequence of stemmed and
// lemmatized word tokens for downstream NLP.
//
// The pipeline is a fixed chain of stages:
//
//	case → markup → emoji → contractions → symbols → whitespace → ascii
//	→ tokenize → stopwords → stem → lemmatize → stopword sweep
//
// Emoji translation and contraction expansion run before the symbol filter
// so that apostrophes and emoji glyphs still exist when they are matched.
// Every stage is total; only the size-checked Run returns errors.
package textprep

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cognicore/textprep/pkg/textprep/config"
	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/markup"
	"github.com/cognicore/textprep/pkg/textprep/normalize"
	"github.com/cognicore/textprep/pkg/textprep/tokenize"
)

// TextStage transforms document text.
type TextStage func(string) string

// TokenStage transforms a token sequence.
type TokenStage func([]string) []string

// Stage names, in execution order.
const (
	StageCase         = "case"
	StageMarkup       = "markup"
	StageEmoji        = "emoji"
	StageContractions = "contractions"
	StageSymbols      = "symbols"
	StageWhitespace   = "whitespace"
	StageASCII        = "ascii"
	StageTokenize     = "tokenize"
	StageStopwords    = "stopwords"
	StageStem         = "stem"
	StageLemmatize    = "lemmatize"
	StageSweep        = "stopword-sweep"
)

type textStep struct {
	name string
	fn   TextStage
}

type tokenStep struct {
	name string
	fn   TokenStage
}

// Options configures a Pipeline.
type Options struct {
	// Components supplies the reference tables. Nil loads the bundled
	// defaults.
	Components *config.Components
	Logger     *zap.Logger
	// MaxInputBytes bounds the raw input size; 0 means unbounded.
	MaxInputBytes int
	// Trace records the intermediate value after every stage in Result.Trace.
	Trace bool
}

// Pipeline is a configured preprocessing chain. It holds no per-run state
// and is safe for concurrent use.
type Pipeline struct {
	text     []textStep
	tokens   []tokenStep
	log      *zap.Logger
	maxBytes int
	trace    bool
}

// StageTrace is the value a stage produced.
type StageTrace struct {
	Stage  string
	Text   string
	Tokens []string
}

// Result is the outcome of one run.
type Result struct {
	Output string
	Tokens []string
	Trace  []StageTrace
}

// New builds a pipeline from opts.
func New(opts Options) (*Pipeline, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxInputBytes < 0 {
		return nil, fmt.Errorf("negative input bound %d: %w", opts.MaxInputBytes, internalerr.ErrInvalidConfig)
	}

	comp := opts.Components
	if comp == nil {
		loaded, err := (&config.Loader{Logger: log}).Load()
		if err != nil {
			return nil, fmt.Errorf("load default components: %w", err)
		}
		comp = loaded
	}
	if comp.Stoplist == nil || comp.Contractions == nil || comp.Emoji == nil ||
		comp.Stemmer == nil || comp.Lemmatizer == nil {
		return nil, fmt.Errorf("incomplete components: %w", internalerr.ErrInvalidConfig)
	}

	stops := comp.Stoplist
	return &Pipeline{
		text: []textStep{
			{StageCase, normalize.Lowercase},
			{StageMarkup, markup.Strip},
			{StageEmoji, comp.Emoji.Translate},
			{StageContractions, comp.Contractions.Expand},
			{StageSymbols, normalize.StripSymbols},
			{StageWhitespace, normalize.CollapseWhitespace},
			{StageASCII, normalize.ToASCII},
		},
		tokens: []tokenStep{
			{StageStopwords, stops.Filter},
			{StageStem, comp.Stemmer.StemAll},
			{StageLemmatize, comp.Lemmatizer.LemmatizeAll},
			// A stem or lemma can land on a stop word ("ares" -> "are").
			{StageSweep, stops.Filter},
		},
		log:      log,
		maxBytes: opts.MaxInputBytes,
		trace:    opts.Trace,
	}, nil
}

var (
	defaultOnce     sync.Once
	defaultPipeline *Pipeline
)

// Default returns the shared pipeline built from the bundled tables. The
// tables are compiled into the binary, so a load failure is a build defect
// and panics.
func Default() *Pipeline {
	defaultOnce.Do(func() {
		p, err := New(Options{})
		if err != nil {
			panic(fmt.Sprintf("textprep: bundled reference data: %v", err))
		}
		defaultPipeline = p
	})
	return defaultPipeline
}

// Preprocess normalizes raw with the default pipeline and returns the
// tokens joined by single spaces.
func Preprocess(raw string) string {
	return Default().Process(raw)
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.text)+1+len(p.tokens))
	for _, s := range p.text {
		names = append(names, s.name)
	}
	names = append(names, StageTokenize)
	for _, s := range p.tokens {
		names = append(names, s.name)
	}
	return names
}

// Process normalizes raw and returns the space-joined tokens. It never
// fails: input over the size bound is truncated at a rune boundary.
func (p *Pipeline) Process(raw string) string {
	return p.run(p.clamp(raw)).Output
}

// Tokens normalizes raw and returns the token sequence. Oversized input is
// truncated as in Process.
func (p *Pipeline) Tokens(raw string) []string {
	return p.run(p.clamp(raw)).Tokens
}

// clamp truncates raw to the size bound, logging when it does.
func (p *Pipeline) clamp(raw string) string {
	if p.maxBytes <= 0 || len(raw) <= p.maxBytes {
		return raw
	}
	p.log.Warn("input truncated",
		zap.Int("bytes", len(raw)),
		zap.Int("limit", p.maxBytes),
	)
	return truncate(raw, p.maxBytes)
}

// Run normalizes raw, rejecting input over the size bound with
// ErrInputTooLarge. The context is checked between stages.
func (p *Pipeline) Run(ctx context.Context, raw string) (Result, error) {
	if p.maxBytes > 0 && len(raw) > p.maxBytes {
		return Result{}, fmt.Errorf("%d bytes exceeds limit %d: %w", len(raw), p.maxBytes, internalerr.ErrInputTooLarge)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{}
	text := raw
	for _, s := range p.text {
		text = s.fn(text)
		if p.trace {
			res.Trace = append(res.Trace, StageTrace{Stage: s.name, Text: text})
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
	}

	tokens := tokenize.Tokenize(text)
	if p.trace {
		res.Trace = append(res.Trace, StageTrace{Stage: StageTokenize, Tokens: copyTokens(tokens)})
	}
	for _, s := range p.tokens {
		tokens = s.fn(tokens)
		if p.trace {
			res.Trace = append(res.Trace, StageTrace{Stage: s.name, Tokens: copyTokens(tokens)})
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
	}

	res.Tokens = tokens
	res.Output = strings.Join(tokens, " ")
	p.log.Debug("text processed",
		zap.Int("input_bytes", len(raw)),
		zap.Int("tokens", len(tokens)),
	)
	return res, nil
}

func (p *Pipeline) run(raw string) Result {
	// Background is never cancelled and the size check already passed.
	res, _ := p.Run(context.Background(), raw)
	return res
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func copyTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}
