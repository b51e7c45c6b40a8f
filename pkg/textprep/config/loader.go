package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/textprep/pkg/textprep/contraction"
	"github.com/cognicore/textprep/pkg/textprep/emoji"
	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/lexicon"
	"github.com/cognicore/textprep/pkg/textprep/stem"
	"github.com/cognicore/textprep/pkg/textprep/stoplist"
)

// Loader loads all reference data and constructs components. Empty paths
// fall back to the bundled defaults.
type Loader struct {
	StoplistPath     string
	ContractionsPath string
	LemmasPath       string
	EmojiAliasesPath string
	EmojiMode        string
	Logger           *zap.Logger
}

// Components holds all loaded reference data, ready to be shared by any
// number of pipelines.
type Components struct {
	Stoplist     *stoplist.Manager
	Contractions *contraction.Expander
	Emoji        *emoji.Translator
	Stemmer      *stem.Stemmer
	Lemmatizer   *lexicon.Lemmatizer
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	log := l.Logger
	if log == nil {
		log = zap.NewNop()
	}
	comp := &Components{}

	// Load stoplist
	sl, err := LoadStoplist(l.StoplistPath)
	if err != nil {
		return nil, fmt.Errorf("load stoplist: %w", err)
	}
	comp.Stoplist = stoplist.NewManager(sl.Terms)

	// Load contractions
	ct, err := LoadContractions(l.ContractionsPath)
	if err != nil {
		return nil, fmt.Errorf("load contractions: %w", err)
	}
	for k, v := range ct.Table {
		if strings.ContainsAny(v, "'’") {
			log.Warn("contraction expansion contains an apostrophe",
				zap.String("contraction", k), zap.String("expansion", v))
		}
	}
	comp.Contractions = contraction.NewExpander(ct.Table)

	// Load emoji handling
	mode, err := emoji.ParseMode(l.EmojiMode)
	if err != nil {
		return nil, fmt.Errorf("emoji mode: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	aliases, err := LoadEmojiAliases(l.EmojiAliasesPath)
	if err != nil {
		return nil, fmt.Errorf("load emoji aliases: %w", err)
	}
	comp.Emoji = emoji.NewTranslator(mode, aliases.Aliases)

	// Load lemma dictionary; its lemmas are protected from stemming
	var lex *lexicon.Lexicon
	if l.LemmasPath != "" {
		lex, err = lexicon.LoadFromYAML(l.LemmasPath)
	} else {
		var data []byte
		data, err = defaults.ReadFile(DefaultLemmasFile)
		if err == nil {
			lex, err = lexicon.Parse(data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load lemmas: %w", err)
	}
	comp.Stemmer = stem.New(lex.Lemmas())
	comp.Lemmatizer, err = lex.Compile(comp.Stemmer.Stem)
	if err != nil {
		return nil, fmt.Errorf("compile lemmas: %w", err)
	}

	for _, lemma := range lex.Lemmas() {
		if comp.Stoplist.IsStop(lemma) {
			log.Warn("lemma is a stop word and will be dropped from output", zap.String("lemma", lemma))
		}
	}

	log.Debug("reference data loaded",
		zap.Int("stopwords", comp.Stoplist.Len()),
		zap.Int("contractions", comp.Contractions.Len()),
		zap.Int("lemma_spellings", comp.Lemmatizer.Len()),
		zap.Stringer("emoji_mode", mode),
	)

	return comp, nil
}
