package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"github.com/cognicore/textprep/pkg/textprep/emoji"
	"github.com/cognicore/textprep/pkg/textprep/internalerr"
)

// App is the process-level configuration for the textprep CLI and services
// embedding the pipeline. Values come from an optional YAML file and are
// overridden by TEXTPREP_* environment variables.
type App struct {
	LogLevel      string `yaml:"log_level" env:"TEXTPREP_LOG_LEVEL" env-default:"info"`
	MaxInputBytes int    `yaml:"max_input_bytes" env:"TEXTPREP_MAX_INPUT_BYTES" env-default:"1048576"`
	Workers       int    `yaml:"workers" env:"TEXTPREP_WORKERS" env-default:"4"`
	DBPath        string `yaml:"db_path" env:"TEXTPREP_DB_PATH"`

	Emoji struct {
		Mode string `yaml:"mode" env:"TEXTPREP_EMOJI_MODE" env-default:"translate"`
	} `yaml:"emoji"`

	Resources struct {
		Stoplist     string `yaml:"stoplist" env:"TEXTPREP_STOPLIST"`
		Contractions string `yaml:"contractions" env:"TEXTPREP_CONTRACTIONS"`
		Lemmas       string `yaml:"lemmas" env:"TEXTPREP_LEMMAS"`
		EmojiAliases string `yaml:"emoji_aliases" env:"TEXTPREP_EMOJI_ALIASES"`
	} `yaml:"resources"`
}

// LoadApp reads the YAML file at path (if any) and applies environment
// overrides. With an empty path only the environment and defaults are used.
func LoadApp(path string) (*App, error) {
	var cfg App
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (a *App) Validate() error {
	if a.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d: %w", a.Workers, internalerr.ErrInvalidConfig)
	}
	if a.MaxInputBytes < 0 {
		return fmt.Errorf("max_input_bytes must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	if _, err := emoji.ParseMode(a.Emoji.Mode); err != nil {
		return fmt.Errorf("%v: %w", err, internalerr.ErrInvalidConfig)
	}
	if _, err := zap.ParseAtomicLevel(a.LogLevel); err != nil {
		return fmt.Errorf("log_level: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Loader returns a component loader for the configured resources.
func (a *App) Loader(log *zap.Logger) *Loader {
	return &Loader{
		StoplistPath:     a.Resources.Stoplist,
		ContractionsPath: a.Resources.Contractions,
		LemmasPath:       a.Resources.Lemmas,
		EmojiAliasesPath: a.Resources.EmojiAliases,
		EmojiMode:        a.Emoji.Mode,
		Logger:           log,
	}
}
