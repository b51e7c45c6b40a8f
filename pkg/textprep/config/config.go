package config

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var defaults embed.FS

// Default resource files bundled with the module.
const (
	DefaultStoplistFile     = "data/stopwords.yaml"
	DefaultContractionsFile = "data/contractions.yaml"
	DefaultLemmasFile       = "data/lemmas.yaml"
)

// readResource reads path from disk, or the named embedded default when path
// is empty.
func readResource(path, fallback string) ([]byte, error) {
	if path == "" {
		return defaults.ReadFile(fallback)
	}
	return os.ReadFile(path)
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file. An empty path loads the
// bundled English list.
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := readResource(path, DefaultStoplistFile)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("parse stoplist: %w", err)
	}

	return &sl, nil
}

// Contractions represents the contraction table configuration
type Contractions struct {
	Table map[string]string `yaml:"contractions"`
}

// LoadContractions loads the contraction table from a YAML file. An empty
// path loads the bundled table.
func LoadContractions(path string) (*Contractions, error) {
	data, err := readResource(path, DefaultContractionsFile)
	if err != nil {
		return nil, err
	}

	var c Contractions
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse contractions: %w", err)
	}

	return &c, nil
}

// EmojiAliases maps emoji glyphs to the names used instead of the built-in
// ones.
type EmojiAliases struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadEmojiAliases loads glyph -> name overrides. There is no bundled file;
// an empty path yields an empty table.
func LoadEmojiAliases(path string) (*EmojiAliases, error) {
	if path == "" {
		return &EmojiAliases{Aliases: map[string]string{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ea EmojiAliases
	if err := yaml.Unmarshal(data, &ea); err != nil {
		return nil, fmt.Errorf("parse emoji aliases: %w", err)
	}
	if ea.Aliases == nil {
		ea.Aliases = map[string]string{}
	}

	return &ea, nil
}
