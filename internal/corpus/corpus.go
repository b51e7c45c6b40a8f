package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
)

// Item is one document to preprocess
type Item struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// maxLine bounds a single JSONL record.
const maxLine = 16 << 20

// LoadFromJSONL loads items from a JSONL file with proper error handling.
// Malformed lines are logged and skipped; a line without a source gets
// "<path>:<line>".
func LoadFromJSONL(path string, log *zap.Logger) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	return FromJSONL(f, path, log)
}

// FromJSONL reads JSONL items from r. name labels log lines and default
// sources.
func FromJSONL(r io.Reader, name string, log *zap.Logger) ([]Item, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var items []Item
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			log.Warn("skipping malformed JSON line",
				zap.String("file", name),
				zap.Int("line", lineNo),
				zap.Error(err),
			)
			continue
		}
		if item.Source == "" {
			item.Source = fmt.Sprintf("%s:%d", name, lineNo)
		}
		items = append(items, item)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found in %s: %w", name, internalerr.ErrInvalidInput)
	}

	return items, nil
}

// LoadFiles reads each path as one document whose source is the path.
func LoadFiles(paths []string) ([]Item, error) {
	items := make([]Item, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read file %s: %w", p, err)
		}
		items = append(items, Item{Source: p, Text: string(data)})
	}
	return items, nil
}

// FromReader reads all of r as a single document.
func FromReader(r io.Reader, source string) (Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Item{}, fmt.Errorf("read %s: %w", source, err)
	}
	return Item{Source: source, Text: string(data)}, nil
}
