package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/loike/mate-tools/internal/htmltext"
)

// Document is one item of a JSONL corpus
type Document struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`

	// Text is HTML and goes through htmltext
	HTML bool `json:"html"`
}

// LoadJSONL reads one document per line. Malformed lines are logged and
// skipped; an input without any valid document is an error.
func LoadJSONL(r io.Reader, logger *zap.Logger) ([]Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var docs []Document
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var doc Document
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			logger.Warn("skipping malformed document", zap.Int("line", n), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid documents found")
	}
	return docs, nil
}

// Lines returns the title followed by the non-empty lines of the text.
func (d Document) Lines() ([]string, error) {
	var lines []string
	if title := strings.TrimSpace(d.Title); title != "" {
		lines = append(lines, title)
	}

	if d.HTML {
		body, err := htmltext.Lines(strings.NewReader(d.Text))
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", d.ID, err)
		}
		return append(lines, body...), nil
	}

	for _, line := range strings.Split(d.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
