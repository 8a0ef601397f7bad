package tokenize

import (
	"strings"
	"unicode"

	"github.com/loike/mate-tools/pkg/mate/sentence"
)

// Tokenizer splits running text into word and punctuation tokens.
// Letters and digits form words. A hyphen or apostrophe between two word
// characters stays inside the word ("well-known", "don't"), as does a period
// or comma between two digits ("3.14", "1,000").
// Every other non-space rune is a token of its own.
type Tokenizer struct {
	abbreviations map[string]struct{}
	noRoot        bool
}

// New creates a tokenizer. Abbreviations (e.g. "Dr.", "etc.") keep their
// trailing period.
func New(abbreviations []string) *Tokenizer {
	abbr := make(map[string]struct{}, len(abbreviations))
	for _, a := range abbreviations {
		abbr[strings.ToLower(strings.TrimSuffix(a, "."))] = struct{}{}
	}
	return &Tokenizer{abbreviations: abbr}
}

// WithoutRoot makes Tokenize return the bare tokens.
func (t *Tokenizer) WithoutRoot() *Tokenizer {
	t.noRoot = true
	return t
}

// Tokenize splits text. Unless WithoutRoot was called, the result starts
// with the root form.
func (t *Tokenizer) Tokenize(text string) ([]string, error) {
	var tokens []string
	var current strings.Builder

	runes := []rune(text)
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	var prev rune
	for i, r := range runes {
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch {
		case isWordRune(r):
			current.WriteRune(r)
		case current.Len() > 0 && joins(prev, r, next):
			current.WriteRune(r)
		case r == '.' && current.Len() > 0 && t.isAbbreviation(current.String()):
			current.WriteRune(r)
			flush()
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tokens = append(tokens, string(r))
		}
		prev = r
	}
	flush()

	if t.noRoot {
		return tokens, nil
	}
	return sentence.WithRoot(tokens), nil
}

func (t *Tokenizer) isAbbreviation(word string) bool {
	_, ok := t.abbreviations[strings.ToLower(word)]
	return ok
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

// joins reports whether r continues the current word given its neighbours.
func joins(prev, r, next rune) bool {
	switch r {
	case '-', '\'', '’':
		return isWordRune(prev) && isWordRune(next)
	case '.', ',':
		return unicode.IsDigit(prev) && unicode.IsDigit(next)
	}
	return false
}

// Whitespace tokenizes text that is already segmented, splitting on runs
// of white space only.
type Whitespace struct{}

// Tokenize splits text on white space and prepends the root form.
func (Whitespace) Tokenize(text string) ([]string, error) {
	return sentence.WithRoot(strings.Fields(text)), nil
}
