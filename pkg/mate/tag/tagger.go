package tag

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/loike/mate-tools/pkg/mate/internalerr"
	"github.com/loike/mate-tools/pkg/mate/lexicon"
	"github.com/loike/mate-tools/pkg/mate/sentence"
)

// SuffixRule tags unknown forms ending in Suffix.
type SuffixRule struct {
	Suffix string `yaml:"suffix"`
	POS    string `yaml:"pos"`
	CPOS   string `yaml:"cpos"`
}

// Rules configures how forms missing from the lexicon are tagged.
type Rules struct {
	// Tag for anything no other rule covers
	Default     string `yaml:"default"`
	DefaultCPOS string `yaml:"default_cpos"`

	// Tag for numbers; empty disables the rule
	Number string `yaml:"number"`

	// Tag for punctuation; empty means the form itself is the tag
	Punct string `yaml:"punct"`

	// Tag for capitalized forms that do not start the sentence
	Capitalized string `yaml:"capitalized"`

	Suffixes []SuffixRule `yaml:"suffixes"`
}

// DefaultRules returns a small English rule set.
func DefaultRules() Rules {
	return Rules{
		Default:     "NN",
		DefaultCPOS: "NOUN",
		Number:      "CD",
		Capitalized: "NNP",
		Suffixes: []SuffixRule{
			{Suffix: "ing", POS: "VBG", CPOS: "VERB"},
			{Suffix: "ed", POS: "VBD", CPOS: "VERB"},
			{Suffix: "ly", POS: "RB", CPOS: "ADV"},
			{Suffix: "s", POS: "NNS", CPOS: "NOUN"},
		},
	}
}

// LoadRules reads rules from a YAML file. Missing fields keep the values
// of DefaultRules except the suffix list, which is replaced when given.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, err
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidModel, path, err)
	}
	if rules.Default == "" {
		return rules, fmt.Errorf("%w: %s: default tag is empty", internalerr.ErrInvalidModel, path)
	}
	return rules, nil
}

// Lexicon tags known forms with their most frequent lexicon tag and falls
// back to Rules for the rest.
type Lexicon struct {
	lex   *lexicon.Lexicon
	rules Rules
}

// New creates a lexicon tagger.
func New(lex *lexicon.Lexicon, rules Rules) *Lexicon {
	if lex == nil {
		lex = lexicon.New()
	}
	suffixes := make([]SuffixRule, len(rules.Suffixes))
	copy(suffixes, rules.Suffixes)
	sort.SliceStable(suffixes, func(i, j int) bool {
		return len(suffixes[i].Suffix) > len(suffixes[j].Suffix)
	})
	rules.Suffixes = suffixes
	return &Lexicon{lex: lex, rules: rules}
}

// Apply fills s.POS and s.CPOS.
func (t *Lexicon) Apply(s *sentence.Sentence) error {
	pos := make([]string, s.Len())
	cpos := make([]string, s.Len())
	for i, form := range s.Forms {
		if i == 0 {
			pos[i], cpos[i] = sentence.RootPOS, sentence.RootPOS
			continue
		}
		pos[i], cpos[i] = t.tag(form, i)
	}
	s.POS = pos
	s.CPOS = cpos
	return nil
}

func (t *Lexicon) tag(form string, index int) (string, string) {
	if a, ok := t.lex.Lookup(form); ok && a.POS != "" {
		return a.POS, a.CPOS
	}

	switch {
	case t.rules.Number != "" && isNumber(form):
		return t.rules.Number, "NUM"
	case isPunct(form):
		if t.rules.Punct != "" {
			return t.rules.Punct, "PUNCT"
		}
		return form, "PUNCT"
	case t.rules.Capitalized != "" && index > 1 && startsUpper(form):
		return t.rules.Capitalized, "PROPN"
	}

	lower := strings.ToLower(form)
	for _, r := range t.rules.Suffixes {
		if len(lower) > len(r.Suffix) && strings.HasSuffix(lower, r.Suffix) {
			return r.POS, r.CPOS
		}
	}
	return t.rules.Default, t.rules.DefaultCPOS
}

func isNumber(form string) bool {
	digits := 0
	for _, r := range form {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',' || r == '-':
		default:
			return false
		}
	}
	return digits > 0
}

func isPunct(form string) bool {
	if form == "" {
		return false
	}
	for _, r := range form {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

func startsUpper(form string) bool {
	for _, r := range form {
		return unicode.IsUpper(r)
	}
	return false
}
