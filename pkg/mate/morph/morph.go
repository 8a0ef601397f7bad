package morph

import (
	"sort"
	"strings"

	"github.com/loike/mate-tools/pkg/mate/lexicon"
	"github.com/loike/mate-tools/pkg/mate/sentence"
)

// Separators used in feature strings, e.g. "case=nom|num=sg"
const (
	FeatureSeparator = "|"
	ValueSeparator   = "="
)

// Lexicon assigns the most frequent feature string observed for each form.
// Forms missing from the lexicon get an empty feature string.
type Lexicon struct {
	lex *lexicon.Lexicon
}

// New creates a lexicon morphological tagger.
func New(lex *lexicon.Lexicon) *Lexicon {
	if lex == nil {
		lex = lexicon.New()
	}
	return &Lexicon{lex: lex}
}

// Apply fills s.Feats.
func (m *Lexicon) Apply(s *sentence.Sentence) error {
	feats := make([]string, s.Len())
	for i, form := range s.Forms {
		if i == 0 {
			feats[i] = sentence.RootFeats
			continue
		}
		if a, ok := m.lex.Lookup(form); ok {
			feats[i] = Normalize(a.Feats)
		}
	}
	s.Feats = feats
	return nil
}

// Parse splits a feature string into its attribute/value pairs. A
// repeated attribute keeps every value joined by commas. "_" and the
// empty string parse to an empty map.
func Parse(feats string) map[string]string {
	out := make(map[string]string)
	if feats == "" || feats == "_" {
		return out
	}
	for _, part := range strings.Split(feats, FeatureSeparator) {
		if part == "" {
			continue
		}
		name, value, found := strings.Cut(part, ValueSeparator)
		if !found {
			value = ""
		}
		if existing, ok := out[name]; ok && value != "" {
			out[name] = existing + "," + value
			continue
		}
		out[name] = value
	}
	return out
}

// Format renders attribute/value pairs sorted by attribute.
func Format(feats map[string]string) string {
	if len(feats) == 0 {
		return ""
	}
	parts := make([]string, 0, len(feats))
	for name, value := range feats {
		if value == "" {
			parts = append(parts, name)
			continue
		}
		parts = append(parts, name+ValueSeparator+value)
	}
	sort.Strings(parts)
	return strings.Join(parts, FeatureSeparator)
}

// Normalize sorts the pairs of a feature string so equal feature sets
// compare equal.
func Normalize(feats string) string {
	return Format(Parse(feats))
}
