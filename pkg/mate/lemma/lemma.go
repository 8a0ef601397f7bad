package lemma

import (
	"strings"

	"github.com/loike/mate-tools/pkg/mate/lexicon"
	"github.com/loike/mate-tools/pkg/mate/sentence"
)

// Dictionary lemmatizes by lexicon lookup. Forms missing from the lexicon
// are lemmatized to their lower-cased form.
type Dictionary struct {
	lex *lexicon.Lexicon
}

// NewDictionary creates a dictionary lemmatizer over lex.
func NewDictionary(lex *lexicon.Lexicon) *Dictionary {
	if lex == nil {
		lex = lexicon.New()
	}
	return &Dictionary{lex: lex}
}

// Apply fills s.Lemmas.
func (d *Dictionary) Apply(s *sentence.Sentence) error {
	lemmas := make([]string, s.Len())
	for i, form := range s.Forms {
		if i == 0 {
			lemmas[i] = sentence.RootLemma
			continue
		}
		if a, ok := d.lex.Lookup(form); ok && a.Lemma != "" {
			lemmas[i] = a.Lemma
			continue
		}
		lemmas[i] = strings.ToLower(form)
	}
	s.Lemmas = lemmas
	return nil
}

// Identity uses every form as its own lemma. It suits languages without
// inflection, such as Chinese.
type Identity struct{}

// Apply fills s.Lemmas with copies of the forms.
func (Identity) Apply(s *sentence.Sentence) error {
	lemmas := make([]string, s.Len())
	copy(lemmas, s.Forms)
	if len(lemmas) > 0 {
		lemmas[0] = sentence.RootLemma
	}
	s.Lemmas = lemmas
	return nil
}
