package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/loike/mate-tools/pkg/mate/internalerr"
	"github.com/loike/mate-tools/pkg/mate/sentence"
)

// Analysis is one reading of a form as seen in training data.
type Analysis struct {
	Lemma string `yaml:"lemma"`
	POS   string `yaml:"pos"`
	CPOS  string `yaml:"cpos,omitempty"`
	Feats string `yaml:"feats,omitempty"`
}

// Record is a single (form, analysis) pair with its frequency. It is the
// flat shape used by files and stores.
type Record struct {
	Form     string
	Analysis Analysis
	Count    int64
}

// Lexicon maps word forms to the analyses observed for them.
// Lookups of unseen forms fall back to every case variant of the form, so
// "the" finds a sentence-initial "The" and the other way round.
//
// A Lexicon is safe for concurrent reads once built.
type Lexicon struct {
	forms map[string]map[Analysis]int64

	// lower-cased form -> forms seen with that spelling
	folded map[string]map[string]struct{}
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		forms:  make(map[string]map[Analysis]int64),
		folded: make(map[string]map[string]struct{}),
	}
}

// Add records count observations of form with analysis a.
func (l *Lexicon) Add(form string, a Analysis, count int64) {
	if form == "" || count <= 0 {
		return
	}
	analyses, ok := l.forms[form]
	if !ok {
		analyses = make(map[Analysis]int64)
		l.forms[form] = analyses

		key := strings.ToLower(form)
		if l.folded[key] == nil {
			l.folded[key] = make(map[string]struct{})
		}
		l.folded[key][form] = struct{}{}
	}
	analyses[a] += count
}

// AddSentence records every non-root token of s. Layers that are unset
// contribute empty values.
func (l *Lexicon) AddSentence(s *sentence.Sentence) {
	for i := 1; i < s.Len(); i++ {
		l.Add(s.Forms[i], Analysis{
			Lemma: value(s.Lemmas, i),
			POS:   value(s.POS, i),
			CPOS:  value(s.CPOS, i),
			Feats: value(s.Feats, i),
		}, 1)
	}
}

// FromSentences builds a lexicon from annotated sentences.
func FromSentences(sents []*sentence.Sentence) *Lexicon {
	lex := New()
	for _, s := range sents {
		lex.AddSentence(s)
	}
	return lex
}

// FromRecords builds a lexicon from flat records.
func FromRecords(records []Record) *Lexicon {
	lex := New()
	for _, r := range records {
		lex.Add(r.Form, r.Analysis, r.Count)
	}
	return lex
}

// Len returns the number of distinct forms.
func (l *Lexicon) Len() int {
	return len(l.forms)
}

// Lookup returns the most frequent analysis of form. Ties are broken by
// comparing the analyses so results are stable.
func (l *Lexicon) Lookup(form string) (Analysis, bool) {
	analyses := l.find(form)
	if len(analyses) == 0 {
		return Analysis{}, false
	}
	return best(analyses), true
}

// Analyses returns every analysis of form, most frequent first.
func (l *Lexicon) Analyses(form string) []Analysis {
	analyses := l.find(form)
	out := make([]Analysis, 0, len(analyses))
	for a := range analyses {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := analyses[out[i]], analyses[out[j]]
		if ci != cj {
			return ci > cj
		}
		return less(out[i], out[j])
	})
	return out
}

// Records flattens the lexicon, sorted by form and then by analysis.
func (l *Lexicon) Records() []Record {
	var out []Record
	for form, analyses := range l.forms {
		for a, c := range analyses {
			out = append(out, Record{Form: form, Analysis: a, Count: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Form != out[j].Form {
			return out[i].Form < out[j].Form
		}
		return less(out[i].Analysis, out[j].Analysis)
	})
	return out
}

// find returns the counts for form, or the summed counts of its case
// variants when form itself was never seen.
func (l *Lexicon) find(form string) map[Analysis]int64 {
	if analyses, ok := l.forms[form]; ok {
		return analyses
	}
	variants := l.folded[strings.ToLower(form)]
	if len(variants) == 1 {
		for v := range variants {
			return l.forms[v]
		}
	}
	merged := make(map[Analysis]int64)
	for v := range variants {
		for a, c := range l.forms[v] {
			merged[a] += c
		}
	}
	return merged
}

type yamlEntry struct {
	Form     string         `yaml:"form"`
	Analyses []yamlAnalysis `yaml:"analyses"`
}

type yamlAnalysis struct {
	Analysis `yaml:",inline"`
	Count    int64 `yaml:"count"`
}

type yamlFile struct {
	Entries []yamlEntry `yaml:"entries"`
}

// LoadYAML reads a lexicon file.
//
// Expected format:
//
//	entries:
//	  - form: dogs
//	    analyses:
//	      - {lemma: dog, pos: NNS, cpos: NOUN, feats: num=pl, count: 12}
//
// An analysis without a count counts once.
func LoadYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidModel, path, err)
	}

	lex := New()
	for _, e := range file.Entries {
		if e.Form == "" {
			return nil, fmt.Errorf("%w: %s: entry without form", internalerr.ErrInvalidModel, path)
		}
		for _, a := range e.Analyses {
			count := a.Count
			if count == 0 {
				count = 1
			}
			lex.Add(e.Form, a.Analysis, count)
		}
	}
	return lex, nil
}

// SaveYAML writes the lexicon in the format LoadYAML reads.
func (l *Lexicon) SaveYAML(path string) error {
	var file yamlFile
	for _, r := range l.Records() {
		n := len(file.Entries)
		if n == 0 || file.Entries[n-1].Form != r.Form {
			file.Entries = append(file.Entries, yamlEntry{Form: r.Form})
			n++
		}
		file.Entries[n-1].Analyses = append(file.Entries[n-1].Analyses, yamlAnalysis{
			Analysis: r.Analysis,
			Count:    r.Count,
		})
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func best(analyses map[Analysis]int64) Analysis {
	var (
		top   Analysis
		count int64 = -1
	)
	for a, c := range analyses {
		if c > count || (c == count && less(a, top)) {
			top, count = a, c
		}
	}
	return top
}

func less(a, b Analysis) bool {
	if a.POS != b.POS {
		return a.POS < b.POS
	}
	if a.Lemma != b.Lemma {
		return a.Lemma < b.Lemma
	}
	if a.CPOS != b.CPOS {
		return a.CPOS < b.CPOS
	}
	return a.Feats < b.Feats
}

func value(layer []string, i int) string {
	if i < len(layer) {
		return layer[i]
	}
	return ""
}
