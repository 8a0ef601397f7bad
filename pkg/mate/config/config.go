package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/loike/mate-tools/pkg/mate/internalerr"
)

// Stage kinds accepted in pipeline files. KindNone disables a stage.
const (
	KindNone       = "none"
	KindRules      = "rules"
	KindWhitespace = "whitespace"
	KindDictionary = "dictionary"
	KindIdentity   = "identity"
	KindLexicon    = "lexicon"
	KindHeadRules  = "headrules"
)

// Pipeline represents the pipeline configuration file.
//
// Example:
//
//	tokenizer:
//	  kind: rules
//	  abbreviations: [Dr., Mr., etc.]
//	lexicon:
//	  conll: data/train.conll09
//	lemmatizer: {kind: dictionary}
//	morph_tagger: {kind: lexicon}
//	tagger: {kind: lexicon, model: tag.yaml}
//	parser: {kind: headrules, model: grammar.yaml}
//
// Relative paths are resolved against the directory of the file.
type Pipeline struct {
	Tokenizer   Tokenizer `yaml:"tokenizer"`
	Lexicon     Lexicon   `yaml:"lexicon"`
	Lemmatizer  Stage     `yaml:"lemmatizer"`
	MorphTagger Stage     `yaml:"morph_tagger"`
	Tagger      Stage     `yaml:"tagger"`
	Parser      Stage     `yaml:"parser"`
}

// Tokenizer selects the tokenizer.
type Tokenizer struct {
	Kind          string   `yaml:"kind"`
	Abbreviations []string `yaml:"abbreviations"`
}

// Lexicon names where the shared lexicon comes from. At most one source may
// be set; with none the lexicon is empty.
type Lexicon struct {
	YAML  string `yaml:"yaml"`
	CoNLL string `yaml:"conll"`
	DB    string `yaml:"db"`
}

// Stage selects the implementation of an annotation stage and its model
// file, if it takes one.
type Stage struct {
	Kind  string `yaml:"kind"`
	Model string `yaml:"model"`
}

// UnmarshalYAML also accepts the short form "tokenizer: whitespace".
func (t *Tokenizer) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		t.Kind = value.Value
		return nil
	}
	type plain Tokenizer
	return value.Decode((*plain)(t))
}

// UnmarshalYAML also accepts the short form "tagger: none".
func (s *Stage) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.Kind = value.Value
		s.Model = ""
		return nil
	}
	type plain Stage
	return value.Decode((*plain)(s))
}

// DefaultPipeline enables every stage with built-in models and an empty
// lexicon.
func DefaultPipeline() *Pipeline {
	return &Pipeline{
		Tokenizer:   Tokenizer{Kind: KindRules},
		Lemmatizer:  Stage{Kind: KindDictionary},
		MorphTagger: Stage{Kind: KindLexicon},
		Tagger:      Stage{Kind: KindLexicon},
		Parser:      Stage{Kind: KindHeadRules},
	}
}

// LoadPipeline loads a pipeline configuration from a YAML file. Sections
// left out keep the values of DefaultPipeline.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p := DefaultPipeline()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	p.resolve(filepath.Dir(path))
	return p, nil
}

// Validate checks stage kinds and the lexicon source.
func (p *Pipeline) Validate() error {
	checks := []struct {
		name  string
		kind  string
		kinds []string
	}{
		{"tokenizer", p.Tokenizer.Kind, []string{KindRules, KindWhitespace}},
		{"lemmatizer", p.Lemmatizer.Kind, []string{KindDictionary, KindIdentity}},
		{"morph_tagger", p.MorphTagger.Kind, []string{KindLexicon}},
		{"tagger", p.Tagger.Kind, []string{KindLexicon}},
		{"parser", p.Parser.Kind, []string{KindHeadRules}},
	}
	for _, c := range checks {
		if !validKind(c.kind, c.kinds) {
			return fmt.Errorf("%w: unknown %s kind %q", internalerr.ErrInvalidConfig, c.name, c.kind)
		}
	}

	for name, st := range map[string]Stage{"lemmatizer": p.Lemmatizer, "morph_tagger": p.MorphTagger} {
		if st.Model != "" {
			return fmt.Errorf("%w: %s takes no model file", internalerr.ErrInvalidConfig, name)
		}
	}

	sources := 0
	for _, src := range []string{p.Lexicon.YAML, p.Lexicon.CoNLL, p.Lexicon.DB} {
		if src != "" {
			sources++
		}
	}
	if sources > 1 {
		return fmt.Errorf("%w: lexicon takes one of yaml, conll or db", internalerr.ErrInvalidConfig)
	}
	return nil
}

// Enabled reports whether a stage kind turns the stage on.
func Enabled(kind string) bool {
	return kind != "" && kind != KindNone
}

func validKind(kind string, kinds []string) bool {
	if !Enabled(kind) {
		return true
	}
	for _, k := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func (p *Pipeline) resolve(dir string) {
	for _, path := range []*string{
		&p.Lexicon.YAML,
		&p.Lexicon.CoNLL,
		&p.Lexicon.DB,
		&p.Lemmatizer.Model,
		&p.MorphTagger.Model,
		&p.Tagger.Model,
		&p.Parser.Model,
	} {
		if *path != "" && !filepath.IsAbs(*path) {
			*path = filepath.Join(dir, *path)
		}
	}
}
