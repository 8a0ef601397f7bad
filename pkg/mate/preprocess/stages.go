package preprocess

import "github.com/loike/mate-tools/pkg/mate/sentence"

// Tokenizer splits raw text into forms. Implementations decide whether the
// root token is included.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

// Lemmatizer fills the lemma layer in place.
type Lemmatizer interface {
	Apply(s *sentence.Sentence) error
}

// Tagger fills the part of speech layers in place.
type Tagger interface {
	Apply(s *sentence.Sentence) error
}

// MorphTagger fills the feature layer in place.
type MorphTagger interface {
	Apply(s *sentence.Sentence) error
}

// Parser returns a record carrying the dependency layer. The returned
// record replaces the one passed in.
type Parser interface {
	Parse(s *sentence.Sentence) (*sentence.Sentence, error)
}

// Components is the set of stage handles a Preprocessor runs. Any of them
// may be nil.
type Components struct {
	Tokenizer   Tokenizer
	Lemmatizer  Lemmatizer
	Tagger      Tagger
	MorphTagger MorphTagger
	Parser      Parser
}

// Stage identifies one step of the pipeline.
type Stage int

const (
	StageTokenize Stage = iota
	StageLemmatize
	StageMorphTag
	StageTag
	StageParse
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageTokenize, StageLemmatize, StageMorphTag, StageTag, StageParse}

func (s Stage) String() string {
	switch s {
	case StageTokenize:
		return "tokenize"
	case StageLemmatize:
		return "lemmatize"
	case StageMorphTag:
		return "mtag"
	case StageTag:
		return "tag"
	case StageParse:
		return "parse"
	}
	return "unknown"
}

// Has reports whether the component for stage is configured.
func (c Components) Has(stage Stage) bool {
	switch stage {
	case StageTokenize:
		return c.Tokenizer != nil
	case StageLemmatize:
		return c.Lemmatizer != nil
	case StageMorphTag:
		return c.MorphTagger != nil
	case StageTag:
		return c.Tagger != nil
	case StageParse:
		return c.Parser != nil
	}
	return false
}
