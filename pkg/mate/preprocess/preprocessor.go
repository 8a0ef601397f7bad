package preprocess

import (
	"time"

	"github.com/loike/mate-tools/pkg/mate/internalerr"
	"github.com/loike/mate-tools/pkg/mate/sentence"
)

// Preprocessor runs the configured stages over a sentence:
// lemmatize → morphological tag → tag → parse.
// Tokenization is a separate entry point.
//
// A Preprocessor is not safe for concurrent use. Errors returned by a stage
// are passed back to the caller as they are.
type Preprocessor struct {
	comp    Components
	now     func() time.Time
	timings Timings
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithClock replaces the clock used to time stages.
func WithClock(now func() time.Time) Option {
	return func(p *Preprocessor) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a preprocessor over the given components. Any subset of them
// may be nil.
func New(comp Components, opts ...Option) *Preprocessor {
	p := &Preprocessor{
		comp: comp,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Components returns the configured stage handles.
func (p *Preprocessor) Components() Components {
	return p.comp
}

// Timings returns a snapshot of the cumulative stage durations.
func (p *Preprocessor) Timings() Timings {
	return p.timings
}

// Tokenize splits text with the configured tokenizer.
// It fails with internalerr.ErrNoTokenizer when none is configured.
func (p *Preprocessor) Tokenize(text string) ([]string, error) {
	if p.comp.Tokenizer == nil {
		return nil, internalerr.ErrNoTokenizer
	}
	start := p.now()
	words, err := p.comp.Tokenizer.Tokenize(text)
	if err != nil {
		return nil, err
	}
	p.timings.Add(StageTokenize, p.now().Sub(start))
	return words, nil
}

// Preprocess builds a sentence from forms, which include the root token,
// and runs every configured stage on it.
func (p *Preprocessor) Preprocess(forms []string) (*sentence.Sentence, error) {
	return p.PreprocessSentence(sentence.New(forms))
}

// PreprocessSentence runs every configured stage on s. The returned
// sentence is s itself unless the parser handed back a replacement.
func (p *Preprocessor) PreprocessSentence(s *sentence.Sentence) (*sentence.Sentence, error) {
	if s == nil {
		return nil, internalerr.ErrInvalidInput
	}

	if p.comp.Lemmatizer != nil {
		start := p.now()
		if err := p.comp.Lemmatizer.Apply(s); err != nil {
			return nil, err
		}
		p.timings.Add(StageLemmatize, p.now().Sub(start))
	}

	if p.comp.MorphTagger != nil {
		start := p.now()
		if err := p.comp.MorphTagger.Apply(s); err != nil {
			return nil, err
		}
		p.timings.Add(StageMorphTag, p.now().Sub(start))
	} else {
		// downstream consumers expect the feature layer to be present
		s.Feats = make([]string, s.Len())
	}

	if p.comp.Tagger != nil {
		start := p.now()
		if err := p.comp.Tagger.Apply(s); err != nil {
			return nil, err
		}
		p.timings.Add(StageTag, p.now().Sub(start))
	}

	if p.comp.Parser != nil {
		start := p.now()
		parsed, err := p.comp.Parser.Parse(s)
		if err != nil {
			return nil, err
		}
		if parsed == nil {
			return nil, internalerr.ErrNoResult
		}
		s = parsed
		p.timings.Add(StageParse, p.now().Sub(start))
	}

	return s, nil
}
