package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/loike/mate-tools/pkg/mate/conll09"
	"github.com/loike/mate-tools/pkg/mate/lemma"
	"github.com/loike/mate-tools/pkg/mate/lexicon"
	"github.com/loike/mate-tools/pkg/mate/morph"
	"github.com/loike/mate-tools/pkg/mate/parse"
	"github.com/loike/mate-tools/pkg/mate/preprocess"
	"github.com/loike/mate-tools/pkg/mate/store/sqlite"
	"github.com/loike/mate-tools/pkg/mate/tag"
	"github.com/loike/mate-tools/pkg/mate/tokenize"
)

// Loader loads a pipeline configuration and constructs its stages
type Loader struct {
	// Pipeline file; DefaultPipeline is used when empty
	Path string

	// Used instead of reading Path when set
	Pipeline *Pipeline

	Logger *zap.Logger
}

// Components holds the loaded stages and how long each took to load
type Components struct {
	Stages  preprocess.Components
	Lexicon *lexicon.Lexicon

	// Time spent constructing each stage, model files included
	LoadTimes   preprocess.Timings
	LexiconLoad time.Duration
}

// Load reads the configuration and returns initialized components
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	log := l.Logger
	if log == nil {
		log = zap.NewNop()
	}

	p := l.Pipeline
	if p == nil {
		p = DefaultPipeline()
		if l.Path != "" {
			var err error
			if p, err = LoadPipeline(l.Path); err != nil {
				return nil, fmt.Errorf("load pipeline: %w", err)
			}
		}
	} else if err := p.Validate(); err != nil {
		return nil, err
	}

	comp := &Components{}

	start := time.Now()
	lex, source, err := loadLexicon(ctx, p.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	comp.Lexicon = lex
	comp.LexiconLoad = time.Since(start)
	log.Info("lexicon loaded",
		zap.String("source", source),
		zap.Int("forms", lex.Len()),
		zap.Duration("took", comp.LexiconLoad))

	loaded := func(stage preprocess.Stage, kind string, start time.Time) {
		d := time.Since(start)
		comp.LoadTimes.Add(stage, d)
		log.Info("stage loaded",
			zap.Stringer("stage", stage),
			zap.String("kind", kind),
			zap.Duration("took", d))
	}

	if Enabled(p.Tokenizer.Kind) {
		start := time.Now()
		switch p.Tokenizer.Kind {
		case KindWhitespace:
			comp.Stages.Tokenizer = tokenize.Whitespace{}
		default:
			comp.Stages.Tokenizer = tokenize.New(p.Tokenizer.Abbreviations)
		}
		loaded(preprocess.StageTokenize, p.Tokenizer.Kind, start)
	}

	if Enabled(p.Lemmatizer.Kind) {
		start := time.Now()
		switch p.Lemmatizer.Kind {
		case KindIdentity:
			comp.Stages.Lemmatizer = lemma.Identity{}
		default:
			comp.Stages.Lemmatizer = lemma.NewDictionary(lex)
		}
		loaded(preprocess.StageLemmatize, p.Lemmatizer.Kind, start)
	}

	if Enabled(p.MorphTagger.Kind) {
		start := time.Now()
		comp.Stages.MorphTagger = morph.New(lex)
		loaded(preprocess.StageMorphTag, p.MorphTagger.Kind, start)
	}

	if Enabled(p.Tagger.Kind) {
		start := time.Now()
		rules := tag.DefaultRules()
		if p.Tagger.Model != "" {
			if rules, err = tag.LoadRules(p.Tagger.Model); err != nil {
				return nil, fmt.Errorf("load tagger rules: %w", err)
			}
		}
		comp.Stages.Tagger = tag.New(lex, rules)
		loaded(preprocess.StageTag, p.Tagger.Kind, start)
	}

	if Enabled(p.Parser.Kind) {
		start := time.Now()
		grammar := parse.DefaultGrammar()
		if p.Parser.Model != "" {
			if grammar, err = parse.LoadGrammar(p.Parser.Model); err != nil {
				return nil, fmt.Errorf("load grammar: %w", err)
			}
		}
		comp.Stages.Parser = parse.New(grammar)
		loaded(preprocess.StageParse, p.Parser.Kind, start)
	}

	return comp, nil
}

// loadLexicon returns the lexicon and a description of where it came from
func loadLexicon(ctx context.Context, src Lexicon) (*lexicon.Lexicon, string, error) {
	switch {
	case src.YAML != "":
		lex, err := lexicon.LoadYAML(src.YAML)
		return lex, src.YAML, err

	case src.CoNLL != "":
		f, err := os.Open(src.CoNLL)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()

		r := conll09.NewReader(f)
		r.PreferGold = true
		sents, err := r.ReadAll()
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", src.CoNLL, err)
		}
		return lexicon.FromSentences(sents), src.CoNLL, nil

	case src.DB != "":
		st, err := sqlite.OpenSQLite(ctx, src.DB)
		if err != nil {
			return nil, "", err
		}
		defer st.Close()

		records, err := st.Entries(ctx)
		if err != nil {
			return nil, "", err
		}
		return lexicon.FromRecords(records), src.DB, nil
	}
	return lexicon.New(), "empty", nil
}
