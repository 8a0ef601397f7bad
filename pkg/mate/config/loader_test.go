package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/loike/mate-tools/pkg/mate/internalerr"
	"github.com/loike/mate-tools/pkg/mate/lexicon"
	"github.com/loike/mate-tools/pkg/mate/preprocess"
	"github.com/loike/mate-tools/pkg/mate/sentence"
	"github.com/loike/mate-tools/pkg/mate/store/sqlite"
)

const training = "1\tThe\tthe\t_\tDT\t_\t_\t_\t2\t_\tNMOD\t_\t_\t_\n" +
	"2\tdogs\tdog\t_\tNNS\t_\tnum=pl\t_\t3\t_\tSBJ\t_\t_\t_\n" +
	"3\tbark\tbark\t_\tVBP\t_\t_\t_\t0\t_\tROOT\t_\t_\t_\n" +
	"4\t.\t.\t_\t.\t_\t_\t_\t3\t_\tP\t_\t_\t_\n"

func TestLoaderDefaults(t *testing.T) {
	comp, err := (&Loader{}).Load(context.Background())
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}

	for _, stage := range preprocess.Stages {
		if !comp.Stages.Has(stage) {
			t.Errorf("Stage %s should be configured", stage)
		}
		if comp.LoadTimes.Get(stage) < 0 {
			t.Errorf("Stage %s has negative load time", stage)
		}
	}
	if comp.Lexicon == nil || comp.Lexicon.Len() != 0 {
		t.Error("Default lexicon should be empty")
	}
}

func TestLoaderFromCoNLL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "train.conll09", training)
	path := writeFile(t, dir, "pipeline.yaml", "lexicon:\n  conll: train.conll09\n")

	core, logs := observer.New(zap.InfoLevel)
	loader := Loader{Path: path, Logger: zap.New(core)}

	comp, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Lexicon.Len() != 4 {
		t.Errorf("Expected 4 forms, got %d", comp.Lexicon.Len())
	}
	if logs.FilterMessage("lexicon loaded").Len() != 1 {
		t.Error("Lexicon load should be logged")
	}
	if logs.FilterMessage("stage loaded").Len() != len(preprocess.Stages) {
		t.Errorf("Expected one log entry per stage, got %d", logs.FilterMessage("stage loaded").Len())
	}

	p := preprocess.New(comp.Stages)
	forms, err := p.Tokenize("The dogs bark.")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	s, err := p.Preprocess(forms)
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}

	if strings.Join(s.Lemmas[1:], " ") != "the dog bark ." {
		t.Errorf("Unexpected lemmas %v", s.Lemmas)
	}
	if strings.Join(s.POS[1:], " ") != "DT NNS VBP ." {
		t.Errorf("Unexpected tags %v", s.POS)
	}
	if s.Feats[2] != "num=pl" {
		t.Errorf("Unexpected feats %v", s.Feats)
	}
	if s.Heads[3] != 0 || s.Heads[2] != 3 {
		t.Errorf("Unexpected heads %v", s.Heads)
	}
}

func TestLoaderFromDB(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "mate.db")

	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	err = st.PutEntries(ctx, []lexicon.Record{
		{Form: "geese", Analysis: lexicon.Analysis{Lemma: "goose", POS: "NNS"}, Count: 1},
	})
	st.Close()
	if err != nil {
		t.Fatalf("PutEntries: %v", err)
	}

	p := DefaultPipeline()
	p.Lexicon.DB = dbPath
	p.Parser.Kind = KindNone

	comp, err := (&Loader{Pipeline: p}).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Stages.Parser != nil {
		t.Error("Parser should be disabled")
	}

	s, err := preprocess.New(comp.Stages).Preprocess(sentence.WithRoot([]string{"geese"}))
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if s.Lemmas[1] != "goose" || s.POS[1] != "NNS" {
		t.Errorf("Expected goose/NNS, got %s/%s", s.Lemmas[1], s.POS[1])
	}
}

func TestLoaderOnlyTagger(t *testing.T) {
	p := &Pipeline{Tagger: Stage{Kind: KindLexicon}}

	comp, err := (&Loader{Pipeline: p}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, stage := range preprocess.Stages {
		if comp.Stages.Has(stage) != (stage == preprocess.StageTag) {
			t.Errorf("Stage %s: configured = %v", stage, comp.Stages.Has(stage))
		}
	}
}

func TestLoaderErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := (&Loader{Path: "/nonexistent/pipeline.yaml"}).Load(ctx); err == nil {
		t.Error("Should error on nonexistent pipeline file")
	}

	p := DefaultPipeline()
	p.Lexicon.YAML = "/nonexistent/lexicon.yaml"
	if _, err := (&Loader{Pipeline: p}).Load(ctx); err == nil {
		t.Error("Should error on nonexistent lexicon")
	}

	p = DefaultPipeline()
	p.Parser.Model = "/nonexistent/grammar.yaml"
	if _, err := (&Loader{Pipeline: p}).Load(ctx); err == nil {
		t.Error("Should error on nonexistent grammar")
	}

	dir := t.TempDir()
	p = DefaultPipeline()
	p.Lexicon.CoNLL = writeFile(t, dir, "bad.conll09", "1\tdog\n")
	if _, err := (&Loader{Pipeline: p}).Load(ctx); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for malformed training data, got %v", err)
	}

	p = DefaultPipeline()
	p.Tagger.Kind = "hmm"
	if _, err := (&Loader{Pipeline: p}).Load(ctx); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
