package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/loike/mate-tools/pkg/mate/internalerr"
	"github.com/loike/mate-tools/pkg/mate/lexicon"
	"github.com/loike/mate-tools/pkg/mate/sentence"
	"github.com/loike/mate-tools/pkg/mate/store"
)

func TestPutEntriesAccumulates(t *testing.T) {
	ctx := context.Background()
	s := New()

	dog := lexicon.Analysis{Lemma: "dog", POS: "NNS"}
	if err := s.PutEntries(ctx, []lexicon.Record{{Form: "dogs", Analysis: dog, Count: 2}}); err != nil {
		t.Fatalf("PutEntries: %v", err)
	}
	if err := s.PutEntries(ctx, []lexicon.Record{{Form: "dogs", Analysis: dog, Count: 3}}); err != nil {
		t.Fatalf("PutEntries: %v", err)
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Count != 5 {
		t.Errorf("Expected one entry with count 5, got %+v", entries)
	}
}

func TestSentencesKeepOrderAndAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	run := store.NewRunID()

	first := sentence.New(sentence.WithRoot([]string{"one"}))
	second := sentence.New(sentence.WithRoot([]string{"two"}))

	id1, err := s.SaveSentence(ctx, run, first)
	if err != nil {
		t.Fatalf("SaveSentence: %v", err)
	}
	id2, err := s.SaveSentence(ctx, run, second)
	if err != nil {
		t.Fatalf("SaveSentence: %v", err)
	}
	if id1 == id2 {
		t.Error("Sentence IDs should differ")
	}

	first.Forms[1] = "changed"

	got, err := s.Sentences(ctx, run)
	if err != nil {
		t.Fatalf("Sentences: %v", err)
	}
	if len(got) != 2 || got[0].Forms[1] != "one" || got[1].Forms[1] != "two" {
		t.Errorf("Unexpected sentences %v", got)
	}

	got[0].Forms[1] = "mutated"
	again, _ := s.Sentences(ctx, run)
	if again[0].Forms[1] != "one" {
		t.Error("Stored sentence should not change through returned copies")
	}
}

func TestSentencesUnknownRun(t *testing.T) {
	if _, err := New().Sentences(context.Background(), "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSaveSentenceValidates(t *testing.T) {
	s := New()
	if _, err := s.SaveSentence(context.Background(), "", sentence.New(nil)); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty run, got %v", err)
	}
	if _, err := s.SaveSentence(context.Background(), "run", nil); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil sentence, got %v", err)
	}
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.PutEntries(ctx, nil); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("Expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := s.SaveSentence(ctx, "run", sentence.New(nil)); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("Expected ErrStoreUnavailable, got %v", err)
	}
}
