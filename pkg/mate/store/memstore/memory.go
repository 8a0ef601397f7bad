package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/loike/mate-tools/pkg/mate/internalerr"
	"github.com/loike/mate-tools/pkg/mate/lexicon"
	"github.com/loike/mate-tools/pkg/mate/sentence"
	"github.com/loike/mate-tools/pkg/mate/store"
)

// Store is an in-memory implementation of store.Store for tests and dry
// runs.
type Store struct {
	mu     sync.RWMutex
	lex    *lexicon.Lexicon
	runs   map[string][]*sentence.Sentence
	closed bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		lex:  lexicon.New(),
		runs: make(map[string][]*sentence.Sentence),
	}
}

var _ store.Store = (*Store)(nil)

// Close implements store.Store. Later calls fail with
// internalerr.ErrStoreUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// PutEntries adds the counts of records to the stored lexicon.
func (s *Store) PutEntries(ctx context.Context, records []lexicon.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return internalerr.ErrStoreUnavailable
	}
	for _, r := range records {
		s.lex.Add(r.Form, r.Analysis, r.Count)
	}
	return nil
}

// Entries returns every lexicon entry sorted by form.
func (s *Store) Entries(ctx context.Context) ([]lexicon.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, internalerr.ErrStoreUnavailable
	}
	return s.lex.Records(), nil
}

// SaveSentence stores a copy of sent under run.
func (s *Store) SaveSentence(ctx context.Context, run string, sent *sentence.Sentence) (string, error) {
	if run == "" || sent == nil {
		return "", fmt.Errorf("%w: sentence needs a run and a record", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", internalerr.ErrStoreUnavailable
	}
	s.runs[run] = append(s.runs[run], sent.Clone())
	return store.NewID(), nil
}

// Sentences returns copies of the sentences of run in the order they were
// saved.
func (s *Store) Sentences(ctx context.Context, run string) ([]*sentence.Sentence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, internalerr.ErrStoreUnavailable
	}
	saved, ok := s.runs[run]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", run, internalerr.ErrNotFound)
	}
	out := make([]*sentence.Sentence, len(saved))
	for i, sent := range saved {
		out[i] = sent.Clone()
	}
	return out, nil
}
