package store

import (
	"context"
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/loike/mate-tools/pkg/mate/lexicon"
	"github.com/loike/mate-tools/pkg/mate/sentence"
)

// Store persists lexicon entries and the sentences produced by
// preprocessing runs.
type Store interface {
	Close() error

	// Lexicon. PutEntries adds the counts of records to existing entries.
	PutEntries(ctx context.Context, records []lexicon.Record) error
	Entries(ctx context.Context) ([]lexicon.Record, error)

	// Annotated sentences, grouped by run and kept in insertion order.
	// SaveSentence returns the ID assigned to the sentence.
	SaveSentence(ctx context.Context, run string, s *sentence.Sentence) (string, error)
	Sentences(ctx context.Context, run string) ([]*sentence.Sentence, error)
}

var (
	idMu    sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a new run identifier. IDs sort in creation order.
func NewRunID() string {
	return NewID()
}

// NewID returns a new ULID string. Safe for concurrent use.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}
