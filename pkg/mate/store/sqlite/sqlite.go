package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/loike/mate-tools/pkg/mate/conll09"
	"github.com/loike/mate-tools/pkg/mate/internalerr"
	"github.com/loike/mate-tools/pkg/mate/lexicon"
	"github.com/loike/mate-tools/pkg/mate/sentence"
	"github.com/loike/mate-tools/pkg/mate/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS lexicon (
	form TEXT NOT NULL,
	lemma TEXT NOT NULL,
	pos TEXT NOT NULL,
	cpos TEXT NOT NULL,
	feats TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(form, lemma, pos, cpos, feats)
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sentences (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	conll TEXT NOT NULL,
	cpos TEXT,
	UNIQUE(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// PutEntries adds the counts of records to the lexicon table
func (s *sqliteStore) PutEntries(ctx context.Context, records []lexicon.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO lexicon (form, lemma, pos, cpos, feats, count)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(form, lemma, pos, cpos, feats) DO UPDATE SET
	count = count + excluded.count;
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if r.Form == "" || r.Count <= 0 {
			continue
		}
		a := r.Analysis
		if _, err := stmt.ExecContext(ctx, r.Form, a.Lemma, a.POS, a.CPOS, a.Feats, r.Count); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Entries returns every lexicon entry sorted by form
func (s *sqliteStore) Entries(ctx context.Context) ([]lexicon.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT form, lemma, pos, cpos, feats, count
FROM lexicon
ORDER BY form, pos, lemma, cpos, feats;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []lexicon.Record
	for rows.Next() {
		var r lexicon.Record
		if err := rows.Scan(&r.Form, &r.Analysis.Lemma, &r.Analysis.POS, &r.Analysis.CPOS, &r.Analysis.Feats, &r.Count); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveSentence appends sent to run, creating the run on first use
func (s *sqliteStore) SaveSentence(ctx context.Context, run string, sent *sentence.Sentence) (string, error) {
	if run == "" || sent == nil {
		return "", fmt.Errorf("%w: sentence needs a run and a record", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO runs (id, started_at) VALUES (?, ?)`,
		run, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return "", err
	}

	var position int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM sentences WHERE run_id = ?`, run,
	).Scan(&position)
	if err != nil {
		return "", err
	}

	var cpos sql.NullString
	if sent.CPOS != nil {
		cpos = sql.NullString{String: strings.Join(sent.CPOS, conll09.FieldSeparator), Valid: true}
	}

	id := store.NewID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sentences (id, run_id, position, conll, cpos) VALUES (?, ?, ?, ?, ?)`,
		id, run, position, conll09.Format(sent), cpos,
	); err != nil {
		return "", err
	}
	return id, tx.Commit()
}

// Sentences returns the sentences of run in the order they were saved
func (s *sqliteStore) Sentences(ctx context.Context, run string) ([]*sentence.Sentence, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, run).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %s: %w", run, internalerr.ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT conll, cpos FROM sentences WHERE run_id = ? ORDER BY position`, run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*sentence.Sentence
	for rows.Next() {
		var (
			text string
			cpos sql.NullString
		)
		if err := rows.Scan(&text, &cpos); err != nil {
			return nil, err
		}
		sent, err := decode(text, cpos)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", run, err)
		}
		out = append(out, sent)
	}
	return out, rows.Err()
}

func decode(text string, cpos sql.NullString) (*sentence.Sentence, error) {
	sent, err := conll09.NewReader(strings.NewReader(text)).Read()
	if err == io.EOF {
		sent, err = sentence.New(sentence.WithRoot(nil)), nil
	}
	if err != nil {
		return nil, err
	}
	if cpos.Valid {
		layer := strings.Split(cpos.String, conll09.FieldSeparator)
		if len(layer) != sent.Len() {
			return nil, fmt.Errorf("%w: %d coarse tags for %d forms", internalerr.ErrInvalidInput, len(layer), sent.Len())
		}
		sent.CPOS = layer
	}
	return sent, nil
}
