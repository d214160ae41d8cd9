package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/flashforge/backend/internal/domain/flashcard"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    name TEXT PRIMARY KEY,
    payload TEXT NOT NULL
);
`

// snapshotKey names the single durable value holding every stored set.
const snapshotKey = "flashcard-sets"

// SQLiteStore persists the full set list as one serialized JSON value and
// applies every mutation as read-modify-write. The mutex keeps two
// mutations from interleaving between the read and the write.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// Compile-time check: *SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) List(ctx context.Context) ([]flashcard.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx), nil
}

func (s *SQLiteStore) Add(ctx context.Context, subject string, cards []flashcard.Flashcard) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets := s.load(ctx)
	final := flashcard.UniqueSubject(subject, sets)
	sets = append([]flashcard.Set{{Subject: final, Cards: copyCards(cards)}}, sets...)

	if err := s.save(ctx, sets); err != nil {
		return "", err
	}
	return final, nil
}

func (s *SQLiteStore) Update(ctx context.Context, subject string, cards []flashcard.Flashcard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets := s.load(ctx)
	for i := range sets {
		if sets[i].Subject == subject {
			sets[i].Cards = copyCards(cards)
			return s.save(ctx, sets)
		}
	}
	// Unknown subject: nothing to replace.
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets := s.load(ctx)
	for i := range sets {
		if sets[i].Subject == subject {
			sets = append(sets[:i], sets[i+1:]...)
			return s.save(ctx, sets)
		}
	}
	return nil
}

// load reads and deserializes the snapshot. A missing, unreadable, or
// corrupted value degrades to an empty list, never an error: losing the
// stored sets is recoverable, refusing to start is not.
func (s *SQLiteStore) load(ctx context.Context) []flashcard.Set {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM snapshots WHERE name = ?", snapshotKey,
	).Scan(&payload)
	if err != nil {
		return nil
	}

	var sets []flashcard.Set
	if err := json.Unmarshal([]byte(payload), &sets); err != nil {
		return nil
	}
	return sets
}

func (s *SQLiteStore) save(ctx context.Context, sets []flashcard.Set) error {
	payload, err := json.Marshal(sets)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (name, payload) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload`,
		snapshotKey, string(payload),
	)
	return err
}

func copyCards(cards []flashcard.Flashcard) []flashcard.Flashcard {
	out := make([]flashcard.Flashcard, len(cards))
	copy(out, cards)
	return out
}
