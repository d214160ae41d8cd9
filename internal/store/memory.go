package store

import (
	"context"
	"sync"

	"github.com/flashforge/backend/internal/domain/flashcard"
)

// MemoryStore keeps sets in memory with the same semantics as SQLiteStore:
// most-recently-added first, subject deduplication on Add, silent no-op
// Update/Remove for unknown subjects. It exists so services and handlers
// can be tested without a database file.
type MemoryStore struct {
	mu   sync.Mutex
	sets []flashcard.Set
}

var _ Store = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(ctx context.Context) ([]flashcard.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]flashcard.Set, len(s.sets))
	for i, set := range s.sets {
		out[i] = flashcard.Set{Subject: set.Subject, Cards: copyCards(set.Cards)}
	}
	return out, nil
}

func (s *MemoryStore) Add(ctx context.Context, subject string, cards []flashcard.Flashcard) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	final := flashcard.UniqueSubject(subject, s.sets)
	s.sets = append([]flashcard.Set{{Subject: final, Cards: copyCards(cards)}}, s.sets...)
	return final, nil
}

func (s *MemoryStore) Update(ctx context.Context, subject string, cards []flashcard.Flashcard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sets {
		if s.sets[i].Subject == subject {
			s.sets[i].Cards = copyCards(cards)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sets {
		if s.sets[i].Subject == subject {
			s.sets = append(s.sets[:i], s.sets[i+1:]...)
			return nil
		}
	}
	return nil
}
