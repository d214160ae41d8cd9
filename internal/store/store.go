package store

import (
	"context"

	"github.com/flashforge/backend/internal/domain/flashcard"
)

// Store is the durable home of flashcard sets. List returns the most
// recently added set first. Update and Remove are silent no-ops when no
// set with the given subject exists; Add deduplicates the subject itself
// and returns the label the set was actually stored under.
type Store interface {
	List(ctx context.Context) ([]flashcard.Set, error)
	Add(ctx context.Context, subject string, cards []flashcard.Flashcard) (string, error)
	Update(ctx context.Context, subject string, cards []flashcard.Flashcard) error
	Remove(ctx context.Context, subject string) error
}
