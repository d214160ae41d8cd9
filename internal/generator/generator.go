package generator

import (
	"context"

	"github.com/flashforge/backend/internal/domain/flashcard"
)

// Generator produces flashcards about a subject.
// Implementations may call an LLM or return canned cards (for tests).
//
// When previousQuestions is empty the request is an initial generation;
// when it is non-empty the request is a continuation and the service is
// told which questions already exist so it produces new ones.
type Generator interface {
	Generate(ctx context.Context, subject string, previousQuestions []string) ([]flashcard.Flashcard, error)
}
