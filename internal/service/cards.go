package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flashforge/backend/internal/domain/flashcard"
	"github.com/flashforge/backend/internal/generator"
	"github.com/flashforge/backend/internal/session"
	"github.com/flashforge/backend/internal/store"
)

var (
	ErrSetNotFound     = errors.New("set not found")
	ErrSessionNotFound = errors.New("session not found")
	// ErrGenerationInFlight is returned when a session already has an
	// outstanding generation call; at most one runs at a time.
	ErrGenerationInFlight = errors.New("generation already in flight")
)

// CardService wires the generator and the store together and owns the
// live browsing sessions. It implements the set lifecycle: generate a
// new set, extend an open one, reopen a stored one, delete one.
type CardService struct {
	store  store.Store
	gen    generator.Generator
	logger *slog.Logger

	switchDelay time.Duration

	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewCardService creates a CardService. switchDelay controls how long a
// session's switching flag stays set after navigation; zero means the
// session default.
func NewCardService(s store.Store, g generator.Generator, logger *slog.Logger, switchDelay time.Duration) *CardService {
	return &CardService{
		store:       s,
		gen:         g,
		logger:      logger,
		switchDelay: switchDelay,
		sessions:    make(map[string]*session.Session),
	}
}

// GenerateSet asks the generator for a first batch of cards about the
// subject, stores them under a deduplicated subject label, and opens a
// browsing session positioned on the first card. On failure nothing is
// stored and no session is opened.
func (cs *CardService) GenerateSet(ctx context.Context, subject string) (*session.Session, error) {
	cards, err := cs.gen.Generate(ctx, subject, nil)
	if err != nil {
		cs.logger.Error("generation failed", "subject", subject, "error", err)
		return nil, err
	}

	final, err := cs.store.Add(ctx, subject, cards)
	if err != nil {
		cs.logger.Error("failed to store new set", "subject", subject, "error", err)
		return nil, err
	}

	cs.logger.Info("generated new set", "subject", final, "cards", len(cards))
	return cs.openSession(final, cards), nil
}

// AddMore runs a continuation generation for the session's subject,
// appends the new cards, persists the grown set, and moves the session
// to the first appended card. On failure the session's cards and the
// store are left exactly as they were; only the session's error field
// changes.
func (cs *CardService) AddMore(ctx context.Context, sessionID string) ([]flashcard.Flashcard, error) {
	sess, err := cs.Session(sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.BeginGeneration() {
		return nil, ErrGenerationInFlight
	}

	cards, err := cs.gen.Generate(ctx, sess.Subject(), sess.Questions())
	if err != nil {
		sess.EndGeneration(err)
		cs.logger.Error("continuation failed", "subject", sess.Subject(), "error", err)
		return nil, err
	}

	all := sess.Append(cards)
	if err := cs.store.Update(ctx, sess.Subject(), all); err != nil {
		// The cards are already visible in the session; losing the write
		// only costs durability of this batch.
		cs.logger.Error("failed to persist appended cards", "subject", sess.Subject(), "error", err)
	}
	sess.EndGeneration(nil)

	cs.logger.Info("extended set", "subject", sess.Subject(), "added", len(cards), "total", len(all))
	return cards, nil
}

// ListSets returns every stored set, most recently added first.
func (cs *CardService) ListSets(ctx context.Context) ([]flashcard.Set, error) {
	return cs.store.List(ctx)
}

// OpenStored opens a browsing session over an already stored set.
func (cs *CardService) OpenStored(ctx context.Context, subject string) (*session.Session, error) {
	sets, err := cs.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, set := range sets {
		if set.Subject == subject {
			return cs.openSession(set.Subject, set.Cards), nil
		}
	}
	return nil, ErrSetNotFound
}

// DeleteSet removes a stored set. Unknown subjects are a no-op.
func (cs *CardService) DeleteSet(ctx context.Context, subject string) error {
	return cs.store.Remove(ctx, subject)
}

// Session looks up a live browsing session by ID.
func (cs *CardService) Session(id string) (*session.Session, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	sess, ok := cs.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// CloseSession tears down a browsing session, cancelling its timers.
// Unknown IDs are a no-op.
func (cs *CardService) CloseSession(id string) {
	cs.mu.Lock()
	sess, ok := cs.sessions[id]
	delete(cs.sessions, id)
	cs.mu.Unlock()

	if ok {
		sess.Close()
	}
}

func (cs *CardService) openSession(subject string, cards []flashcard.Flashcard) *session.Session {
	sess := session.New(uuid.NewString(), subject, cards, cs.switchDelay)
	cs.mu.Lock()
	cs.sessions[sess.ID()] = sess
	cs.mu.Unlock()
	return sess
}
