package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashforge/backend/internal/domain/flashcard"
	"github.com/flashforge/backend/internal/generator"
	"github.com/flashforge/backend/internal/service"
	"github.com/flashforge/backend/internal/store"
)

// genFunc adapts a function to the generator.Generator interface.
type genFunc func(ctx context.Context, subject string, previousQuestions []string) ([]flashcard.Flashcard, error)

func (f genFunc) Generate(ctx context.Context, subject string, previousQuestions []string) ([]flashcard.Flashcard, error) {
	return f(ctx, subject, previousQuestions)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedCards(questions ...string) []flashcard.Flashcard {
	out := make([]flashcard.Flashcard, len(questions))
	for i, q := range questions {
		out[i] = flashcard.Flashcard{Question: q, Answer: "answer to " + q}
	}
	return out
}

func fixedGenerator(cards []flashcard.Flashcard) genFunc {
	return func(ctx context.Context, subject string, prev []string) ([]flashcard.Flashcard, error) {
		return cards, nil
	}
}

func newService(gen generator.Generator) (*service.CardService, *store.MemoryStore) {
	st := store.NewMemory()
	return service.NewCardService(st, gen, discardLogger(), 10*time.Millisecond), st
}

func TestGenerateSet_StoresAndOpensSession(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(fixedGenerator(fixedCards("q1", "q2")))

	sess, err := svc.GenerateSet(ctx, "Go")
	require.NoError(t, err)

	snap := sess.Snapshot()
	assert.Equal(t, "Go", snap.Subject)
	assert.Equal(t, 0, snap.Index)
	assert.False(t, snap.Revealed)
	assert.Len(t, snap.Cards, 2)

	sets, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "Go", sets[0].Subject)

	// The session is registered and retrievable.
	found, err := svc.Session(sess.ID())
	require.NoError(t, err)
	assert.Same(t, sess, found)
}

func TestGenerateSet_DeduplicatesSubject(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(fixedGenerator(fixedCards("q")))

	first, err := svc.GenerateSet(ctx, "Math")
	require.NoError(t, err)
	second, err := svc.GenerateSet(ctx, "Math")
	require.NoError(t, err)

	assert.Equal(t, "Math", first.Subject())
	assert.Equal(t, "Math(1)", second.Subject())
}

func TestGenerateSet_FailureLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	genErr := &generator.GenerateError{Kind: generator.FailParse}
	svc, st := newService(genFunc(func(ctx context.Context, subject string, prev []string) ([]flashcard.Flashcard, error) {
		return nil, genErr
	}))

	_, err := svc.GenerateSet(ctx, "Go")
	require.Error(t, err)
	assert.Equal(t, generator.FailParse, generator.KindOf(err))

	sets, err := st.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sets, "a failed generation must not store anything")
}

func TestAddMore_AppendsPersistsAndAdvances(t *testing.T) {
	ctx := context.Background()

	var promptedWith []string
	gen := genFunc(func(ctx context.Context, subject string, prev []string) ([]flashcard.Flashcard, error) {
		if len(prev) == 0 {
			return fixedCards("q1", "q2"), nil
		}
		promptedWith = prev
		return fixedCards("q3", "q4"), nil
	})

	svc, st := newService(gen)
	sess, err := svc.GenerateSet(ctx, "Go")
	require.NoError(t, err)

	added, err := svc.AddMore(ctx, sess.ID())
	require.NoError(t, err)
	assert.Len(t, added, 2)

	// Continuation saw every existing question.
	assert.Equal(t, []string{"q1", "q2"}, promptedWith)

	snap := sess.Snapshot()
	assert.Len(t, snap.Cards, 4)
	assert.Equal(t, 2, snap.Index, "session should sit on the first appended card")
	assert.False(t, snap.Revealed)

	sets, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Len(t, sets[0].Cards, 4, "the grown set must be persisted")
}

func TestAddMore_FailureIsIdempotent(t *testing.T) {
	ctx := context.Background()

	calls := 0
	gen := genFunc(func(ctx context.Context, subject string, prev []string) ([]flashcard.Flashcard, error) {
		calls++
		if calls == 1 {
			return fixedCards("q1", "q2"), nil
		}
		return nil, &generator.GenerateError{Kind: generator.FailFilter}
	})

	svc, st := newService(gen)
	sess, err := svc.GenerateSet(ctx, "Go")
	require.NoError(t, err)

	before, err := st.List(ctx)
	require.NoError(t, err)
	beforeSnap := sess.Snapshot()

	_, err = svc.AddMore(ctx, sess.ID())
	require.Error(t, err)

	after, err := st.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "store must be byte-identical after a failed continuation")

	snap := sess.Snapshot()
	assert.Equal(t, beforeSnap.Cards, snap.Cards)
	assert.Equal(t, beforeSnap.Index, snap.Index)
	assert.False(t, snap.Generating)
	assert.NotEmpty(t, snap.LastError)
}

func TestAddMore_RejectsConcurrentGeneration(t *testing.T) {
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	gen := genFunc(func(ctx context.Context, subject string, prev []string) ([]flashcard.Flashcard, error) {
		calls++
		if calls == 1 {
			return fixedCards("q1"), nil
		}
		close(started)
		<-release
		return fixedCards("q-later"), nil
	})

	svc, _ := newService(gen)
	sess, err := svc.GenerateSet(ctx, "Go")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.AddMore(ctx, sess.ID())
		done <- err
	}()

	<-started
	_, err = svc.AddMore(ctx, sess.ID())
	assert.ErrorIs(t, err, service.ErrGenerationInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestAddMore_UnknownSession(t *testing.T) {
	svc, _ := newService(fixedGenerator(fixedCards("q")))

	_, err := svc.AddMore(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestOpenStored(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(fixedGenerator(fixedCards("q1", "q2")))

	_, err := st.Add(ctx, "History", fixedCards("h1", "h2", "h3"))
	require.NoError(t, err)

	sess, err := svc.OpenStored(ctx, "History")
	require.NoError(t, err)

	snap := sess.Snapshot()
	assert.Equal(t, "History", snap.Subject)
	assert.Equal(t, 0, snap.Index)
	assert.Len(t, snap.Cards, 3)

	_, err = svc.OpenStored(ctx, "Geography")
	assert.ErrorIs(t, err, service.ErrSetNotFound)
}

func TestDeleteSet(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(fixedGenerator(fixedCards("q")))

	_, err := svc.GenerateSet(ctx, "Go")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSet(ctx, "Go"))

	sets, err := st.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sets)

	// Deleting an unknown subject is silent.
	require.NoError(t, svc.DeleteSet(ctx, "Go"))
}

func TestCloseSession_ForgetsTheSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(fixedGenerator(fixedCards("q")))

	sess, err := svc.GenerateSet(ctx, "Go")
	require.NoError(t, err)

	svc.CloseSession(sess.ID())

	_, err = svc.Session(sess.ID())
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	// Closing twice is harmless.
	svc.CloseSession(sess.ID())
}

func TestGenerateSet_PropagatesStoreFailure(t *testing.T) {
	// A generator that succeeds but a store that cannot be written to:
	// the caller sees the error and no session is opened.
	ctx := context.Background()
	st := failingStore{}
	svc := service.NewCardService(st, fixedGenerator(fixedCards("q")), discardLogger(), time.Millisecond)

	_, err := svc.GenerateSet(ctx, "Go")
	require.Error(t, err)
}

type failingStore struct{}

func (failingStore) List(ctx context.Context) ([]flashcard.Set, error) { return nil, nil }
func (failingStore) Add(ctx context.Context, subject string, cards []flashcard.Flashcard) (string, error) {
	return "", errors.New("disk full")
}
func (failingStore) Update(ctx context.Context, subject string, cards []flashcard.Flashcard) error {
	return errors.New("disk full")
}
func (failingStore) Remove(ctx context.Context, subject string) error { return nil }
