package session

import (
	"sync"
	"time"

	"github.com/flashforge/backend/internal/domain/flashcard"
)

// DefaultSwitchDelay is how long the switching flag stays set after a
// position change. The flag debounces input while a card switch is in
// progress, so the window is short.
const DefaultSwitchDelay = 300 * time.Millisecond

// Session is the in-memory state of one card-browsing session: which set
// is open, the current position, whether the answer is revealed, and the
// transient switching flag armed on every position change.
//
// All methods are safe for concurrent use. The switching flag clears
// itself on a timer; Close cancels that timer so a discarded session is
// never mutated afterwards.
type Session struct {
	mu sync.Mutex

	id      string
	subject string
	cards   []flashcard.Flashcard

	index     int
	revealed  bool
	switching bool

	generating bool
	lastError  string

	switchDelay time.Duration
	switchTimer *time.Timer
	closed      bool
}

// Snapshot is a copy of the observable session state.
type Snapshot struct {
	ID         string
	Subject    string
	Cards      []flashcard.Flashcard
	Index      int
	Revealed   bool
	Switching  bool
	Generating bool
	LastError  string
}

// New opens a browsing session positioned on the first card.
func New(id, subject string, cards []flashcard.Flashcard, switchDelay time.Duration) *Session {
	if switchDelay <= 0 {
		switchDelay = DefaultSwitchDelay
	}
	return &Session{
		id:          id,
		subject:     subject,
		cards:       append([]flashcard.Flashcard(nil), cards...),
		switchDelay: switchDelay,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Subject() string {
	return s.subject
}

// Questions returns the question text of every card currently in the
// session, for continuation prompts.
func (s *Session) Questions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return flashcard.Questions(s.cards)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:         s.id,
		Subject:    s.subject,
		Cards:      append([]flashcard.Flashcard(nil), s.cards...),
		Index:      s.index,
		Revealed:   s.revealed,
		Switching:  s.switching,
		Generating: s.generating,
		LastError:  s.lastError,
	}
}

// GoTo moves the current position. Out-of-range targets and the current
// position are silent no-ops; any actual move clears the reveal flag and
// arms the switching flag.
func (s *Session) GoTo(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goTo(index)
}

// Next moves one card forward; a no-op at the last card.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goTo(s.index + 1)
}

// Prev moves one card back; a no-op at the first card.
func (s *Session) Prev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goTo(s.index - 1)
}

// ToggleReveal flips the answer-reveal flag. Independent of switching.
func (s *Session) ToggleReveal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.revealed = !s.revealed
}

// BeginGeneration marks a generation call as in flight. It returns false
// when one is already outstanding: at most one generation per session.
func (s *Session) BeginGeneration() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.generating {
		return false
	}
	s.generating = true
	return true
}

// EndGeneration clears the in-flight flag and records the outcome.
func (s *Session) EndGeneration(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
}

// Append adds newly generated cards and moves the position to the first
// of them, clearing the reveal flag and arming the switching flag. The
// target is clamped into range as a guard; with at least one appended
// card it is always the old length. It returns the full card list for
// persisting.
func (s *Session) Append(cards []flashcard.Flashcard) []flashcard.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return append([]flashcard.Flashcard(nil), s.cards...)
	}

	firstNew := len(s.cards)
	s.cards = append(s.cards, cards...)

	if firstNew > len(s.cards)-1 {
		firstNew = len(s.cards) - 1
	}
	s.goTo(firstNew)

	return append([]flashcard.Flashcard(nil), s.cards...)
}

// Close tears the session down and cancels the switch timer so it cannot
// fire against a discarded session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.switchTimer != nil {
		s.switchTimer.Stop()
		s.switchTimer = nil
	}
}

// goTo holds the actual transition rules. Callers must hold s.mu.
func (s *Session) goTo(index int) {
	if s.closed || index == s.index || index < 0 || index > len(s.cards)-1 {
		return
	}
	s.index = index
	s.revealed = false
	s.armSwitch()
}

// armSwitch sets the switching flag and (re)starts the timer that clears
// it. Callers must hold s.mu.
func (s *Session) armSwitch() {
	s.switching = true
	if s.switchTimer != nil {
		s.switchTimer.Stop()
	}
	s.switchTimer = time.AfterFunc(s.switchDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		s.switching = false
	})
}
