package generator

import (
	"strings"

	"github.com/flashforge/backend/internal/domain/flashcard"
)

// maxQuestionWords caps how long a generated question may be. The prompt
// asks for under 30 words; ParseCards output that ignores the cap is
// dropped by FilterCards.
const maxQuestionWords = 30

// ParseCards scans raw response text for repeating "Q: ... A: ..." units.
// The question span runs from a "Q:" marker to the first "A:"; the answer
// span runs to the next "Q:" marker or the end of the text. Both spans
// are trimmed of surrounding whitespace; units with an empty question or
// answer are skipped.
func ParseCards(text string) []flashcard.Flashcard {
	var cards []flashcard.Flashcard

	chunks := strings.Split(text, "Q:")
	if len(chunks) < 2 {
		return nil
	}

	// chunks[0] is whatever preamble the model emitted before the first card.
	for _, chunk := range chunks[1:] {
		qa := strings.SplitN(chunk, "A:", 2)
		if len(qa) != 2 {
			continue
		}
		question := strings.TrimSpace(qa[0])
		answer := strings.TrimSpace(qa[1])
		if question == "" || answer == "" {
			continue
		}
		cards = append(cards, flashcard.Flashcard{Question: question, Answer: answer})
	}

	return cards
}

// FilterCards drops cards whose question has maxQuestionWords or more
// whitespace-delimited words, defending against the service ignoring the
// length constraint in the prompt.
func FilterCards(cards []flashcard.Flashcard) []flashcard.Flashcard {
	kept := make([]flashcard.Flashcard, 0, len(cards))
	for _, c := range cards {
		if len(strings.Fields(c.Question)) < maxQuestionWords {
			kept = append(kept, c)
		}
	}
	return kept
}
