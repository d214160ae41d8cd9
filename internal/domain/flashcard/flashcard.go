package flashcard

// Flashcard is a single question/answer study card. Cards are immutable
// once produced by parsing a generation response.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Set is a named, ordered sequence of flashcards. Subject is the unique
// key the set is persisted under; cards keep insertion order, with later
// generation batches appended at the end.
type Set struct {
	Subject string      `json:"subject"`
	Cards   []Flashcard `json:"flashcards"`
}

// Questions returns the question text of every card, in order. Used to
// build continuation prompts that must avoid repeating known questions.
func Questions(cards []Flashcard) []string {
	questions := make([]string, len(cards))
	for i, c := range cards {
		questions[i] = c.Question
	}
	return questions
}
