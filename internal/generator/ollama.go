package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/flashforge/backend/internal/domain/flashcard"
)

// OllamaGenerator produces flashcards by calling an OpenAI-compatible LLM
// endpoint (Ollama, LM Studio, vLLM, etc.).
type OllamaGenerator struct {
	url    string       // e.g. "http://localhost:1234"
	model  string       // e.g. "qwen3-8b"
	client *http.Client // reused across calls
}

// Compile-time check: *OllamaGenerator satisfies the Generator interface.
var _ Generator = (*OllamaGenerator)(nil)

// NewOllamaGenerator creates a generator that calls the given LLM endpoint.
func NewOllamaGenerator(url, model string) *OllamaGenerator {
	return &OllamaGenerator{
		url:   url,
		model: model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// batchSize is how many cards each request asks for. The service may
// return fewer; anything past the parse and length filter is accepted.
const batchSize = 5

// Generate builds the prompt for the request mode, performs a single call
// to the LLM, and returns the parsed, length-filtered cards. There is no
// automatic retry: a failure surfaces immediately and the caller decides
// whether to ask again.
func (g *OllamaGenerator) Generate(ctx context.Context, subject string, previousQuestions []string) ([]flashcard.Flashcard, error) {
	var prompt string
	if len(previousQuestions) == 0 {
		prompt = buildInitialPrompt(subject)
	} else {
		prompt = buildContinuationPrompt(subject, previousQuestions)
	}

	raw, err := g.callLLM(ctx, prompt)
	if err != nil {
		return nil, &GenerateError{Kind: FailTransport, Wrapped: err}
	}

	cards := ParseCards(raw)
	if len(cards) == 0 {
		return nil, &GenerateError{Kind: FailParse}
	}

	kept := FilterCards(cards)
	if len(kept) == 0 {
		return nil, &GenerateError{Kind: FailFilter}
	}

	return kept, nil
}

// ============================================================================
// LLM communication
// ============================================================================

type llmRequest struct {
	Model       string       `json:"model"`
	Messages    []llmMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
}

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// callLLM sends a single request to the LLM and returns the raw text response.
func (g *OllamaGenerator) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := llmRequest{
		Model: g.model,
		Messages: []llmMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM returned status %d", resp.StatusCode)
	}

	var llmResp llmResponse
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", fmt.Errorf("failed to decode LLM response: %w", err)
	}

	if len(llmResp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	content := llmResp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("LLM returned empty content")
	}

	return content, nil
}

// ============================================================================
// Prompt builders — kept short and directive for small (4-8B) models.
//
// Both prompts pin the output to the Q:/A: grammar ParseCards understands,
// state the grammar last so it's the freshest thing the model sees, and
// cap question and answer length so cards fit on a screen.
// ============================================================================

// buildInitialPrompt asks for the first batch of cards about a subject.
func buildInitialPrompt(subject string) string {
	return fmt.Sprintf(`/no_think
Generate exactly %d study flashcards about "%s".

RULES:
- Each question must be under 30 words.
- Each answer must be under 30 words.
- Cover distinct aspects of the subject, no duplicates.

Respond with ONLY the cards, nothing else, in this exact format:
Q: <question> A: <answer>
Q: <question> A: <answer>`, batchSize, subject)
}

// buildContinuationPrompt asks for additional cards about a subject the
// user already has cards for, enumerating every existing question so the
// model does not repeat them.
func buildContinuationPrompt(subject string, previousQuestions []string) string {
	var b strings.Builder
	for i, q := range previousQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}

	return fmt.Sprintf(`/no_think
Generate %d additional study flashcards about "%s".

The user already has these questions — do NOT repeat or rephrase them:
%s
RULES:
- Each question must be under 30 words.
- Each answer must be under 30 words.
- Every new question must cover ground the existing questions do not.

Respond with ONLY the cards, nothing else, in this exact format:
Q: <question> A: <answer>
Q: <question> A: <answer>`, batchSize, subject, b.String())
}
