package ai

import "context"

// Generator is the narrow contract every language-model collaborator
// implements. Both the Gemini and OpenAI adapters satisfy it, and tests
// substitute stubs.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Embedder turns text into a vector for the resume retriever.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Message is one entry of the conversation history the caller maintains.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}
