package driven

import "context"

// LLMService produces text completions for grounding prompts.
// Treated as an opaque remote collaborator: the engine converts any
// failure into a user-visible answer rather than propagating it.
//
// Implementations may include:
//   - OpenAI-compatible APIs (OpenAI, Groq, LM Studio)
//   - Ollama (local models)
type LLMService interface {
	// Complete produces a text completion from a prompt.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures text generation behaviour.
type CompleteOptions struct {
	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int
}
