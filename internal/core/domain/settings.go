package domain

import (
	"fmt"
	"strings"
)

// CollectionName is the persisted index collection identifier.
const CollectionName = "documents"

// AIProvider identifies a provider for embeddings or completions.
type AIProvider string

// Available AI providers.
const (
	// AIProviderLocal is the built-in deterministic embedder. It has no
	// completion capability.
	AIProviderLocal AIProvider = "local"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is any OpenAI-compatible chat completions API,
	// including Groq via a custom base URL.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderLocal, AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Settings is the application configuration surface.
// Persisted as TOML; see the config/file adapter.
type Settings struct {
	// DataDir is where the index database and prompts live.
	// Empty means ~/.recall.
	DataDir string `toml:"data_dir"`

	// ChunkSize is the chunk budget in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks of the
	// same document, in characters.
	ChunkOverlap int `toml:"chunk_overlap"`

	// TopKRetrieval is the default number of passages retrieved per query.
	TopKRetrieval int `toml:"top_k_retrieval"`

	// SimilarityThreshold drops retrieval hits scoring below it.
	SimilarityThreshold float64 `toml:"similarity_threshold"`

	// MemoryWindow is the number of question/answer pairs kept in
	// conversation memory.
	MemoryWindow int `toml:"memory_window"`

	// EmbeddingProvider selects the embedding backend.
	EmbeddingProvider AIProvider `toml:"embedding_provider"`

	// EmbeddingModel names the embedding model.
	EmbeddingModel string `toml:"embedding_model"`

	// EmbeddingDimension is the vector size. Constant for the lifetime
	// of one index.
	EmbeddingDimension int `toml:"embedding_dimension"`

	// EmbeddingBaseURL is the embedding API endpoint for remote providers.
	EmbeddingBaseURL string `toml:"embedding_base_url"`

	// LLMProvider selects the completion backend.
	LLMProvider AIProvider `toml:"llm_provider"`

	// LLMModel names the completion model.
	LLMModel string `toml:"llm_model"`

	// LLMBaseURL is the completions API endpoint.
	LLMBaseURL string `toml:"llm_base_url"`

	// LLMAPIKeyEnv names the environment variable holding the API key.
	LLMAPIKeyEnv string `toml:"llm_api_key_env"`

	// LLMTemperature controls answer generation randomness.
	LLMTemperature float64 `toml:"llm_temperature"`

	// LLMMaxTokens bounds answer generation length.
	LLMMaxTokens int `toml:"llm_max_tokens"`

	// SupportedExtensions lists ingestible file extensions (with dot).
	SupportedExtensions []string `toml:"supported_extensions"`

	// MaxFileSizeMB rejects larger uploads before parsing.
	MaxFileSizeMB int `toml:"max_file_size_mb"`
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:           512,
		ChunkOverlap:        50,
		TopKRetrieval:       5,
		SimilarityThreshold: 0.5,
		MemoryWindow:        3,
		EmbeddingProvider:   AIProviderLocal,
		EmbeddingModel:      "hashed-bow",
		EmbeddingDimension:  384,
		LLMProvider:         AIProviderOpenAI,
		LLMModel:            "llama-3.1-8b-instant",
		LLMBaseURL:          "https://api.groq.com/openai/v1",
		LLMAPIKeyEnv:        "GROQ_API_KEY",
		LLMTemperature:      0.1,
		LLMMaxTokens:        1024,
		SupportedExtensions: []string{".pdf", ".docx", ".pptx", ".txt", ".md"},
		MaxFileSizeMB:       1024,
	}
}

// Validate checks the settings for internal consistency.
func (s Settings) Validate() error {
	if s.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", ErrInvalidInput, s.ChunkSize)
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap must be in [0, chunk_size), got %d", ErrInvalidInput, s.ChunkOverlap)
	}
	if s.TopKRetrieval <= 0 {
		return fmt.Errorf("%w: top_k_retrieval must be positive, got %d", ErrInvalidInput, s.TopKRetrieval)
	}
	if s.SimilarityThreshold < -1 || s.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity_threshold must be in [-1, 1], got %g", ErrInvalidInput, s.SimilarityThreshold)
	}
	if s.MemoryWindow < 0 {
		return fmt.Errorf("%w: memory_window must not be negative, got %d", ErrInvalidInput, s.MemoryWindow)
	}
	if s.EmbeddingDimension <= 0 {
		return fmt.Errorf("%w: embedding_dimension must be positive, got %d", ErrInvalidInput, s.EmbeddingDimension)
	}
	if !s.EmbeddingProvider.IsValid() {
		return fmt.Errorf("%w: unknown embedding_provider %q", ErrInvalidInput, s.EmbeddingProvider)
	}
	if !s.LLMProvider.IsValid() {
		return fmt.Errorf("%w: unknown llm_provider %q", ErrInvalidInput, s.LLMProvider)
	}
	if s.MaxFileSizeMB <= 0 {
		return fmt.Errorf("%w: max_file_size_mb must be positive, got %d", ErrInvalidInput, s.MaxFileSizeMB)
	}
	for _, ext := range s.SupportedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidInput, ext)
		}
	}
	return nil
}
