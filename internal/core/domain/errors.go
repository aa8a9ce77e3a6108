package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFile indicates a file extension outside the
	// supported set, or one with no registered parser.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrFileTooLarge indicates a file exceeding the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrEmbedding indicates the embedding model failed to load or to
	// produce a vector for non-empty input.
	ErrEmbedding = errors.New("embedding failed")

	// ErrRetrieval indicates a vector index initialisation, search or
	// write failure. May be transient (disk I/O).
	ErrRetrieval = errors.New("retrieval failed")

	// ErrLLMUnavailable indicates the language model service is not
	// configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrInsufficientDocuments indicates fewer than two documents had
	// retrievable content for a comparison.
	ErrInsufficientDocuments = errors.New("insufficient documents for comparison")
)

// InsufficientDataError reports which documents had retrievable content
// when a comparison could not proceed. It unwraps to
// ErrInsufficientDocuments.
type InsufficientDataError struct {
	// Found lists the requested documents that did have indexed content.
	Found []string
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	if len(e.Found) == 0 {
		return "could not find content for any of the requested documents"
	}
	return fmt.Sprintf("could not find enough content to compare; found: [%s]",
		strings.Join(e.Found, ", "))
}

// Unwrap allows errors.Is(err, ErrInsufficientDocuments).
func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientDocuments
}
