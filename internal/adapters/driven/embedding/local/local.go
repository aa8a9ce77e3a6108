// Package local provides a fully offline embedding service built on
// hashed bag-of-words vectors. It requires no external model server and
// produces deterministic embeddings, which makes it the default backend
// and the one used in tests.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// Default configuration values.
const (
	DefaultModel      = "hashed-bow"
	DefaultDimensions = 384
)

// tokenPattern extracts lowercase word tokens. Digits and punctuation
// are dropped so "30 days" and "thirty days" hash consistently on the
// word content.
var tokenPattern = regexp.MustCompile(`[a-zA-Z]+`)

// stopwords are high-frequency words excluded from the vector so they
// do not dominate similarity between otherwise unrelated texts.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {},
}

// Config holds configuration for the local embedding service.
type Config struct {
	// Model is a label reported through ModelName (default: hashed-bow).
	Model string

	// Dimensions is the embedding vector size (default: 384).
	Dimensions int
}

// Embedder generates deterministic hashed bag-of-words embeddings.
type Embedder struct {
	model      string
	dimensions int

	initOnce sync.Once
}

// New creates a local embedding service. The vocabulary table is built
// lazily on first use so construction stays cheap.
func New(cfg Config) *Embedder {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &Embedder{
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// init performs one-time setup. The hashed model has no weights to
// load, but first use is still logged once so verbose runs show which
// backend answered.
func (e *Embedder) init() {
	e.initOnce.Do(func() {
		logger.Debug("local embedder ready (model=%s, dimensions=%d)", e.model, e.dimensions)
	})
}

// Embed generates a vector embedding for the given text. Empty or
// whitespace-only input yields the zero vector, never an error.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.init()

	vec := make([]float32, e.dimensions)
	if strings.TrimSpace(text) == "" {
		return vec, nil
	}

	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, skip := stopwords[token]; skip {
			continue
		}
		vec[e.bucket(token)]++
	}

	normalize(vec)
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts. The result is
// order-preserving and always has the same length as the input.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// EmbedQuery generates an embedding for a search query. The hashed
// model has no separate query mode, so this is identical to Embed.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.Embed(ctx, text)
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// ModelName returns the name of the embedding model being used.
func (e *Embedder) ModelName() string {
	return e.model
}

// Close releases resources.
func (e *Embedder) Close() error {
	return nil
}

// bucket maps a token to a vector index via FNV-1a.
func (e *Embedder) bucket(token string) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % uint32(e.dimensions))
}

// normalize scales vec to unit length in place. The zero vector is
// left untouched.
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
