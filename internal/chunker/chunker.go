// Package chunker splits normalised document text into overlapping,
// sentence-aware passages for indexing.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// DefaultChunkSize is the default chunk budget in characters.
const DefaultChunkSize = 512

// DefaultChunkOverlap is the default overlap between consecutive chunks.
const DefaultChunkOverlap = 50

// sentencePattern matches one sentence including its terminator and any
// trailing whitespace, so that consecutive matches partition the text.
var sentencePattern = regexp.MustCompile(`[^.!?]*[.!?]+\s*`)

// Chunker splits documents into overlapping sentence-aware chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk budget in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// The overlap must leave room for new content in every chunk.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Split chunks a single document. Whole sentences are packed into each
// chunk up to the size budget; a sentence that alone exceeds the budget
// is hard-split at the limit. Every chunk after the first is prefixed
// with the tail of the previous chunk, up to the configured overlap.
// Empty or whitespace-only documents yield no chunks.
func (c *Chunker) Split(doc domain.Document) []domain.Chunk {
	if strings.TrimSpace(doc.Text) == "" {
		return nil
	}

	segments := c.segments(doc.Text)
	bodies := c.pack(segments)

	chunks := make([]domain.Chunk, 0, len(bodies))
	carry := ""
	for i, body := range bodies {
		text := carry + body
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			Text:       text,
			Metadata:   doc.Metadata,
			ChunkIndex: i,
			ChunkSize:  len(text),
		})
		carry = overlapTail(body, c.overlap)
	}

	return chunks
}

// SplitAll chunks every document. Overlap never crosses document
// boundaries: each document's chunk sequence starts fresh, and
// ChunkIndex restarts at zero per document.
func (c *Chunker) SplitAll(docs []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for _, doc := range docs {
		chunks = append(chunks, c.Split(doc)...)
	}
	return chunks
}

// segments partitions text into sentence units whose concatenation is
// exactly the input. Text without sentence terminators becomes a single
// segment.
func (c *Chunker) segments(text string) []string {
	locs := sentencePattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	var segs []string
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			segs = append(segs, text[last:loc[0]])
		}
		segs = append(segs, text[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, text[last:])
	}
	return segs
}

// pack groups segments into chunk bodies. Bodies partition the text:
// concatenating them reproduces the input. The first body gets the full
// chunk budget; later bodies reserve room for the overlap prefix.
func (c *Chunker) pack(segments []string) []string {
	var bodies []string
	var cur strings.Builder

	budget := c.chunkSize
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		bodies = append(bodies, cur.String())
		cur.Reset()
		budget = c.chunkSize - c.overlap
	}

	for _, seg := range segments {
		// A single sentence over the budget is hard-split at the limit,
		// backed off so the split never lands inside a multi-byte rune.
		for len(seg) > budget {
			if cur.Len() > 0 {
				flush()
				continue
			}
			cut := budget
			for cut > 0 && !utf8.RuneStart(seg[cut]) {
				cut--
			}
			if cut == 0 {
				_, cut = utf8.DecodeRuneInString(seg)
			}
			cur.WriteString(seg[:cut])
			seg = seg[cut:]
			flush()
		}

		if cur.Len()+len(seg) > budget {
			flush()
		}
		cur.WriteString(seg)
	}
	flush()

	// Drop whitespace-only bodies so no chunk ends up empty after the
	// document's trailing blank runs.
	kept := bodies[:0]
	for _, b := range bodies {
		if strings.TrimSpace(b) != "" {
			kept = append(kept, b)
		}
	}
	return kept
}

// overlapTail returns the trailing portion of body to carry into the
// next chunk, at most max bytes, aligned to a word boundary so the
// overlap never begins mid-word.
func overlapTail(body string, max int) string {
	if max <= 0 || body == "" {
		return ""
	}
	if len(body) <= max {
		return body
	}
	tail := body[len(body)-max:]
	if i := strings.IndexAny(tail, " \t\n"); i >= 0 && i+1 < len(tail) {
		return tail[i+1:]
	}
	for tail != "" && !utf8.RuneStart(tail[0]) {
		tail = tail[1:]
	}
	return tail
}
