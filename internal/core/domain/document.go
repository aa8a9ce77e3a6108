// Package domain contains the core business types for Recall.
package domain

import "time"

// Document represents one parsed unit of a source file before chunking.
// Page-based formats (PDF) produce one Document per page; slide-based
// formats (PPTX) one per slide; plain text files a single Document.
type Document struct {
	// Text is the normalised text content.
	Text string

	// Metadata carries provenance for the document and its chunks.
	Metadata Metadata
}

// Metadata describes where a document (or chunk) came from.
type Metadata struct {
	// Source is the original filename, e.g. "report.pdf".
	Source string

	// FileType is the extension without the dot, e.g. "pdf".
	FileType string

	// Page is the 1-based page number for page-based formats, 0 if absent.
	Page int

	// Slide is the 1-based slide number for slide-based formats, 0 if absent.
	Slide int
}

// Chunk is a searchable passage produced by the chunker.
// Chunks are immutable once created; the vector index owns them after
// indexing.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Text is the passage content. Never empty.
	Text string

	// Metadata is inherited from the source document.
	Metadata Metadata

	// ChunkIndex is the ordinal position within the source document's
	// chunk set. Unique per document and monotonic in document order.
	ChunkIndex int

	// ChunkSize is the length of Text in bytes.
	ChunkSize int

	// CreatedAt is when the chunk was indexed.
	CreatedAt time.Time
}
