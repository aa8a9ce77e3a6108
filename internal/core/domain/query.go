package domain

// SearchOptions configures a vector index search.
type SearchOptions struct {
	// TopK is the maximum number of results. Zero or negative returns none.
	TopK int

	// Source restricts results to chunks from this filename when non-empty.
	Source string
}

// SearchResult is a single retrieval hit. Derived, never stored;
// recomputed on every query.
type SearchResult struct {
	// Text is the chunk content.
	Text string

	// Metadata is the chunk's provenance.
	Metadata Metadata

	// ChunkIndex is the chunk's position within its source document.
	ChunkIndex int

	// Score is the cosine similarity to the query, in [-1, 1].
	Score float64
}

// IndexStats is a read-only snapshot of the vector index.
type IndexStats struct {
	TotalDocuments     int    `json:"total_documents"`
	CollectionName     string `json:"collection_name"`
	EmbeddingModel     string `json:"embedding_model"`
	EmbeddingDimension int    `json:"embedding_dimension"`
}

// QueryOptions configures a RAG engine query.
type QueryOptions struct {
	// UseMemory includes and updates conversation history.
	UseMemory bool

	// TopK overrides the configured retrieval depth when positive.
	TopK int
}

// QueryResult is the outcome of one RAG query. The engine always returns
// a result; failures are reported through Answer, never as an error.
type QueryResult struct {
	// Answer is the generated answer, or an explanatory message when
	// retrieval found nothing or the language model call failed.
	Answer string `json:"answer"`

	// Sources cites the passages that grounded the answer, most
	// relevant first. Empty when nothing was retrieved.
	Sources []SourceCitation `json:"sources"`

	// Query echoes the original question.
	Query string `json:"query"`
}

// SourceCitation is a display-oriented projection of a SearchResult.
type SourceCitation struct {
	// Filename is the source document's name.
	Filename string `json:"filename"`

	// TextPreview is the first 200 characters of the passage,
	// ellipsized when truncated.
	TextPreview string `json:"text_preview"`

	// Score is the similarity score rounded to 3 decimals.
	Score float64 `json:"score"`

	// ScorePercent is Score expressed as a percentage, rounded to 1
	// decimal.
	ScorePercent float64 `json:"score_percent"`

	// Page is the page number when the source is page-based.
	Page int `json:"page,omitempty"`

	// Slide is the slide number when the source is slide-based.
	Slide int `json:"slide,omitempty"`
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is a single message in the session memory.
// Turns are created in pairs after each successful query.
type ConversationTurn struct {
	// Role is RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}

// CompareAspect selects what a document comparison focuses on.
type CompareAspect string

// Available comparison aspects.
const (
	AspectGeneral     CompareAspect = "general"
	AspectMethodology CompareAspect = "methodology"
	AspectFindings    CompareAspect = "findings"
	AspectStructure   CompareAspect = "structure"
	AspectTone        CompareAspect = "tone"
	AspectTimeline    CompareAspect = "timeline"
	AspectAuthors     CompareAspect = "authors"
)

// IsValid returns true if the aspect is recognised.
func (a CompareAspect) IsValid() bool {
	switch a {
	case AspectGeneral, AspectMethodology, AspectFindings,
		AspectStructure, AspectTone, AspectTimeline, AspectAuthors:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (a CompareAspect) String() string {
	return string(a)
}

// Comparison is the outcome of comparing two or more documents.
type Comparison struct {
	// Text is the generated comparison.
	Text string `json:"comparison"`

	// Documents lists the filenames that contributed content, in the
	// order they were requested.
	Documents []string `json:"documents"`

	// Aspect is the comparison focus that was applied.
	Aspect CompareAspect `json:"aspect"`
}

// IngestReport summarises one ingestion batch.
type IngestReport struct {
	// Files is the number of source files processed.
	Files int

	// Documents is the number of parsed documents (pages, slides, files).
	Documents int

	// Chunks is the number of chunks written to the index.
	Chunks int
}
