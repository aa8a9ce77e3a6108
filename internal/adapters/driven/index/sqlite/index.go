// Package sqlite implements the vector index on a single SQLite
// database file. Embeddings are stored as little-endian float32 blobs
// and searched with brute-force cosine similarity, which is fast enough
// for the corpus sizes a local knowledge base sees.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/index/sqlite/migrations"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultThreshold is the minimum cosine similarity a result must
// reach to be returned.
const DefaultThreshold = 0.5

// Config holds configuration for the SQLite vector index.
type Config struct {
	// DataDir is where the database file lives. Defaults to
	// ~/.recall/data.
	DataDir string

	// Collection scopes all entries; different collections share the
	// file without seeing each other. Defaults to domain.CollectionName.
	Collection string

	// Threshold is the minimum similarity for search results.
	Threshold float64

	// Embedder converts chunk and query text into vectors.
	Embedder driven.Embedder
}

// Index is a SQLite-backed vector index.
type Index struct {
	db         *sql.DB
	path       string
	collection string
	threshold  float64
	embedder   driven.Embedder

	// Guards writes against concurrent reads per the port contract.
	mu sync.RWMutex
}

// New opens (or creates) the index database and runs migrations.
func New(cfg Config) (*Index, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", domain.ErrInvalidInput)
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".recall", "data")
	}
	if cfg.Collection == "" {
		cfg.Collection = domain.CollectionName
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "index.db")

	// WAL mode keeps reads cheap while a batch write is in flight.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	idx := &Index{
		db:         db,
		path:       dbPath,
		collection: cfg.Collection,
		threshold:  cfg.Threshold,
		embedder:   cfg.Embedder,
	}

	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Debug("vector index open at %s (collection=%s, threshold=%.2f)",
		dbPath, cfg.Collection, cfg.Threshold)

	return idx, nil
}

// Path returns the database file path.
func (idx *Index) Path() string {
	return idx.path
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Index embeds and persists the given chunks in one batch. Any prior
// entries for the same source filenames are replaced, so re-indexing a
// file never leaves stale passages behind.
func (idx *Index) Index(ctx context.Context, chunks []domain.Chunk) (bool, error) {
	if len(chunks) == 0 {
		return false, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return false, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	sources := make(map[string]struct{})
	for _, chunk := range chunks {
		sources[chunk.Metadata.Source] = struct{}{}
	}
	for source := range sources {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM chunks WHERE collection = ? AND source = ?",
			idx.collection, source); err != nil {
			return false, fmt.Errorf("replacing source %s: %w", source, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, collection, source, file_type, page, slide,
			content, chunk_index, chunk_size, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return false, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, chunk := range chunks {
		createdAt := chunk.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := stmt.ExecContext(ctx,
			chunk.ID, idx.collection,
			chunk.Metadata.Source, chunk.Metadata.FileType,
			chunk.Metadata.Page, chunk.Metadata.Slide,
			chunk.Text, chunk.ChunkIndex, chunk.ChunkSize,
			float32SliceToBytes(embeddings[i]), createdAt,
		); err != nil {
			return false, fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing transaction: %w", err)
	}

	logger.Debug("indexed %d chunks from %d sources", len(chunks), len(sources))
	return true, nil
}

// Search embeds the query and returns the most similar passages,
// ordered by descending cosine similarity.
func (idx *Index) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	if opts.TopK <= 0 {
		return []domain.SearchResult{}, nil
	}

	queryVec, err := idx.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	q := `
		SELECT content, source, file_type, page, slide, chunk_index, embedding
		FROM chunks WHERE collection = ?
	`
	args := []any{idx.collection}
	if opts.Source != "" {
		q += " AND source = ?"
		args = append(args, opts.Source)
	}

	rows, err := idx.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	results := []domain.SearchResult{}
	for rows.Next() {
		var r domain.SearchResult
		var blob []byte
		if err := rows.Scan(&r.Text, &r.Metadata.Source, &r.Metadata.FileType,
			&r.Metadata.Page, &r.Metadata.Slide, &r.ChunkIndex, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		score := cosineSimilarity(queryVec, bytesToFloat32Slice(blob))
		// NaN scores (zero-magnitude vectors) are kept and sort last.
		if score < idx.threshold && !math.IsNaN(score) {
			continue
		}
		r.Score = score
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > opts.TopK {
		results = results[:opts.TopK]
	}
	return results, nil
}

// DeleteBySource removes every chunk originating from the given
// source filename.
func (idx *Index) DeleteBySource(ctx context.Context, source string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	_, err := idx.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE collection = ? AND source = ?",
		idx.collection, source)
	if err != nil {
		return fmt.Errorf("deleting source %s: %w", source, err)
	}
	return nil
}

// ClearAll removes all entries in the collection.
func (idx *Index) ClearAll(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	_, err := idx.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE collection = ?", idx.collection)
	if err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	logger.Debug("cleared collection %s", idx.collection)
	return nil
}

// Count returns the number of indexed chunks.
func (idx *Index) Count(ctx context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.count(ctx)
}

// count reads the chunk count; callers hold the lock.
func (idx *Index) count(ctx context.Context) (int, error) {
	var count int
	err := idx.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE collection = ?", idx.collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// Stats returns a read-only snapshot for observability.
func (idx *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	count, err := idx.count(ctx)
	if err != nil {
		return domain.IndexStats{}, err
	}

	return domain.IndexStats{
		TotalDocuments:     count,
		CollectionName:     idx.collection,
		EmbeddingModel:     idx.embedder.ModelName(),
		EmbeddingDimension: idx.embedder.Dimensions(),
	}, nil
}

// Sources returns the distinct source filenames present in the index.
func (idx *Index) Sources(ctx context.Context) ([]string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rows, err := idx.db.QueryContext(ctx,
		"SELECT DISTINCT source FROM chunks WHERE collection = ? ORDER BY source",
		idx.collection)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	return sources, nil
}

// migrate runs all pending migrations.
func (idx *Index) migrate(fsys embed.FS) error {
	_, err := idx.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := idx.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := idx.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := idx.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched lengths score zero; a zero-magnitude operand
// yields NaN.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
