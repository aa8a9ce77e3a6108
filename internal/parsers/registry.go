package parsers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Config holds registry configuration.
type Config struct {
	// MaxFileSizeMB rejects larger files before parsing. Zero disables
	// the size check.
	MaxFileSizeMB int

	// Extensions restricts which file types may be registered (with
	// dot, any case). Empty allows everything a parser reports.
	Extensions []string
}

// Registry dispatches files to the parser registered for their
// extension and enforces the file size limit before parsing.
type Registry struct {
	parsers       map[string]driven.DocumentParser
	allowed       map[string]bool
	maxFileSizeMB int
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	var allowed map[string]bool
	if len(cfg.Extensions) > 0 {
		allowed = make(map[string]bool, len(cfg.Extensions))
		for _, ext := range cfg.Extensions {
			allowed[strings.ToLower(ext)] = true
		}
	}
	return &Registry{
		parsers:       make(map[string]driven.DocumentParser),
		allowed:       allowed,
		maxFileSizeMB: cfg.MaxFileSizeMB,
	}
}

// Register adds a parser for each extension it reports, skipping
// extensions outside the configured allowlist. Later registrations win
// on conflict.
func (r *Registry) Register(parser driven.DocumentParser) {
	for _, ext := range parser.Extensions() {
		ext = strings.ToLower(ext)
		if r.allowed != nil && !r.allowed[ext] {
			continue
		}
		r.parsers[ext] = parser
	}
}

// Parse validates the file and hands it to the matching parser.
func (r *Registry) Parse(ctx context.Context, path string) ([]domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	parser, ok := r.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %s)",
			domain.ErrUnsupportedFile, ext, strings.Join(r.SupportedExtensions(), ", "))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if r.maxFileSizeMB > 0 {
		sizeMB := float64(info.Size()) / (1024 * 1024)
		if sizeMB > float64(r.maxFileSizeMB) {
			return nil, fmt.Errorf("%w: %.1fMB (max %dMB)", domain.ErrFileTooLarge, sizeMB, r.maxFileSizeMB)
		}
	}

	return parser.Parse(ctx, path)
}

// SupportedExtensions returns all registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
