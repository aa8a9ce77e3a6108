// Command recall is a local-first document question answering tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/recall-cli/internal/adapters/driven/config/file"
	localembed "github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/custodia-labs/recall-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/recall-cli/internal/adapters/driven/index/sqlite"
	ollamallm "github.com/custodia-labs/recall-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/recall-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/recall-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/recall-cli/internal/chunker"
	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/services"
	"github.com/custodia-labs/recall-cli/internal/logger"
	"github.com/custodia-labs/recall-cli/internal/parsers"
	"github.com/custodia-labs/recall-cli/internal/parsers/docx"
	"github.com/custodia-labs/recall-cli/internal/parsers/pdf"
	"github.com/custodia-labs/recall-cli/internal/parsers/plaintext"
	"github.com/custodia-labs/recall-cli/internal/parsers/pptx"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	settingsStore, err := file.NewSettingsStore("")
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	settings, err := settingsStore.Load()
	if err != nil {
		logger.Warn("Using default settings: %v", err)
	}

	embedder := buildEmbedder(settings)

	index, err := sqlite.New(sqlite.Config{
		DataDir:   settings.DataDir,
		Threshold: settings.SimilarityThreshold,
		Embedder:  embedder,
	})
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer index.Close() //nolint:errcheck // exiting anyway

	registry := parsers.NewRegistry(parsers.Config{
		MaxFileSizeMB: settings.MaxFileSizeMB,
		Extensions:    settings.SupportedExtensions,
	})
	registry.Register(plaintext.New())
	registry.Register(pdf.New())
	registry.Register(docx.New())
	registry.Register(pptx.New())

	splitter := chunker.New(
		chunker.WithChunkSize(settings.ChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	)

	cli.SetIngestor(services.NewIngestService(registry, splitter, index))
	cli.SetIndex(index)
	cli.SetVersion(version)

	prompts, err := file.NewPromptStore(promptDir(settings))
	if err != nil {
		logger.Warn("Prompt store unavailable, using built-in prompts: %v", err)
		prompts = nil
	} else {
		go func() {
			if err := prompts.Watch(ctx); err != nil {
				logger.Warn("Prompt watcher stopped: %v", err)
			}
		}()
	}

	llm, err := buildLLM(settings)
	if err != nil {
		logger.Warn("Language model unavailable: %v", err)
		logger.Warn("ask, chat, compare and suggest are disabled; ingest and stats still work")
	} else {
		var promptStore driven.PromptStore
		if prompts != nil {
			promptStore = prompts
		}
		cli.SetEngine(services.NewEngine(index, llm, promptStore, services.EngineConfig{
			TopK:         settings.TopKRetrieval,
			Temperature:  &settings.LLMTemperature,
			MaxTokens:    settings.LLMMaxTokens,
			MemoryWindow: settings.MemoryWindow,
		}))
		cli.SetComparer(services.NewCompareService(index, llm))
		cli.SetSuggester(services.NewSuggestService(index, llm, promptStore))
	}

	return cli.Execute()
}

func buildEmbedder(settings domain.Settings) driven.Embedder {
	switch settings.EmbeddingProvider {
	case domain.AIProviderOllama:
		return ollamaembed.New(ollamaembed.Config{
			BaseURL:    settings.EmbeddingBaseURL,
			Model:      settings.EmbeddingModel,
			Dimensions: settings.EmbeddingDimension,
		})
	default:
		return localembed.New(localembed.Config{
			Model:      settings.EmbeddingModel,
			Dimensions: settings.EmbeddingDimension,
		})
	}
}

func buildLLM(settings domain.Settings) (driven.LLMService, error) {
	switch settings.LLMProvider {
	case domain.AIProviderOllama:
		return ollamallm.New(ollamallm.Config{
			BaseURL: settings.LLMBaseURL,
			Model:   settings.LLMModel,
		}), nil
	default:
		apiKey := os.Getenv(settings.LLMAPIKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("%s is not set", settings.LLMAPIKeyEnv)
		}
		return openaillm.New(openaillm.Config{
			APIKey:  apiKey,
			BaseURL: settings.LLMBaseURL,
			Model:   settings.LLMModel,
		})
	}
}

func promptDir(settings domain.Settings) string {
	if settings.DataDir == "" {
		return ""
	}
	return filepath.Join(settings.DataDir, "prompts")
}
