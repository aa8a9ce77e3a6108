// Package cli implements the command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main before Execute runs.
var (
	engineService  driving.Engine
	ingestService  driving.Ingestor
	compareService driving.Comparer
	suggestService driving.Suggester
	indexService   driven.VectorIndex
)

// SetEngine injects the question answering engine.
func SetEngine(e driving.Engine) {
	engineService = e
}

// SetIngestor injects the ingestion service.
func SetIngestor(i driving.Ingestor) {
	ingestService = i
}

// SetComparer injects the document comparison service.
func SetComparer(c driving.Comparer) {
	compareService = c
}

// SetSuggester injects the question suggestion service.
func SetSuggester(s driving.Suggester) {
	suggestService = s
}

// SetIndex injects the vector index for stats and maintenance commands.
func SetIndex(i driven.VectorIndex) {
	indexService = i
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Ask questions about your documents",
	Long: `Recall indexes your documents locally and answers questions about them.

Ingest PDF, DOCX, PPTX, text and markdown files, then ask questions,
compare documents, or start an interactive chat session. All indexing
happens on your machine; only the final question and retrieved passages
are sent to the configured language model.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
