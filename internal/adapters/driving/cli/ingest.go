package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Index documents for question answering",
	Long: `Parses, chunks and indexes the given files.

Supported formats: .pdf, .docx, .pptx, .txt, .md

Re-ingesting a file replaces its previously indexed content.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	report, err := ingestService.IngestFiles(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Indexed %d chunks from %d documents (%d files).\n",
		report.Chunks, report.Documents, report.Files)
	return nil
}
