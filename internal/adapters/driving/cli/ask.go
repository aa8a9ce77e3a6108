package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-off question about your documents",
	Long: `Answers a single question grounded in the indexed documents.

The answer cites the passages it was grounded in, with relevance
scores. One-off questions do not use conversation memory; use
'recall chat' for a conversational session.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of passages to retrieve (0 uses the configured default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if engineService == nil {
		return errors.New("engine not configured")
	}

	result := engineService.Query(cmd.Context(), args[0], domain.QueryOptions{
		TopK: askTopK,
	})

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(result.Answer)
	printSources(cmd, result.Sources)
	return nil
}

func printSources(cmd *cobra.Command, sources []domain.SourceCitation) {
	if len(sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range sources {
		location := ""
		if src.Page > 0 {
			location = fmt.Sprintf(", page %d", src.Page)
		} else if src.Slide > 0 {
			location = fmt.Sprintf(", slide %d", src.Slide)
		}
		cmd.Printf("  [%d] %s%s (%.1f%%)\n", i+1, src.Filename, location, src.ScorePercent)
	}
}
