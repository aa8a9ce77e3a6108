package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var (
	compareAspect string
	compareList   bool
)

var compareCmd = &cobra.Command{
	Use:   "compare [documents...]",
	Short: "Compare two or more indexed documents",
	Long: `Generates a structured comparison of the named documents.

Aspects:
  general      - overall content, themes and main points
  methodology  - methodologies, approaches and techniques
  findings     - key findings, results and conclusions
  structure    - structure, organization and format
  tone         - writing style, tone and audience
  timeline     - dates and chronological aspects
  authors      - authorship, credentials and perspectives

Use --list to see which documents are available for comparison.`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&compareAspect, "aspect", "a", "general", "comparison focus")
	compareCmd.Flags().BoolVar(&compareList, "list", false, "list documents available for comparison")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if compareService == nil {
		return errors.New("compare service not configured")
	}

	if compareList {
		docs, err := compareService.AvailableDocuments(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing documents failed: %w", err)
		}
		if len(docs) == 0 {
			cmd.Println("No documents indexed.")
			return nil
		}
		cmd.Println("Available documents:")
		for _, doc := range docs {
			cmd.Printf("  %s\n", doc)
		}
		return nil
	}

	comparison, err := compareService.Compare(cmd.Context(), args,
		domain.CompareAspect(compareAspect))
	if err != nil {
		var insufficient *domain.InsufficientDataError
		if errors.As(err, &insufficient) {
			cmd.Printf("%v\n", insufficient)
			cmd.Println("Run 'recall compare --list' to see available documents.")
			return nil
		}
		return fmt.Errorf("comparison failed: %w", err)
	}

	cmd.Printf("Comparing %v (aspect: %s)\n\n", comparison.Documents, comparison.Aspect)
	cmd.Println(comparison.Text)
	return nil
}
