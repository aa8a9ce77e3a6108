package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var suggestCount int

var suggestCmd = &cobra.Command{
	Use:   "suggest [file]",
	Short: "Suggest questions to ask about your documents",
	Long: `Proposes questions your indexed documents can answer.

With a filename argument, suggestions are scoped to that document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestCount, "count", "n", 5, "number of suggestions")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if suggestService == nil {
		return errors.New("suggest service not configured")
	}

	filename := ""
	if len(args) > 0 {
		filename = args[0]
	}

	suggestions := suggestService.Suggest(cmd.Context(), filename, suggestCount)

	cmd.Println("Suggested questions:")
	for i, q := range suggestions {
		cmd.Printf("  %d. %s\n", i+1, q)
	}
	return nil
}
