package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	clearSource string
	clearYes    bool
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove indexed documents",
	Long: `Removes all indexed content, or a single document with --source.

Clearing is idempotent: clearing an empty index succeeds.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().StringVarP(&clearSource, "source", "s", "", "remove only this document's chunks")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index not configured")
	}

	if clearSource != "" {
		if err := indexService.DeleteBySource(cmd.Context(), clearSource); err != nil {
			return fmt.Errorf("removing %s failed: %w", clearSource, err)
		}
		cmd.Printf("Removed indexed content for %s.\n", clearSource)
		return nil
	}

	count, err := indexService.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading index failed: %w", err)
	}
	if count == 0 {
		cmd.Println("Index is already empty.")
		return nil
	}

	if !clearYes {
		cmd.Printf("This will delete all %d indexed chunks. Continue? [y/N]: ", count)
		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n') //nolint:errcheck // CLI prompt, error ignored for UX
		if answer := strings.ToLower(strings.TrimSpace(input)); answer != "y" && answer != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := indexService.ClearAll(cmd.Context()); err != nil {
		return fmt.Errorf("clearing index failed: %w", err)
	}

	if engineService != nil {
		engineService.ClearMemory()
	}

	cmd.Printf("Cleared %d indexed chunks.\n", count)
	return nil
}
