package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index not configured")
	}

	stats, err := indexService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading index stats failed: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Index Statistics")
	cmd.Println("================")
	cmd.Printf("  Collection: %s\n", stats.CollectionName)
	cmd.Printf("  Indexed chunks: %d\n", stats.TotalDocuments)
	cmd.Printf("  Embedding model: %s\n", stats.EmbeddingModel)
	cmd.Printf("  Embedding dimension: %d\n", stats.EmbeddingDimension)
	return nil
}
