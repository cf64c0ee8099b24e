package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/chunking"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

var (
	retrieveMode   string
	retrieveSource string
	retrieveRerank bool
	retrieveLimit  int
	retrieveJSON   bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [question]",
	Short: "Retrieve relevant chunks without generating an answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runRetrieve,
}

func init() {
	retrieveCmd.Flags().StringVarP(&retrieveMode, "mode", "m", "hybrid", "retrieval mode: semantic, keyword, hybrid or full")
	retrieveCmd.Flags().StringVar(&retrieveSource, "source", "", "restrict retrieval to one source file name")
	retrieveCmd.Flags().BoolVar(&retrieveRerank, "rerank", false, "rerank candidates with the LLM")
	retrieveCmd.Flags().IntVarP(&retrieveLimit, "results", "n", 0, "result cap (0 = mode default)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mode, err := domain.ParseMode(retrieveMode)
	if err != nil {
		return err
	}
	if err := initRetrieval(ctx); err != nil {
		return err
	}

	result, err := retrieveService.Retrieve(ctx, domain.RetrievalRequest{
		Question:     args[0],
		Mode:         mode,
		SourceFilter: retrieveSource,
		Rerank:       retrieveRerank,
		Limit:        retrieveLimit,
	})
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if retrieveJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if result.Empty() {
		cmd.Println("No relevant chunks found.")
		return nil
	}

	cmd.Printf("%d chunks via %s:\n\n", len(result.Chunks), result.ContextSource)
	for i, c := range result.Chunks {
		source, _ := c.Metadata[chunking.KeySource].(string)
		if source == "" {
			source = "unknown"
		}
		if c.HasScore {
			cmd.Printf("  [%d] %s (%.3f, %s)\n", i+1, source, c.Score, c.Origin)
		} else {
			cmd.Printf("  [%d] %s (%s)\n", i+1, source, c.Origin)
		}
		cmd.Printf("      %s\n\n", excerpt(c.Text, 160))
	}
	return nil
}

func excerpt(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
