package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/logger"
)

var forgetCmd = &cobra.Command{
	Use:   "forget [source]",
	Short: "Remove every chunk ingested from one source document",
	Long: `Deletes all chunks whose source matches the given file name from
the vector and keyword indices. Use the file's base name as shown by
retrieve output, e.g. "acme_pricing.txt".`,
	Args: cobra.ExactArgs(1),
	RunE: runForget,
}

func init() {
	rootCmd.AddCommand(forgetCmd)
}

func runForget(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initIndices(ctx); err != nil {
		return err
	}

	source := args[0]
	if err := vectorIndex.DeleteBySource(ctx, source); err != nil {
		return fmt.Errorf("forget %s: %w", source, err)
	}
	if lexicalIndex != nil {
		if err := lexicalIndex.DeleteBySource(ctx, source); err != nil {
			logger.Warn("Keyword index cleanup failed for %s: %v", source, err)
		}
	}

	cmd.Printf("Removed all chunks from %s\n", source)
	return nil
}
