package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/services"
)

var contextPDF bool

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the full context file",
}

var contextBuildCmd = &cobra.Command{
	Use:   "build [directory...]",
	Short: "Rebuild the full context file from documents",
	Long: `Concatenates every readable document into a single context file.
Questions asked with --mode full are answered from this file instead
of the chunk indices, which works better for small corpora.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runContextBuild,
}

var contextPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the full context file location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := initContextStore(); err != nil {
			return err
		}
		if contextStore == nil {
			return fmt.Errorf("full context store not configured")
		}
		cmd.Println(contextStore.Path())
		return nil
	},
}

func init() {
	contextBuildCmd.Flags().BoolVar(&contextPDF, "include-pdf", false, "also include .pdf files")
	contextCmd.AddCommand(contextBuildCmd)
	contextCmd.AddCommand(contextPathCmd)
	rootCmd.AddCommand(contextCmd)
}

func runContextBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := initContextStore(); err != nil {
		return err
	}
	if contextStore == nil {
		return fmt.Errorf("full context store not configured")
	}

	builder := services.NewContextBuilder(contextStore)
	count, err := builder.Build(ctx, domain.IngestOptions{
		Directories: args,
		IncludePDF:  contextPDF,
	})
	if err != nil {
		return fmt.Errorf("context build failed: %w", err)
	}

	cmd.Printf("Full context built from %d documents at %s\n", count, contextStore.Path())
	return nil
}
