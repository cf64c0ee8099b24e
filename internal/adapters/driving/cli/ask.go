package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

var (
	askMode   string
	askSource string
	askRerank bool
	askLimit  int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question answered from your documents",
	Long: `Retrieves the most relevant chunks for the question and generates
an answer grounded strictly in them. The model is instructed to cite
sources and to refuse when the context does not contain the answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMode, "mode", "m", "semantic", "retrieval mode: semantic, keyword, hybrid or full")
	askCmd.Flags().StringVar(&askSource, "source", "", "restrict retrieval to one source file name")
	askCmd.Flags().BoolVar(&askRerank, "rerank", true, "rerank candidates with the LLM before answering")
	askCmd.Flags().IntVarP(&askLimit, "results", "n", 0, "context chunk cap (0 = mode default)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mode, err := domain.ParseMode(askMode)
	if err != nil {
		return err
	}
	if err := initAnswering(ctx); err != nil {
		return err
	}

	answer, err := answerService.Ask(ctx, domain.RetrievalRequest{
		Question:     args[0],
		Mode:         mode,
		SourceFilter: askSource,
		Rerank:       askRerank,
		Limit:        askLimit,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	if answer.Grounded {
		cmd.Println()
		cmd.Printf("(%d chunks via %s, model %s)\n", answer.ChunksUsed, answer.Mode, answer.Model)
		if len(answer.Sources) > 0 {
			cmd.Printf("Sources: %s\n", strings.Join(answer.Sources, ", "))
		}
	}
	return nil
}
