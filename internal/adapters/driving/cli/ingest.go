package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/quarry-labs/quarry-cli/internal/adapters/driven/config/file"
	"github.com/quarry-labs/quarry-cli/internal/chunking"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/watch"
)

var (
	ingestChunkSize  int
	ingestOverlap    int
	ingestWordMode   bool
	ingestPDF        bool
	ingestExclude    []string
	ingestPriority   []string
	ingestLimit      int
	ingestDryRun     bool
	ingestBatchSize  int
	ingestStrategies []string
	ingestWatch      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory...]",
	Short: "Chunk and index documents",
	Long: `Walks the given directories, chunks every readable document and
commits the chunks to the vector and keyword indices. Failures are
isolated per file; the run always completes and reports a summary.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", 512, "chunk budget in words")
	ingestCmd.Flags().IntVar(&ingestOverlap, "overlap", 64, "overlap budget in words")
	ingestCmd.Flags().BoolVar(&ingestWordMode, "words", false, "split by word windows instead of sentences")
	ingestCmd.Flags().BoolVar(&ingestPDF, "include-pdf", false, "also ingest .pdf files")
	ingestCmd.Flags().StringSliceVar(&ingestExclude, "exclude-ext", nil, "file extensions to skip")
	ingestCmd.Flags().StringSliceVar(&ingestPriority, "priority", nil, "directory names in descending priority")
	ingestCmd.Flags().IntVar(&ingestLimit, "limit", 0, "stop after this many committed chunks (0 = unlimited)")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "list the file set without indexing")
	ingestCmd.Flags().IntVar(&ingestBatchSize, "batch-size", 0, "chunks per commit batch (0 = default)")
	ingestCmd.Flags().StringSliceVar(&ingestStrategies, "strategy", nil, "chunking strategies to run (default: all)")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "keep running and re-ingest on file changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := validateChunkFlags(); err != nil {
		return err
	}
	if err := initIngestion(ctx); err != nil {
		return err
	}

	opts := domain.IngestOptions{
		Directories:       args,
		Strategies:        ingestStrategies,
		ChunkSize:         ingestChunkSize,
		Overlap:           ingestOverlap,
		PreserveSentences: !ingestWordMode,
		IncludePDF:        ingestPDF,
		ExcludeExts:       ingestExclude,
		PriorityOrder:     ingestPriority,
		Limit:             ingestLimit,
		DryRun:            ingestDryRun,
		BatchSize:         ingestBatchSize,
	}
	if cfg, err := loadConfig(); err == nil {
		opts.Epoch = cfg.GetInt(configfile.KeyIngestEpoch)
		if len(opts.PriorityOrder) == 0 {
			opts.PriorityOrder = cfg.GetStringSlice(configfile.KeyIngestPriority)
		}
	}

	runOnce := func() error {
		summary, err := ingestService.Run(ctx, opts)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
		printSummary(cmd, summary)
		return nil
	}

	if err := runOnce(); err != nil {
		return err
	}

	if !ingestWatch || ingestDryRun {
		return nil
	}

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")
	return watch.Run(ctx, args, func() {
		if err := runOnce(); err != nil {
			cmd.PrintErrf("re-ingest failed: %v\n", err)
		}
	})
}

func printSummary(cmd *cobra.Command, s *domain.IngestSummary) {
	if s.DryRun {
		cmd.Printf("Dry run: %d files would be ingested\n", s.FilesFound)
		for _, path := range s.Preview {
			cmd.Printf("  %s\n", path)
		}
		if s.FilesFound > len(s.Preview) {
			cmd.Printf("  ... and %d more\n", s.FilesFound-len(s.Preview))
		}
		return
	}

	cmd.Printf("Ingested %d chunks from %d files in %s\n",
		s.ChunksCommitted, s.FilesProcessed, s.Duration.Round(time.Millisecond))
	if s.ChunksRejected > 0 {
		cmd.Printf("  %d chunks rejected by validation\n", s.ChunksRejected)
	}
	if s.FilesSkipped > 0 {
		reasons := make([]string, 0, len(s.Skipped))
		for reason := range s.Skipped {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		cmd.Printf("  %d files skipped:\n", s.FilesSkipped)
		for _, reason := range reasons {
			cmd.Printf("    %s: %d\n", reason, s.Skipped[reason])
		}
	}
	for _, f := range s.FailedFiles {
		cmd.Printf("  failed: %s\n", f)
	}
	for _, id := range s.FailedItems {
		cmd.Printf("  lost chunk: %s\n", id)
	}
}

// validateChunkFlags rejects impossible chunk geometry before any work.
func validateChunkFlags() error {
	cfg := chunking.Config{ChunkSize: ingestChunkSize, Overlap: ingestOverlap}
	return cfg.Validate()
}
