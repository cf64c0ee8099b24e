// Package cli implements the quarry command line interface using cobra.
// Commands talk to core services through the driving ports; adapters
// are wired once per invocation from the config store.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/quarry-labs/quarry-cli/internal/adapters/driven/config/file"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// version is set by Execute.
var version = "dev"

var verboseFlag bool

// Wired collaborators. Tests replace these directly; commands call
// initServices to populate them from configuration.
var (
	configStore     driven.ConfigStore
	vectorIndex     driven.VectorIndex
	lexicalIndex    driven.LexicalIndex
	llmService      driven.LLMService
	contextStore    driven.ContextStore
	ingestService   driving.Ingestor
	retrieveService driving.Retriever
	answerService   driving.Answerer
)

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Local retrieval-augmented search over your documents",
	Long: `quarry ingests your internal documents into vector and keyword
indices and answers questions from them, grounded strictly in the
retrieved context.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeAdapters()
	},
}

// closeAdapters releases any backend handles a command opened.
func closeAdapters() {
	if vectorIndex != nil {
		_ = vectorIndex.Close()
	}
	if lexicalIndex != nil {
		_ = lexicalIndex.Close()
	}
	if llmService != nil {
		_ = llmService.Close()
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging to stderr")
}

// ExecuteContext runs the CLI with the given build version. The
// context is cancelled on SIGINT/SIGTERM so long-running commands shut
// down cleanly.
func ExecuteContext(ctx context.Context, v string) error {
	version = v
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig opens the config store once.
func loadConfig() (driven.ConfigStore, error) {
	if configStore != nil {
		return configStore, nil
	}
	store, err := configfile.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	configStore = store
	return configStore, nil
}

// requireLLM wires the LLM service or fails with a usable hint.
func requireLLM(ctx context.Context) (driven.LLMService, error) {
	if llmService != nil {
		return llmService, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	svc, err := buildLLMService(cfg)
	if err != nil {
		return nil, err
	}
	if err := svc.Ping(ctx); err != nil {
		logger.Warn("LLM service not responding: %v", err)
	}
	llmService = svc
	return llmService, nil
}
