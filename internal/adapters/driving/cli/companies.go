package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/chunking"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List companies tagged in the indexed chunks",
	RunE:  runCompanies,
}

var companiesShowCmd = &cobra.Command{
	Use:   "show [company]",
	Short: "Show chunk counts for one company",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompaniesShow,
}

func init() {
	companiesCmd.AddCommand(companiesShowCmd)
	rootCmd.AddCommand(companiesCmd)
}

func runCompanies(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initIndices(ctx); err != nil {
		return err
	}

	items, err := vectorIndex.Get(ctx, nil, 0)
	if err != nil {
		return fmt.Errorf("list companies: %w", err)
	}

	counts := make(map[string]int)
	for _, item := range items {
		name, _ := item.Metadata[chunking.KeyPrimaryCompany].(string)
		if name == "" {
			continue
		}
		counts[name]++
	}

	if len(counts) == 0 {
		cmd.Println("No company-tagged chunks indexed.")
		return nil
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	cmd.Printf("%d companies:\n", len(names))
	for _, name := range names {
		cmd.Printf("  %s (%d chunks)\n", name, counts[name])
	}
	return nil
}

func runCompaniesShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initIndices(ctx); err != nil {
		return err
	}

	normalized := chunking.NormalizeCompany(args[0])
	items, err := vectorIndex.Get(ctx, map[string]string{
		chunking.KeyCompanyNormalized: normalized,
	}, 0)
	if err != nil {
		return fmt.Errorf("show company: %w", err)
	}
	if len(items) == 0 {
		cmd.Printf("No chunks tagged for %q.\n", args[0])
		return nil
	}

	byType := make(map[string]int)
	sources := make(map[string]struct{})
	for _, item := range items {
		ct, _ := item.Metadata[chunking.KeyContentType].(string)
		byType[ct]++
		if src, _ := item.Metadata[chunking.KeySource].(string); src != "" {
			sources[src] = struct{}{}
		}
	}

	cmd.Printf("%s: %d chunks from %d documents\n", args[0], len(items), len(sources))
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		cmd.Printf("  %s: %d\n", t, byType[t])
	}
	return nil
}
