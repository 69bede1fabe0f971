// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litfetch/internal/entrez"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Preview a PubMed query's hit count and a PMID sample",
	Long: `Search runs an ESearch against PubMed and prints the total number of
matching records, the query as PubMed translated it, and a sample of
matching PMIDs. Use it to fill in expected_hit_count in a run
configuration before downloading.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "PubMed query expression")
	searchCmd.Flags().Int("max", 20, "maximum number of PMIDs to list")
	searchCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		return fmt.Errorf("provide a query with --query")
	}
	max, _ := cmd.Flags().GetInt("max")
	asJSON, _ := cmd.Flags().GetBool("json")

	client := entrez.New(fetchConfig(cmd))
	result, err := client.Search(context.Background(), query, max)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Hits: %d\n", result.Count)
	if result.QueryTranslation != "" {
		fmt.Printf("Query translation: %s\n", result.QueryTranslation)
	}
	if len(result.IDs) > 0 {
		fmt.Printf("Sample PMIDs (%d of %d):\n", len(result.IDs), result.Count)
		for _, id := range result.IDs {
			fmt.Printf("  %s\n", id)
		}
	}
	return nil
}
