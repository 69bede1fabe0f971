// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litfetch/internal/journal"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past download runs from the run journal",
	Long: `Runs lists the download history recorded in the run journal, newest
first: query label, date, hit count, batch files written, and outcome.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().String("journal", "", "journal database path (default: journal.path from config, or ./runs.db)")
	runsCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")
	runsCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("journal")
	if path == "" {
		path = viper.GetString("journal.path")
	}
	if path == "" {
		path = journalFile
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no run journal at %s", path)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-4s  %-20s  %-6s  %-8s  %-7s  %-6s  %s\n",
		"ID", "Label", "Date", "Hits", "Batches", "Status", "Output")
	fmt.Println(strings.Repeat("-", 90))
	for _, e := range entries {
		fmt.Printf("%-4d  %-20s  %-6s  %-8d  %-7d  %-6s  %s\n",
			e.ID, truncate(e.QueryLabel, 20), e.DateLabel, e.HitCount,
			e.FilesWritten, e.Status, e.OutputDir)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
