// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litfetch CLI, the batch-download
// stage of the literature NER pipeline. It retrieves PubMed records for a
// configured query and writes them to disk in fixed-size chunks.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litfetch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the litfetch CLI.
var rootCmd = &cobra.Command{
	Use:   "litfetch",
	Short: "Batch downloader for PubMed literature records",
	Long: `litfetch retrieves biomedical literature records from PubMed in
fixed-size batches. A download run is driven by a YAML run configuration
naming the query, batch size, and output layout; each run writes its batch
files into a dated directory and mirrors its console output to a log file.

Use search to preview a query's hit count before committing to a run, and
runs to inspect the history of past downloads.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litfetch.yaml or ~/.config/litfetch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litfetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litfetch"))
		}
	}

	viper.SetEnvPrefix("LITFETCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
