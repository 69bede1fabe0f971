package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litfetch/internal/entrez"
	"github.com/pdiddy/litfetch/internal/journal"
	"github.com/pdiddy/litfetch/internal/runner"
	"github.com/pdiddy/litfetch/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultPageDelay = 350 * time.Millisecond
	defaultUserAgent = "litfetch/0.1"
	journalFile      = "runs.db"
)

var downloadCmd = &cobra.Command{
	Use:   "download <run-config.yaml>",
	Short: "Run one batch download from a run configuration file",
	Long: `Download executes a single batch-download run. The run configuration
file names the query, batch size, output format, and output layout. Records
are written in fixed-size batch files under
{destination_prefix}/{query_label}_{YYMMDD}/, and console output is
mirrored to {query_label}_{YYMMDD}.log in the working directory.

The output directory is created strictly: if it already exists (for
example from an earlier run on the same day), the run fails rather than
writing into a possibly stale directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	downloadCmd.Flags().Duration("page-delay", 0, "delay between EFetch page requests (default 350ms)")
	downloadCmd.Flags().String("api-key", "", "NCBI API key (default from .secrets/ncbi-api-key)")
	downloadCmd.Flags().String("email", "", "contact email for E-utilities (default from .secrets/entrez-email)")

	rootCmd.AddCommand(downloadCmd)
}

func fetchConfig(cmd *cobra.Command) types.FetchConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("fetch.timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	pageDelay, _ := cmd.Flags().GetDuration("page-delay")
	if pageDelay == 0 {
		pageDelay = viper.GetDuration("fetch.page_delay")
	}
	if pageDelay == 0 {
		pageDelay = defaultPageDelay
	}
	apiKey, _ := cmd.Flags().GetString("api-key")
	email, _ := cmd.Flags().GetString("email")

	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		APIKey:    loadedSecrets.Get("ncbi-api-key", apiKey),
		Email:     loadedSecrets.Get("entrez-email", email),
		PageDelay: pageDelay,
	}
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	startedAt := time.Now()

	r := &runner.Runner{
		Downloader: entrez.New(fetchConfig(cmd)),
		Console:    cmd.OutOrStdout(),
	}
	report, runErr := r.Run(ctx, args[0])

	// Journal the outcome. When the configuration itself failed to load
	// there is nothing to key the entry on (and the run touched nothing),
	// so only loaded configurations are recorded.
	if report.Config != nil {
		if err := recordRun(ctx, report, runErr, startedAt); err != nil {
			if runErr != nil {
				return runErr
			}
			return err
		}
	}

	return runErr
}

func recordRun(ctx context.Context, report runner.Report, runErr error, startedAt time.Time) error {
	path := viper.GetString("journal.path")
	if path == "" {
		path = filepath.Join(report.Config.DestinationPrefix, journalFile)
	}

	store, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	entry := journal.Entry{
		QueryLabel:   report.Config.QueryLabel,
		DateLabel:    report.DateLabel,
		QueryString:  report.Config.QueryString,
		BatchSize:    report.Config.BatchSize,
		OutputFormat: report.Config.OutputFormat,
		OutputDir:    report.OutputDir,
		HitCount:     report.Summary.HitCount,
		FilesWritten: report.Summary.FilesWritten,
		Status:       journal.StatusOK,
		StartedAt:    startedAt,
		FinishedAt:   time.Now(),
	}
	if runErr != nil {
		entry.Status = journal.StatusFailed
		entry.ErrorText = runErr.Error()
	}
	return store.Record(ctx, entry)
}
