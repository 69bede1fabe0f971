// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner orchestrates one batch-download run: load the run
// configuration, derive the dated output layout, mirror console output to
// a log file, delegate the download to a Downloader, and release the log
// stream on every exit path.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/litfetch/internal/runconfig"
	"github.com/pdiddy/litfetch/internal/teelog"
)

// Sentinel errors classifying run failures. Wrapped errors satisfy
// errors.Is against these.
var (
	// ErrConfiguration marks a run configuration that could not be
	// loaded or validated. Nothing has touched the filesystem yet.
	ErrConfiguration = errors.New("configuration error")

	// ErrFilesystem marks a failure to create the output directory or
	// open the log file.
	ErrFilesystem = errors.New("filesystem error")

	// ErrFetch marks a failure inside the delegated fetch capability.
	ErrFetch = errors.New("fetch error")
)

// FetchSummary reports what a Downloader did.
type FetchSummary struct {
	// HitCount is the total number of records the query matched.
	HitCount int

	// FilesWritten is the number of batch files written to the output
	// directory.
	FilesWritten int
}

// Downloader is the fetch-and-paginate capability. Fetch resolves query
// against the remote database and writes at most batchSize records per
// file, serialized per format, into destDir. destDir must already exist.
// Progress lines go to w. Fetch is synchronous and may perform any number
// of network round-trips.
type Downloader interface {
	Fetch(ctx context.Context, query string, batchSize int, format, destDir string, w io.Writer) (FetchSummary, error)
}

// Report describes a completed (or attempted) run. Fields are filled in
// as far as the run progressed.
type Report struct {
	Config    *runconfig.RunConfig
	DateLabel string
	OutputDir string
	LogPath   string
	Summary   FetchSummary
}

// Runner executes batch-download runs. The zero value is not usable;
// Downloader must be set. Console, WorkDir, and Now default to os.Stdout,
// the process working directory, and time.Now.
type Runner struct {
	Downloader Downloader
	Console    io.Writer
	WorkDir    string
	Now        func() time.Time
}

// DateLabel formats t as the run date label: 2-digit year, month, day.
func DateLabel(t time.Time) string {
	return t.Format("060102")
}

// OutputDir returns the dated output directory for a label under prefix.
func OutputDir(prefix, label, dateLabel string) string {
	return filepath.Join(prefix, label+"_"+dateLabel)
}

// Run executes one run from the configuration at configPath. The sequence
// is fixed: load config, derive paths, open the log stream, write the four
// header lines, create the output directory, delegate to the Downloader,
// release the stream. Every failure is fatal; failures after the stream
// opens are written to it before it is released, so they appear in the
// log file as well as on the console.
func (r *Runner) Run(ctx context.Context, configPath string) (Report, error) {
	var report Report

	cfg, err := runconfig.Load(configPath)
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	report.Config = cfg

	workDir := r.WorkDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			return report, fmt.Errorf("%w: resolving working directory: %v", ErrFilesystem, err)
		}
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	console := r.Console
	if console == nil {
		console = os.Stdout
	}

	report.DateLabel = DateLabel(now())
	report.OutputDir = OutputDir(cfg.DestinationPrefix, cfg.QueryLabel, report.DateLabel)
	report.LogPath = filepath.Join(workDir, cfg.QueryLabel+"_"+report.DateLabel+".log")

	stream, err := teelog.Open(report.LogPath, console)
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrFilesystem, err)
	}
	defer stream.Close()

	fmt.Fprintf(stream, "Output directory: %s\n", report.OutputDir)
	fmt.Fprintf(stream, "Log file: %s\n", report.LogPath)
	fmt.Fprintf(stream, "Query notes: %s\n", cfg.QueryNotes)
	fmt.Fprintf(stream, "Expected hits: %d\n", cfg.ExpectedHitCount)

	// Strict create: an existing directory from an earlier same-day run
	// is fatal rather than silently reused.
	if err := os.Mkdir(report.OutputDir, 0o755); err != nil {
		return report, failf(stream, "%w: creating output directory: %v", ErrFilesystem, err)
	}

	summary, err := r.Downloader.Fetch(ctx, cfg.QueryString, cfg.BatchSize, cfg.OutputFormat, report.OutputDir, stream)
	if err != nil {
		return report, failf(stream, "%w: %v", ErrFetch, err)
	}
	report.Summary = summary

	return report, nil
}

// failf builds the run error and records it on the still-active log
// stream so the log captures the reason the run died.
func failf(w io.Writer, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	fmt.Fprintf(w, "error: %v\n", err)
	return err
}
