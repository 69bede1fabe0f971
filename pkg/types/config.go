// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared configuration structures for litfetch.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litfetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the E-utilities fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional NCBI API key. With a key, NCBI allows
	// 10 requests per second instead of 3.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email is the contact address sent as the E-utilities email
	// parameter, as NCBI usage policy requests.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Tool is the E-utilities tool parameter (default "litfetch").
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty"`

	// PageDelay is the delay between consecutive EFetch page requests
	// (default 350ms, under the 3 req/s anonymous limit).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`
}

// JournalConfig holds settings for the run journal.
type JournalConfig struct {
	// Path is the SQLite database file. When empty, the journal is
	// placed at runs.db under the run's destination prefix.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}
