// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runconfig loads and validates the per-run download configuration.
//
// A run configuration is a YAML file naming exactly the parameters of one
// batch-download run. All seven attributes must be present; the loader
// supplies no defaults. Range checks on batch_size and output_format are
// deliberately left to the fetch capability, which is the component that
// knows which values it supports.
package runconfig

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// RunConfig holds the parameters governing one download execution. It is
// constructed once by Load and not mutated afterwards.
type RunConfig struct {
	// DestinationPrefix is the base directory under which the dated
	// output directory is created.
	DestinationPrefix string `yaml:"destination_prefix"`

	// QueryLabel is a short identifier used in directory and log naming.
	QueryLabel string `yaml:"query_label"`

	// QueryNotes is a free-text annotation. It is logged and otherwise
	// unused.
	QueryNotes string `yaml:"query_notes"`

	// ExpectedHitCount is the informational number of results the query
	// is expected to return. Logged only.
	ExpectedHitCount int `yaml:"expected_hit_count"`

	// QueryString is the literal query expression passed to the fetch
	// capability.
	QueryString string `yaml:"query_string"`

	// BatchSize is the maximum number of records per output file.
	BatchSize int `yaml:"batch_size"`

	// OutputFormat names the serialization the fetch capability should
	// produce (e.g. "xml", "abstract", "medline").
	OutputFormat string `yaml:"output_format"`
}

// requiredKeys lists every attribute a run configuration must define.
var requiredKeys = []string{
	"destination_prefix",
	"query_label",
	"query_notes",
	"expected_hit_count",
	"query_string",
	"batch_size",
	"output_format",
}

// Load reads a run configuration from path. It fails on a missing or
// unreadable file, on any absent attribute, and on type mismatches.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run configuration %s: %w", path, err)
	}

	// Presence check first, so a missing key reports as such rather
	// than silently zero-valuing.
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing run configuration %s: %w", path, err)
	}
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("run configuration %s: missing required attribute %q", path, key)
		}
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing run configuration %s: %w", path, err)
	}

	// Empty strings pass the presence check above but leave the run
	// without usable naming inputs.
	for key, val := range map[string]string{
		"destination_prefix": cfg.DestinationPrefix,
		"query_label":        cfg.QueryLabel,
		"query_string":       cfg.QueryString,
		"output_format":      cfg.OutputFormat,
	} {
		if val == "" {
			return nil, fmt.Errorf("run configuration %s: attribute %q is empty", path, key)
		}
	}

	return &cfg, nil
}
