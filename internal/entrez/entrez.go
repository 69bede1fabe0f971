// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entrez is a client for the NCBI E-utilities API. It resolves a
// PubMed query with ESearch (history server enabled) and retrieves the
// matching records in fixed-size pages with EFetch, writing each page to
// its own batch file.
package entrez

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdiddy/litfetch/internal/httputil"
	"github.com/pdiddy/litfetch/internal/runner"
	"github.com/pdiddy/litfetch/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	esearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

const defaultTool = "litfetch"

// Client queries PubMed through E-utilities. It implements runner.Downloader.
type Client struct {
	HTTP   *http.Client
	Config types.FetchConfig
}

// New builds a Client from cfg with an http.Client honoring cfg.Timeout.
func New(cfg types.FetchConfig) *Client {
	if cfg.Tool == "" {
		cfg.Tool = defaultTool
	}
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// SearchResult holds the outcome of an ESearch query.
type SearchResult struct {
	// Count is the total number of records matching the query.
	Count int

	// IDs is the PMID sample returned for the requested retmax.
	IDs []string

	// QueryTranslation is the query as PubMed interpreted it.
	QueryTranslation string

	// WebEnv and QueryKey address the result set on the history
	// server for subsequent EFetch paging.
	WebEnv   string
	QueryKey string
}

// esearch JSON envelope. Count and retmax come back as strings.
type esearchEnvelope struct {
	Result struct {
		Count            string   `json:"count"`
		IDList           []string `json:"idlist"`
		QueryTranslation string   `json:"querytranslation"`
		WebEnv           string   `json:"webenv"`
		QueryKey         string   `json:"querykey"`
		ErrorList        struct {
			PhrasesNotFound []string `json:"phrasesnotfound"`
		} `json:"errorlist"`
	} `json:"esearchresult"`
	Error string `json:"error"`
}

// Search runs an ESearch with the history server enabled and returns the
// hit count, a PMID sample of up to retmax IDs, and the history handle.
func (c *Client) Search(ctx context.Context, query string, retmax int) (SearchResult, error) {
	if query == "" {
		return SearchResult{}, fmt.Errorf("empty query")
	}
	if retmax < 0 {
		retmax = 0
	}

	params := c.baseParams()
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("usehistory", "y")
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(retmax))

	resp, err := c.get(ctx, esearchBase, params)
	if err != nil {
		return SearchResult{}, fmt.Errorf("ESearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SearchResult{}, fmt.Errorf("ESearch returned HTTP %d", resp.StatusCode)
	}

	var env esearchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return SearchResult{}, fmt.Errorf("parsing ESearch response: %w", err)
	}
	if env.Error != "" {
		return SearchResult{}, fmt.Errorf("ESearch: %s", env.Error)
	}

	count, err := strconv.Atoi(env.Result.Count)
	if err != nil {
		return SearchResult{}, fmt.Errorf("parsing ESearch count %q: %w", env.Result.Count, err)
	}

	return SearchResult{
		Count:            count,
		IDs:              env.Result.IDList,
		QueryTranslation: env.Result.QueryTranslation,
		WebEnv:           env.Result.WebEnv,
		QueryKey:         env.Result.QueryKey,
	}, nil
}

// Fetch resolves query and writes the matching records into destDir in
// pages of batchSize records, one file per page, serialized per format.
// destDir must already exist. Progress lines go to w.
//
// Fetch validates batchSize and format itself: the run configuration
// loader passes them through untouched, and this is the boundary that
// knows what the API supports.
func (c *Client) Fetch(ctx context.Context, query string, batchSize int, format, destDir string, w io.Writer) (runner.FetchSummary, error) {
	var summary runner.FetchSummary

	if batchSize <= 0 {
		return summary, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	spec, err := formatSpec(format)
	if err != nil {
		return summary, err
	}

	sr, err := c.Search(ctx, query, 0)
	if err != nil {
		return summary, err
	}
	summary.HitCount = sr.Count

	fmt.Fprintf(w, "Query matched %d records\n", sr.Count)
	if sr.Count == 0 {
		return summary, nil
	}
	if sr.WebEnv == "" || sr.QueryKey == "" {
		return summary, fmt.Errorf("ESearch returned no history handle")
	}

	for start := 0; start < sr.Count; start += batchSize {
		if start > 0 && c.Config.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(c.Config.PageDelay):
			}
		}

		page := start/batchSize + 1
		name := fmt.Sprintf("batch_%04d.%s", page, spec.Ext)
		path := filepath.Join(destDir, name)

		if err := c.fetchPage(ctx, sr, start, batchSize, spec, path); err != nil {
			return summary, fmt.Errorf("fetching records %d-%d: %w", start+1, min(start+batchSize, sr.Count), err)
		}
		summary.FilesWritten++

		fmt.Fprintf(w, "wrote %s (records %d-%d of %d)\n", name, start+1, min(start+batchSize, sr.Count), sr.Count)
	}

	return summary, nil
}

// fetchPage retrieves one EFetch page from the history server and writes
// it to destPath via a temporary file renamed on success, so a failed
// page never leaves a truncated batch file behind.
func (c *Client) fetchPage(ctx context.Context, sr SearchResult, retstart, retmax int, spec FormatSpec, destPath string) error {
	params := c.baseParams()
	params.Set("db", "pubmed")
	params.Set("WebEnv", sr.WebEnv)
	params.Set("query_key", sr.QueryKey)
	params.Set("retstart", strconv.Itoa(retstart))
	params.Set("retmax", strconv.Itoa(retmax))
	params.Set("retmode", spec.RetMode)
	if spec.RetType != "" {
		params.Set("rettype", spec.RetType)
	}

	resp, err := c.get(ctx, efetchBase, params)
	if err != nil {
		return fmt.Errorf("EFetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("EFetch returned HTTP %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".entrez-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing batch file: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// baseParams returns the identification parameters NCBI asks every
// E-utilities caller to send.
func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("tool", c.Config.Tool)
	if c.Config.Email != "" {
		params.Set("email", c.Config.Email)
	}
	if c.Config.APIKey != "" {
		params.Set("api_key", c.Config.APIKey)
	}
	return params
}

// get issues a GET with retry on rate limiting. NCBI answers bursts over
// the per-second quota with 429.
func (c *Client) get(ctx context.Context, base string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)
	return httputil.DoWithRetry(ctx, c.HTTP, req, 0)
}
