package cti

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
	"github.com/custodia-labs/stixnav/internal/logger"
)

const (
	// DefaultOwner and DefaultRepo locate the published STIX 2.1 bundles.
	DefaultOwner = "mitre-attack"
	DefaultRepo  = "attack-stix-data"

	// DefaultTimeout is the HTTP timeout. Enterprise bundles are tens of MB.
	DefaultTimeout = 2 * time.Minute
)

// Collections lists the published ATT&CK collections.
var Collections = []string{"enterprise-attack", "mobile-attack", "ics-attack"}

// Ensure Fetcher implements the interface.
var _ driven.BundleFetcher = (*Fetcher)(nil)

// Fetcher downloads collection bundles from a GitHub repository laid out as
// <collection>/<collection>[-<release>].json.
type Fetcher struct {
	gh          *gh.Client
	owner       string
	repo        string
	rateLimiter *rateLimiter
}

// NewFetcher creates a fetcher for the public ATT&CK data repository.
// A non-empty token authenticates requests, raising the API rate limit.
func NewFetcher(ctx context.Context, token string) *Fetcher {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = DefaultTimeout

	return &Fetcher{
		gh:          gh.NewClient(httpClient),
		owner:       DefaultOwner,
		repo:        DefaultRepo,
		rateLimiter: newRateLimiter(),
	}
}

// WithRepository fetches from another owner/repo with the same layout.
func (f *Fetcher) WithRepository(owner, repo string) *Fetcher {
	if owner != "" {
		f.owner = owner
	}
	if repo != "" {
		f.repo = repo
	}
	return f
}

// WithBaseURL points the API client at another endpoint, e.g. a GitHub
// Enterprise host or a test server.
func (f *Fetcher) WithBaseURL(baseURL string) (*Fetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}
	f.gh.BaseURL = u
	return f, nil
}

// Fetch downloads the bundle of a collection release.
func (f *Fetcher) Fetch(ctx context.Context, collection, release string) ([]byte, error) {
	filePath, err := bundlePath(collection, release)
	if err != nil {
		return nil, err
	}

	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	logger.Debug("Fetching %s", f.Source(collection, release))
	rc, resp, err := f.gh.Repositories.DownloadContents(ctx, f.owner, f.repo, filePath, nil)
	if resp != nil {
		f.rateLimiter.UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, f.wrapError(err, filePath)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	logger.Debug("Fetched %s (%d bytes)", filePath, len(data))
	return data, nil
}

// Source returns the repository path a release is fetched from.
func (f *Fetcher) Source(collection, release string) string {
	filePath, err := bundlePath(collection, release)
	if err != nil {
		filePath = collection
	}
	return fmt.Sprintf("github.com/%s/%s/%s", f.owner, f.repo, filePath)
}

// bundlePath maps a collection release to its file in the repository.
func bundlePath(collection, release string) (string, error) {
	if !slices.Contains(Collections, collection) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	name := collection
	if release != "" {
		name += "-" + release
	}
	return path.Join(collection, name+".json"), nil
}

// wrapError converts go-github errors to our error types.
func (f *Fetcher) wrapError(err error, filePath string) error {
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{ResetAt: rateLimitErr.Rate.Reset.Time}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			URL:        ghErr.Response.Request.URL.String(),
		}
		if apiErr.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w: %w", filePath, domain.ErrNotFound, apiErr)
		}
		return apiErr
	}

	// DownloadContents reports a release missing from an existing
	// collection directory as a plain error.
	if strings.HasPrefix(err.Error(), "no file named") {
		return fmt.Errorf("%s: %w", filePath, domain.ErrNotFound)
	}

	return fmt.Errorf("download %s: %w", filePath, err)
}
