package pypi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/licensetower/pkg/cache"
	"github.com/matzehuels/licensetower/pkg/deptree"
	"github.com/matzehuels/licensetower/pkg/httputil"
	"github.com/matzehuels/licensetower/pkg/integrations"
	"github.com/matzehuels/licensetower/pkg/license"
)

// DefaultBaseURL is the PyPI JSON API root.
const DefaultBaseURL = "https://pypi.org/pypi"

// maxFieldLen is the longest free-text license or license_expression value
// accepted as a license name; longer values are usually full license texts.
const maxFieldLen = 12

// Client fetches license metadata from the PyPI JSON API.
//
// Results are memoized by (name, version) in the cache backend passed to
// [NewClient], so the memo lives exactly as long as that backend. Both found
// and not-found results are memoized.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	backoff time.Duration
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL overrides the registry root (default [DefaultBaseURL]).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the HTTP client, e.g. to change the per-request timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.SetHTTPClient(h) }
}

// WithBackoff sets the delay before the second attempt. It doubles after each
// further failure. Zero retries immediately.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// NewClient creates a PyPI client memoizing into backend for ttl.
// A nil backend disables memoization.
func NewClient(backend cache.Cache, ttl time.Duration, opts ...Option) *Client {
	c := &Client{
		Client:  integrations.NewClient(backend, "pypi:", ttl, map[string]string{"Accept": "application/json"}),
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// memoEntry is the memoized form of one lookup. A nil Licenses slice records
// "no license data".
type memoEntry struct {
	Licenses []string `json:"licenses"`
}

// FetchLicense returns the license strings PyPI reports for name at version,
// or nil when none can be determined. An empty version queries the latest
// release. The ROOT sentinel yields nil without a request.
//
// Up to maxRetries requests are made; every non-200 response and every
// transport failure consumes one attempt. An undecodable 200 body ends the
// lookup without further attempts. Exhausted attempts, undecodable
// bodies, and empty license data all yield nil. FetchLicense never returns
// an error.
func (c *Client) FetchLicense(ctx context.Context, name, version string, maxRetries int) license.Set {
	if name == deptree.Root || name == "" || maxRetries <= 0 {
		return nil
	}

	var entry memoEntry
	err := c.Cached(ctx, cache.Key(name, version), false, &entry, func() error {
		licenses, err := c.fetch(ctx, name, version, maxRetries)
		if err != nil {
			return err
		}
		entry = memoEntry{Licenses: licenses.Sorted()}
		return nil
	})
	if err != nil || len(entry.Licenses) == 0 {
		return nil
	}
	return license.NewSet(entry.Licenses...)
}

// fetch runs the retry loop. It only returns an error when ctx is done, so
// cancelled lookups are never memoized.
func (c *Client) fetch(ctx context.Context, name, version string, attempts int) (license.Set, error) {
	var data apiResponse
	err := httputil.Retry(ctx, attempts, c.backoff, func() error {
		data = apiResponse{}
		err := c.Get(ctx, c.url(name, version), &data)
		if errors.Is(err, integrations.ErrDecode) {
			// A 200 with a broken body will not improve on retry.
			return err
		}
		return httputil.Retryable(err)
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, nil
	}
	return extractLicenses(data.Info), nil
}

func (c *Client) url(name, version string) string {
	if version == "" {
		return c.baseURL + "/" + integrations.PathEscape(name) + "/json"
	}
	return c.baseURL + "/" + integrations.PathEscape(name) + "/" + integrations.PathEscape(version) + "/json"
}

type apiResponse struct {
	Info apiInfo `json:"info"`
}

type apiInfo struct {
	Name              string   `json:"name"`
	Version           string   `json:"version"`
	License           *string  `json:"license"`
	LicenseExpression *string  `json:"license_expression"`
	Classifiers       []string `json:"classifiers"`
}

// extractLicenses unions the three license sources of a release:
//
//   - classifiers starting with "License": the segment after the last " :: ",
//     except the bare "OSI Approved" grouping
//   - info.license, when non-empty and at most 12 characters
//   - info.license_expression, under the same rule
//
// An empty union yields nil.
func extractLicenses(info apiInfo) license.Set {
	out := license.NewSet()
	for _, c := range info.Classifiers {
		if !strings.HasPrefix(c, "License") {
			continue
		}
		seg := c
		if i := strings.LastIndex(c, " :: "); i >= 0 {
			seg = c[i+len(" :: "):]
		}
		if seg != "OSI Approved" {
			out.Add(seg)
		}
	}
	for _, field := range []*string{info.License, info.LicenseExpression} {
		if field != nil && *field != "" && utf8.RuneCountInString(*field) <= maxFieldLen {
			out.Add(*field)
		}
	}
	if out.Len() == 0 {
		return nil
	}
	return out
}

var _ license.Fetcher = (*Client)(nil)
