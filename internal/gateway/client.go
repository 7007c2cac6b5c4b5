// Package gateway talks to the repository hosting API: directory listings
// and raw file downloads.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ziadkadry99/repo-browser/internal/cache"
)

const (
	// DefaultAPIBase is the public GitHub REST endpoint.
	DefaultAPIBase = "https://api.github.com"
	// DefaultWebBase is the public GitHub web host.
	DefaultWebBase = "https://github.com"

	maxListingBytes = 10 * 1024 * 1024
)

// Client fetches listings and raw content. Listings are memoized in the
// client's cache; raw content never is.
type Client struct {
	httpClient *http.Client
	apiBase    string
	webBase    string
	listings   *cache.Memo[[]Entry]
	inflight   singleflight.Group
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIBase overrides the contents API base URL.
func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = strings.TrimRight(base, "/") }
}

// WithWebBase overrides the web host used for canonical links.
func WithWebBase(base string) Option {
	return func(c *Client) { c.webBase = strings.TrimRight(base, "/") }
}

// WithCache makes the client memoize listings in m.
func WithCache(m *cache.Memo[[]Entry]) Option {
	return func(c *Client) { c.listings = m }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a Client. Without WithCache it gets a private cache.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		apiBase:    DefaultAPIBase,
		webBase:    DefaultWebBase,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.listings == nil {
		c.listings = cache.New[[]Entry]()
	}
	return c
}

// RepoURL returns the canonical web page of the repository.
func (c *Client) RepoURL(coord Coordinate) string {
	return c.webBase + "/" + url.PathEscape(coord.Owner) + "/" + url.PathEscape(coord.Repo)
}

// CachedListings returns how many listings are memoized.
func (c *Client) CachedListings() int {
	return c.listings.Len()
}

// FetchContents returns the listing of path in the repository. A cached
// listing is returned without a request. Concurrent calls for the same
// key share one request; failures are not cached.
func (c *Client) FetchContents(ctx context.Context, coord Coordinate, path string) ([]Entry, error) {
	key := coord.CacheKey(path)
	if entries, ok := c.listings.Get(key); ok {
		return entries, nil
	}

	v, err, _ := c.inflight.Do(key, func() (any, error) {
		if entries, ok := c.listings.Get(key); ok {
			return entries, nil
		}
		entries, err := c.fetchListing(context.WithoutCancel(ctx), coord, path)
		if err != nil {
			return nil, err
		}
		c.listings.Put(key, entries)
		return entries, nil
	})
	if err != nil {
		c.log.Debug().Err(err).Str("repo", coord.String()).Str("path", path).Msg("listing failed")
		return nil, err
	}
	return v.([]Entry), nil
}

func (c *Client) contentsURL(coord Coordinate, path string) string {
	u := c.apiBase + "/repos/" + url.PathEscape(coord.Owner) + "/" + url.PathEscape(coord.Repo) + "/contents/"
	if path == "" {
		return u
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return u + strings.Join(segments, "/")
}

func (c *Client) fetchListing(ctx context.Context, coord Coordinate, path string) ([]Entry, error) {
	target := c.contentsURL(coord, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	c.log.Debug().Str("url", target).Msg("fetching listing")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, &GatewayError{Status: resp.StatusCode, URL: target}
	}

	var entries []Entry
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxListingBytes)).Decode(&entries); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &GatewayError{Status: resp.StatusCode, URL: target, Err: ErrNotDirectory}
		}
		return nil, &NetworkError{URL: target, Err: fmt.Errorf("decoding listing: %w", err)}
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// FetchRaw downloads the raw content at downloadURL.
func (c *Client) FetchRaw(ctx context.Context, downloadURL string) (string, error) {
	if downloadURL == "" {
		return "", &ContentFetchError{Err: errors.New("no download url")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", &ContentFetchError{URL: downloadURL, Err: err}
	}

	c.log.Debug().Str("url", downloadURL).Msg("fetching raw content")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ContentFetchError{URL: downloadURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return "", &ContentFetchError{URL: downloadURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ContentFetchError{URL: downloadURL, Err: err}
	}
	return string(body), nil
}
