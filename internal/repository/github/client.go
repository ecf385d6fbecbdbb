package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ollielynas/reanimator-site/internal/domain/release"
	"github.com/ollielynas/reanimator-site/internal/logger"
	"github.com/ollielynas/reanimator-site/internal/version"
)

var (
	// ErrNetwork reports that the latest release could not be retrieved.
	ErrNetwork = errors.New("network error")
	// ErrParse reports that the response is not a release document.
	ErrParse = errors.New("parse error")

	errBadHTTPStatus = errors.New("unexpected http status")
)

// maxBodySize caps the release document read from the API.
const maxBodySize = 8 << 20

// Client fetches release metadata from the GitHub REST API.
type Client struct {
	// baseURL is the API root, e.g. https://api.github.com.
	baseURL string
	// token is sent as a bearer credential when not empty.
	token string
	// httpClient performs the requests.
	httpClient *http.Client
	// schema validates response bodies.
	schema *jsonschema.Schema
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the API token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout <= 0 {
			return
		}

		// Copy so a client passed through WithHTTPClient keeps its transport.
		httpClient := *c.httpClient
		httpClient.Timeout = timeout
		c.httpClient = &httpClient
	}
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}

	schema, err := compileReleaseSchema()
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		schema:     schema,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// LatestReleaseURL returns the endpoint for repo's latest release.
func (c *Client) LatestReleaseURL(repo release.Repository) string {
	return fmt.Sprintf("%s/repos/%s/%s/releases/latest",
		c.baseURL, url.PathEscape(repo.Owner), url.PathEscape(repo.Name))
}

// FetchLatest retrieves and parses the latest release of repo.
func (c *Client) FetchLatest(ctx context.Context, repo release.Repository) (*release.Release, error) {
	endpoint := c.LatestReleaseURL(repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrNetwork, err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", version.UserAgent("reanimator-site"))

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger.DebugKV(ctx, "Requesting latest release", "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A canceled or expired ctx is reported as such, not as an upstream failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("request latest release: %w", ctxErr)
		}

		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("read latest release: %w", ctxErr)
		}

		return nil, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s, %s: %w", ErrNetwork, endpoint, resp.Status, errBadHTTPStatus)
	}

	return c.parse(body)
}

// parse validates body and converts it into a domain Release.
func (c *Client) parse(body []byte) (*release.Release, error) {
	if err := validateDocument(c.schema, body); err != nil {
		return nil, err
	}

	var doc releaseDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return doc.toDomain(), nil
}
