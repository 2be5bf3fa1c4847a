// Package content fetches article fragments from the documentation site's
// content endpoint.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is the fragment endpoint served by the documentation site.
const DefaultEndpoint = "/content"

var (
	// ErrStatus is returned for any response other than 200 OK.
	ErrStatus = errors.New("unexpected status")
	// ErrMalformed is returned for a response without a title line.
	ErrMalformed = errors.New("malformed content response")
)

// StatusError carries the status code of a rejected response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d", ErrStatus, e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// Page is an article as served by the content endpoint.
type Page struct {
	Path     string
	Title    string
	BodyHTML string
}

// Parse splits a content response into its title line and body fragment.
func Parse(path, body string) (*Page, error) {
	title, rest, ok := strings.Cut(body, "\n")
	if !ok {
		return nil, ErrMalformed
	}
	return &Page{
		Path:     path,
		Title:    strings.TrimSuffix(title, "\r"),
		BodyHTML: rest,
	}, nil
}

// Client talks to a documentation site over HTTP.
type Client struct {
	baseURL  string
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewClient creates a client for the site at baseURL. An empty endpoint
// means DefaultEndpoint.
func NewClient(baseURL, endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger used for request diagnostics.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// BaseURL returns the site origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch retrieves the article at path. Canceling ctx aborts the request.
func (c *Client) Fetch(ctx context.Context, path string) (*Page, error) {
	u := c.baseURL + c.endpoint + "?path=" + url.QueryEscape(path)
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	page, err := Parse(path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content for %s: %w", path, err)
	}
	return page, nil
}

// FetchDocument retrieves the full HTML page at path, as served to a browser
// on first load.
func (c *Client) FetchDocument(ctx context.Context, path string) (string, error) {
	return c.get(ctx, c.baseURL+path)
}

func (c *Client) get(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("content request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read content response: %w", err)
	}
	c.logger.Debug("content fetched", "url", u, "status", resp.StatusCode, "bytes", len(data), "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode}
	}
	return string(data), nil
}
