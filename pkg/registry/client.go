// Package registry is a client for the skills.sh catalog. It scrapes the
// public leaderboard and detail pages, searches them by keyword, and
// downloads matching skills into local skill packages via the GitHub API.
package registry

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skilleval/pkg/logger"
)

const (
	defaultBaseURL      = "https://skills.sh"
	defaultGitHubAPIURL = "https://api.github.com"

	requestTimeout = 30 * time.Second
	fetchAttempts  = 3
)

// Client accesses the skills.sh catalog and the GitHub API.
type Client struct {
	baseURL      string
	githubAPIURL string
	githubToken  string
	httpClient   *http.Client
}

// Option is a function that configures a Client
type Option func(*Client)

// WithBaseURL overrides the catalog base URL (useful for testing)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithGitHubAPIURL overrides the GitHub API base URL (useful for testing)
func WithGitHubAPIURL(apiURL string) Option {
	return func(c *Client) {
		c.githubAPIURL = apiURL
	}
}

// WithGitHubToken sets a token for authenticated GitHub API requests
func WithGitHubToken(token string) Option {
	return func(c *Client) {
		c.githubToken = token
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a catalog client
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:      defaultBaseURL,
		githubAPIURL: defaultGitHubAPIURL,
		httpClient:   &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches a catalog URL with retries and returns the response body.
// Responses with non-2xx status codes are treated as errors.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	return c.fetch(ctx, url, "")
}

// getGitHub fetches a GitHub API URL, attaching the configured token. The
// token is never sent to the catalog host.
func (c *Client) getGitHub(ctx context.Context, url string) ([]byte, error) {
	return c.fetch(ctx, url, c.githubToken)
}

func (c *Client) fetch(ctx context.Context, url, token string) ([]byte, error) {
	var body []byte

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(errors.Wrap(err, "failed to build request"))
			}
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return errors.Wrapf(err, "failed to fetch %s", url)
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				err := errors.Errorf("HTTP error fetching %s: %d %s", url, resp.StatusCode, resp.Status)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}

			body, err = io.ReadAll(resp.Body)
			return errors.Wrap(err, "failed to read response body")
		},
		retry.Context(ctx),
		retry.Attempts(fetchAttempts),
		retry.Delay(500*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).WithField("attempt", n+1).Debug("retrying catalog fetch")
		}),
	)
	if err != nil {
		return nil, err
	}

	return body, nil
}
