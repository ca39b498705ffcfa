package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/teemow/teams-mcp/internal/logging"
)

const (
	// DefaultTimeout is the HTTP request timeout for GitHub calls.
	DefaultTimeout = 30 * time.Second

	// DefaultRepoPageSize is the page size for repository listings.
	DefaultRepoPageSize = 30

	// proactiveRate throttles to ~1.2 req/sec, well under the 5000/hour
	// authenticated limit.
	proactiveRate = 1.2
)

// APIError is a non-success response from the GitHub API.
type APIError struct {
	// Op is the operation that failed, such as "list_repos".
	Op string
	// Status is the HTTP status code.
	Status int
	// Message is GitHub's error message.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("github %s failed: %s (status %d)", e.Op, e.Message, e.Status)
}

// Client calls the GitHub REST API on behalf of the token passed to each
// call. The zero value is not usable; use NewClient.
type Client struct {
	baseURL  *url.URL
	throttle *rate.Limiter
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API endpoint, mainly for
// tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err == nil {
			c.baseURL = u
		}
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a GitHub client with proactive throttling.
func NewClient(opts ...Option) *Client {
	c := &Client{
		throttle: rate.NewLimiter(rate.Limit(proactiveRate), 1),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// api builds a go-github client bound to the given access token.
func (c *Client) api(ctx context.Context, accessToken string) *gh.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	api := gh.NewClient(tc)
	if c.baseURL != nil {
		api.BaseURL = c.baseURL
	}
	return api
}

// GetUser returns the user the access token belongs to.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*gh.User, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "calling github",
		slog.String(logging.KeyOperation, "get_user"),
		slog.String(logging.KeyToken, logging.SanitizeToken(accessToken)),
	)

	user, _, err := c.api(ctx, accessToken).Users.Get(ctx, "")
	if err != nil {
		return nil, wrapError("get_user", err)
	}
	return user, nil
}

// ListRepos returns one page of the authenticated user's repositories,
// most recently updated first. Visibility is "all", "public" or "private";
// empty means all.
func (c *Client) ListRepos(ctx context.Context, accessToken, visibility string) ([]*gh.Repository, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}
	if visibility == "" {
		visibility = "all"
	}

	c.logger.DebugContext(ctx, "calling github",
		slog.String(logging.KeyOperation, "list_repos"),
		slog.String("visibility", visibility),
		slog.String(logging.KeyToken, logging.SanitizeToken(accessToken)),
	)

	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Visibility:  visibility,
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: DefaultRepoPageSize},
	}
	repos, _, err := c.api(ctx, accessToken).Repositories.ListByAuthenticatedUser(ctx, opts)
	if err != nil {
		return nil, wrapError("list_repos", err)
	}
	return repos, nil
}

// wrapError converts go-github errors into *APIError where possible.
func wrapError(op string, err error) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &APIError{Op: op, Status: ghErr.Response.StatusCode, Message: ghErr.Message}
	}
	return fmt.Errorf("github %s failed: %w", op, err)
}
