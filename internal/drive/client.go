package drive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/teemow/teams-mcp/internal/logging"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// DefaultPageSize is used when ListFiles is called without a page size
	DefaultPageSize = 10

	defaultHTTPTimeout = 30 * time.Second

	listFields = "nextPageToken, files(id, name, mimeType, size, modifiedTime, webViewLink)"
)

// Client lists files in Google Drive on behalf of the token passed to each
// call.
type Client struct {
	endpoint string
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the Drive API endpoint, mainly for tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Google Drive client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// service builds a Drive service bound to the given access token.
func (c *Client) service(ctx context.Context, accessToken string) (*drive.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = defaultHTTPTimeout

	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(c.endpoint))
	}

	service, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return service, nil
}

// ListFiles lists files in Google Drive with optional filtering. It returns
// one page of results and the token for the next page, if any.
func (c *Client) ListFiles(ctx context.Context, accessToken string, options *ListOptions) ([]*FileInfo, string, error) {
	service, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, "", err
	}

	c.logger.DebugContext(ctx, "calling drive",
		slog.String(logging.KeyOperation, "list_files"),
		slog.String(logging.KeyToken, logging.SanitizeToken(accessToken)),
	)

	call := service.Files.List().
		Context(ctx).
		Fields(listFields)

	pageSize := DefaultPageSize
	if options != nil {
		if options.Query != "" {
			call = call.Q(options.Query)
		}
		if options.PageSize > 0 {
			pageSize = options.PageSize
		}
		if options.OrderBy != "" {
			call = call.OrderBy(options.OrderBy)
		}
		if options.PageToken != "" {
			call = call.PageToken(options.PageToken)
		}
	}
	call = call.PageSize(int64(pageSize))

	fileList, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToFileInfo(f)
	}

	return files, fileList.NextPageToken, nil
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
	}

	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}

	return fileInfo
}
