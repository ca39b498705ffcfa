package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/teemow/teams-mcp/internal/logging"
	"github.com/teemow/teams-mcp/internal/ratelimit"
)

const (
	// DefaultBaseURL is the Microsoft Graph v1.0 endpoint.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// DefaultChatPageSize is used when ListChats is called without a page size.
	DefaultChatPageSize = 50

	// DefaultMessagePageSize is used when ListMessages is called without a
	// page size.
	DefaultMessagePageSize = 20

	defaultHTTPTimeout = 30 * time.Second
	maxResponseBytes   = 4 << 20

	odataAADUserMember = "#microsoft.graph.aadUserConversationMember"
	roleOwner          = "owner"
)

// GraphError is a non-success response from Microsoft Graph.
type GraphError struct {
	// Op is the operation that failed, such as "list_chats".
	Op string
	// Status is the HTTP status code.
	Status int
	// Code is the Graph error code, such as "Forbidden", when the response
	// carried one.
	Code string
	// Message is the Graph error message or a snippet of the raw body.
	Message string
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("graph %s failed: %s: %s (status %d)", e.Op, e.Code, e.Message, e.Status)
	}
	return fmt.Sprintf("graph %s failed with status %d: %s", e.Op, e.Status, e.Message)
}

// graphErrorBody is the error envelope Graph wraps failures in.
type graphErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the Microsoft Graph chat APIs. Access tokens are supplied per
// call; the client itself holds no credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Graph endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client used for Graph requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Graph client that routes every request through the
// given rate limiter. A nil limiter gets the Graph defaults.
func NewClient(limiter *ratelimit.Limiter, opts ...Option) *Client {
	if limiter == nil {
		limiter = ratelimit.NewLimiter(0, 0)
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		limiter:    limiter,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Me returns the user the access token belongs to.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, "get_me", http.MethodGet, "/me", accessToken, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListChatsOptions narrows a ListChats call. A zero Top means
// DefaultChatPageSize.
type ListChatsOptions struct {
	// Filter is an OData $filter expression, for example
	// "chatType eq 'group'".
	Filter string
	// Top caps the number of chats returned.
	Top int
}

// ListChats returns the caller's chats with members expanded.
func (c *Client) ListChats(ctx context.Context, accessToken string, opts ListChatsOptions) ([]Chat, error) {
	top := opts.Top
	if top <= 0 {
		top = DefaultChatPageSize
	}
	query := url.Values{}
	query.Set("$top", strconv.Itoa(top))
	query.Set("$expand", "members")
	if opts.Filter != "" {
		query.Set("$filter", opts.Filter)
	}

	var list chatList
	if err := c.do(ctx, "list_chats", http.MethodGet, "/me/chats", accessToken, query, nil, &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

// CreateChat creates a one-on-one or group chat. Members are bound by email
// address; the calling user is added as an owner when not already present.
// The topic is only sent for group chats, Graph rejects it otherwise.
func (c *Client) CreateChat(ctx context.Context, accessToken, chatType string, members []MemberSpec, topic string) (*Chat, error) {
	me, err := c.Me(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	bindings := make([]memberBinding, 0, len(members)+1)
	for _, m := range members {
		role := m.Role
		if role == "" {
			role = roleOwner
		}
		bindings = append(bindings, memberBinding{
			ODataType: odataAADUserMember,
			Roles:     []string{role},
			UserBind:  c.userBind(m.Email),
		})
	}
	if !containsUser(bindings, me.ID) {
		self := memberBinding{
			ODataType: odataAADUserMember,
			Roles:     []string{roleOwner},
			UserBind:  c.userBind(me.ID),
		}
		bindings = append([]memberBinding{self}, bindings...)
	}

	payload := createChatRequest{
		ChatType: chatType,
		Members:  bindings,
	}
	if chatType == "group" {
		payload.Topic = topic
	}

	var chat Chat
	if err := c.do(ctx, "create_chat", http.MethodPost, "/chats", accessToken, nil, payload, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// SendMessage posts a message to a chat. Content type is "text" or "html";
// empty means text.
func (c *Client) SendMessage(ctx context.Context, accessToken, chatID, content, contentType string) (*ChatMessage, error) {
	if contentType == "" {
		contentType = "text"
	}
	payload := sendMessageRequest{
		Body: ItemBody{ContentType: contentType, Content: content},
	}

	var message ChatMessage
	path := fmt.Sprintf("/chats/%s/messages", url.PathEscape(chatID))
	if err := c.do(ctx, "send_message", http.MethodPost, path, accessToken, nil, payload, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessages returns messages from a chat, newest first unless orderBy
// says otherwise. A zero top means DefaultMessagePageSize.
func (c *Client) ListMessages(ctx context.Context, accessToken, chatID string, top int, orderBy string) ([]ChatMessage, error) {
	if top <= 0 {
		top = DefaultMessagePageSize
	}
	if orderBy == "" {
		orderBy = "createdDateTime desc"
	}
	query := url.Values{}
	query.Set("$top", strconv.Itoa(top))
	query.Set("$orderby", orderBy)

	var list messageList
	path := fmt.Sprintf("/chats/%s/messages", url.PathEscape(chatID))
	if err := c.do(ctx, "list_messages", http.MethodGet, path, accessToken, query, nil, &list); err != nil {
		return nil, err
	}
	return list.Value, nil
}

// userBind builds the OData reference Graph expects for chat members. Both
// object IDs and email addresses are accepted.
func (c *Client) userBind(idOrEmail string) string {
	return fmt.Sprintf("%s/users('%s')", c.baseURL, idOrEmail)
}

func containsUser(bindings []memberBinding, userID string) bool {
	suffix := fmt.Sprintf("('%s')", userID)
	for _, b := range bindings {
		if strings.HasSuffix(b.UserBind, suffix) {
			return true
		}
	}
	return false
}

// do runs one Graph call through the rate limiter, retrying on throttling.
// The payload is marshalled once; each attempt sends a fresh request.
func (c *Client) do(ctx context.Context, op, method, path, accessToken string, query url.Values, payload, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
	}

	c.logger.DebugContext(ctx, "calling graph",
		slog.String(logging.KeyOperation, op),
		slog.String("method", method),
		slog.String("path", path),
		slog.String(logging.KeyToken, logging.SanitizeToken(accessToken)),
	)

	return c.limiter.ExecuteWithRetry(ctx, func(ctx context.Context) error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
		if err != nil {
			return fmt.Errorf("failed to build %s request: %w", op, err)
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("graph %s request failed: %w", op, err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return fmt.Errorf("failed to read %s response: %w", op, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			return ratelimit.RetryAfterFromResponse(resp, bodySnippet(data))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return c.graphError(op, resp.StatusCode, data)
		}

		if out != nil && len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("failed to decode %s response: %w", op, err)
			}
		}
		return nil
	})
}

func (c *Client) graphError(op string, status int, data []byte) *GraphError {
	var body graphErrorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Error.Message != "" {
		return &GraphError{Op: op, Status: status, Code: body.Error.Code, Message: body.Error.Message}
	}
	return &GraphError{Op: op, Status: status, Message: bodySnippet(data)}
}

func bodySnippet(data []byte) string {
	const max = 200
	s := strings.TrimSpace(string(data))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
