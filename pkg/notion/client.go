package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2021-05-13"
	DefaultTimeout = 10 * time.Second

	// Hard stop for runaway pagination.
	maxQueryPages = 50
)

var (
	ErrMissingToken    = errors.New("notion token is not configured")
	ErrMissingDatabase = errors.New("notion database id is not configured")
)

// APIError is the error envelope returned by the Notion API on non-2xx responses.
type APIError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion: %s (status %d): %s", e.Code, e.Status, e.Message)
}

// Client queries Notion databases with an integration token.
type Client struct {
	baseURL    string
	version    string
	timeout    time.Duration
	base       *http.Client
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.version = v
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient sets the client whose transport carries the authorized requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.base = hc }
}

// NewClient builds a client that sends the token as a bearer credential.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		version: DefaultVersion,
		timeout: DefaultTimeout,
		base:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	c.httpClient = oauth2.NewClient(ctx, src)
	c.httpClient.Timeout = c.timeout
	return c, nil
}

// NormalizeID accepts a database id with or without dashes and returns the dashed form.
func NormalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrMissingDatabase
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid notion id %q: %w", id, err)
	}
	return parsed.String(), nil
}

// QueryDatabase returns every row of the database, following pagination cursors.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	id, err := NormalizeID(databaseID)
	if err != nil {
		return nil, err
	}

	var pages []Page
	req := QueryRequest{}
	for i := 0; i < maxQueryPages; i++ {
		resp, err := c.query(ctx, id, req)
		if err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			return pages, nil
		}
		req.StartCursor = *resp.NextCursor
	}
	return nil, fmt.Errorf("query database %s: more than %d result pages", id, maxQueryPages)
}

func (c *Client) query(ctx context.Context, databaseID string, body QueryRequest) (*QueryResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode query body: %w", err)
	}

	url := c.baseURL + "/databases/" + databaseID + "/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query database %s: %w", databaseID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read query response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			return nil, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		if apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode
		}
		return nil, apiErr
	}

	var out QueryResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	return &out, nil
}
