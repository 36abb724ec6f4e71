package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sagarc03/todos"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client performs operations against a todos server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()
	if err := cfg.ValidateWithAuth(); err != nil {
		return nil, err
	}

	c := &Client{
		config: &Config{
			Endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
			Token:    cfg.Token,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// List returns every item of the token's owner.
func (c *Client) List(ctx context.Context) ([]todos.Item, error) {
	var out listEnvelope
	if err := c.do(ctx, http.MethodGet, "/todos", nil, http.StatusOK, &out); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return out.Items, nil
}

// Get fetches a single item.
func (c *Client) Get(ctx context.Context, itemID string) (todos.Item, error) {
	if itemID == "" {
		return todos.Item{}, fmt.Errorf("get: %w", ErrEmptyItemID)
	}

	var out itemEnvelope
	if err := c.do(ctx, http.MethodGet, itemPath(itemID), nil, http.StatusOK, &out); err != nil {
		return todos.Item{}, fmt.Errorf("get %s: %w", itemID, err)
	}
	return out.Item, nil
}

// Create adds a new item.
func (c *Client) Create(ctx context.Context, req todos.CreateItem) (todos.Item, error) {
	var out itemEnvelope
	if err := c.do(ctx, http.MethodPost, "/todos", req, http.StatusCreated, &out); err != nil {
		return todos.Item{}, fmt.Errorf("create: %w", err)
	}
	return out.Item, nil
}

// Update overwrites the mutable fields of an item.
func (c *Client) Update(ctx context.Context, itemID string, req todos.UpdateItem) (todos.Item, error) {
	if itemID == "" {
		return todos.Item{}, fmt.Errorf("update: %w", ErrEmptyItemID)
	}

	var out itemEnvelope
	if err := c.do(ctx, http.MethodPatch, itemPath(itemID), req, http.StatusOK, &out); err != nil {
		return todos.Item{}, fmt.Errorf("update %s: %w", itemID, err)
	}
	return out.Item, nil
}

// Delete removes an item.
func (c *Client) Delete(ctx context.Context, itemID string) error {
	if itemID == "" {
		return fmt.Errorf("delete: %w", ErrEmptyItemID)
	}

	if err := c.do(ctx, http.MethodDelete, itemPath(itemID), nil, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("delete %s: %w", itemID, err)
	}
	return nil
}

// RequestUpload asks the server for a signed attachment upload URL.
func (c *Client) RequestUpload(ctx context.Context, itemID string) (string, error) {
	if itemID == "" {
		return "", fmt.Errorf("request upload: %w", ErrEmptyItemID)
	}

	var out todos.UploadURL
	if err := c.do(ctx, http.MethodPost, itemPath(itemID)+"/attachment", nil, http.StatusOK, &out); err != nil {
		return "", fmt.Errorf("request upload %s: %w", itemID, err)
	}
	return out.UploadURL, nil
}

// UploadAttachment requests a signed URL for the item and PUTs the local
// file to it. The signed URL goes straight to object storage, so no bearer
// token is sent with the upload.
func (c *Client) UploadAttachment(ctx context.Context, itemID, localPath string) (*AttachResult, error) {
	if localPath == "" {
		return nil, fmt.Errorf("upload attachment: %w", ErrEmptyPath)
	}

	file, err := os.Open(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	uploadURL, err := c.RequestUpload(ctx, itemID)
	if err != nil {
		return nil, err
	}

	contentType := detectContentType(localPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = info.Size()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("upload attachment: %w", parseServerError(resp.StatusCode, body))
	}

	item, err := c.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return &AttachResult{
		ItemID:        itemID,
		LocalPath:     localPath,
		ContentType:   contentType,
		Size:          info.Size(),
		AttachmentURL: item.AttachmentURL,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, wantStatus int, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.Endpoint+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return parseServerError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func itemPath(itemID string) string {
	return "/todos/" + url.PathEscape(itemID)
}

// detectContentType returns MIME type based on file extension.
func detectContentType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "application/octet-stream"
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}

	return mimeType
}

// parseServerError extracts error message from server response.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode, Body: string(body)}

	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil {
		apiErr.Message = env.Error
		apiErr.Code = env.Code
	}
	return apiErr
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Message
	}
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the item does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when the token is rejected (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrBadRequest is returned when the server rejects the input (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}
)
