package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

const (
	// DefaultTimeout is the default HTTP client timeout for broker calls.
	DefaultTimeout = 30 * time.Second

	apiPath    = "/api/upload"
	healthPath = "/healthz"
)

// Client talks to a broker and to the object store URLs it hands out.
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

// Upload registers a local file with the broker, PUTs its bytes to the
// returned write URL and confirms the upload.
//
// If the PUT fails the record stays in the uploading state on the broker.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) (*UploadResult, error) {
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("upload: %w", ErrEmptyPath)
	}

	file, err := os.Open(opts.LocalPath) //#nosec G304 -- LocalPath is user-provided input
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("upload %s: %w", opts.LocalPath, ErrNotAFile)
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(opts.LocalPath)
	}
	// The write URL is bound to the type inferred from the name, so the PUT
	// must carry exactly that type.
	contentType := mediastore.ContentTypeFor(name)

	var ticket uploadTicket
	err = c.call(ctx, apiRequest{
		Operation: "request-upload",
		FileInfo:  &fileInfoBody{Name: name, Size: info.Size(), Type: contentType},
		Metadata: &metadataBody{
			Title:       opts.Title,
			Description: opts.Description,
			Tags:        opts.Tags,
		},
	}, &ticket)
	if err != nil {
		return nil, fmt.Errorf("request upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, ticket.UploadURL, file)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = info.Size()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return nil, fmt.Errorf("put object: %w", parseStoreError(resp.StatusCode, body))
	}

	confirmed, err := c.Confirm(ctx, ticket.FileID)
	if err != nil {
		return nil, err
	}

	return &UploadResult{
		LocalPath:   opts.LocalPath,
		FileID:      ticket.FileID,
		Name:        name,
		ContentType: contentType,
		Size:        info.Size(),
		Status:      confirmed,
	}, nil
}

// Confirm marks an upload as completed. Confirming twice is not an error.
func (c *Client) Confirm(ctx context.Context, fileID string) (mediastore.Status, error) {
	if fileID == "" {
		return "", fmt.Errorf("confirm upload: %w", ErrEmptyFileID)
	}

	var resp confirmResponse
	if err := c.call(ctx, apiRequest{Operation: "confirm-upload", FileID: fileID}, &resp); err != nil {
		return "", fmt.Errorf("confirm upload: %w", err)
	}
	return resp.Status, nil
}

// Download asks the broker for a read URL and fetches the object from the
// store. If opts.LocalPath is "-", the content is returned via the
// io.ReadCloser and must be closed by the caller. Otherwise, the content is
// written to the file and the io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	if opts.FileID == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrEmptyFileID)
	}

	var ticket downloadTicket
	if err := c.call(ctx, apiRequest{Operation: "request-download", FileID: opts.FileID}, &ticket); err != nil {
		return nil, nil, fmt.Errorf("request download: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ticket.DownloadURL, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("get object: %w", parseStoreError(resp.StatusCode, body))
	}

	result := &DownloadResult{
		FileID:      opts.FileID,
		Name:        ticket.FileInfo.Filename,
		Category:    ticket.FileInfo.FileType,
		ContentType: ticket.FileInfo.ContentType,
		Title:       ticket.FileInfo.Title,
		Size:        resp.ContentLength,
	}
	if result.Size < 0 {
		result.Size = ticket.FileInfo.FileSize
	}

	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = filepath.Base(ticket.FileInfo.Filename)
	}
	result.LocalPath = localPath

	dir := filepath.Dir(localPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
			_ = resp.Body.Close()
			return nil, nil, fmt.Errorf("create directory: %w", mkdirErr)
		}
	}

	file, createErr := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if createErr != nil {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("create file: %w", createErr)
	}

	written, copyErr := io.Copy(file, resp.Body)
	_ = resp.Body.Close()
	if copyErr != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("write file: %w", copyErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return nil, nil, fmt.Errorf("close file: %w", closeErr)
	}

	result.Size = written
	return result, nil, nil
}

// List lists the caller's files.
// If opts.All is true, paginates through all results.
func (c *Client) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if opts.All {
		return c.listAll(ctx, opts)
	}
	return c.listPage(ctx, opts)
}

func (c *Client) listPage(ctx context.Context, opts ListOptions) (*ListResult, error) {
	var result ListResult
	err := c.call(ctx, apiRequest{
		Operation: "list-files",
		Status:    string(opts.Status),
		Limit:     opts.Limit,
		Cursor:    opts.Cursor,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if result.Items == nil {
		result.Items = []mediastore.FileRecord{}
	}
	return &result, nil
}

func (c *Client) listAll(ctx context.Context, opts ListOptions) (*ListResult, error) {
	allItems := []mediastore.FileRecord{}
	cursor := opts.Cursor

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := c.listPage(ctx, ListOptions{
			Status: opts.Status,
			Limit:  opts.Limit,
			Cursor: cursor,
		})
		if err != nil {
			return nil, err
		}

		allItems = append(allItems, page.Items...)

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return &ListResult{Items: allItems}, nil
}

// Health probes the broker. Any well-formed response is returned, including
// an unhealthy one; only transport failures are errors.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Endpoint+healthPath, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &status, nil
}

// call POSTs body to the broker API and decodes a 200 response into out.
func (c *Client) call(ctx context.Context, body apiRequest, out any) error {
	if err := c.config.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint+apiPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return parseServerError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// parseServerError decodes the broker's JSON error body. Bodies that are not
// JSON are kept verbatim in Message.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		apiErr.Code = eb.Error
		apiErr.Message = eb.Message
		apiErr.Details = eb.Details
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}

// parseStoreError wraps an object store failure. S3-compatible stores answer
// with XML, which is kept as is.
func parseStoreError(statusCode int, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Code:       "object_store_error",
		Message:    strings.TrimSpace(string(body)),
	}
}

// APIError represents an error response from the broker or the object store.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("server error: ")
	b.WriteString(strconv.Itoa(e.StatusCode))
	if e.Code != "" {
		b.WriteString(" " + e.Code)
	}
	if e.Message != "" {
		b.WriteString(" - " + e.Message)
	}
	for _, d := range e.Details {
		b.WriteString("; " + d)
	}
	return b.String()
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
	// ErrNotFound is returned when the file does not exist or belongs to
	// someone else (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when the bearer token is rejected (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrBadRequest is returned when the broker rejects the request, for
	// example a file that fails validation (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}

	// ErrForbidden is returned by the object store when a capability URL has
	// expired or the request does not match its signature (403).
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}
)
