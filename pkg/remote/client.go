// Package remote is a client for a GitHub-style repository content API:
// directory listings, file reads and file creation under
// /repos/{repo}/contents/{path}.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdinbox/internal/logging"
)

// Defaults.
const (
	DefaultBaseURL        = "https://api.github.com"
	DefaultTimeout        = 60 * time.Second
	defaultConnectTimeout = 5 * time.Second
	defaultTLSTimeout     = 5 * time.Second

	acceptHeader    = "application/vnd.github.v3+json"
	maxResponseSize = 32 << 20
)

// Item is an entry of a directory listing.
type Item struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	SHA         string `json:"sha"`
	DownloadURL string `json:"download_url"`
}

// IsFile reports whether the entry is a regular file.
func (i Item) IsFile() bool {
	return i.Type == "file"
}

// File is the metadata and content of a single file.
type File struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// Text decodes the file content.
func (f *File) Text() (string, error) {
	if f.Encoding != "" && f.Encoding != "base64" {
		return "", fmt.Errorf("unsupported content encoding %q", f.Encoding)
	}
	return DecodeContent(f.Content)
}

// Repository is a repository visible to the token.
type Repository struct {
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
}

type createRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the overall request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client talks to the content API of one repository.
type Client struct {
	baseURL string
	repo    string
	token   string
	timeout time.Duration
	http    *http.Client
	logger  *log.Logger
}

// NewClient creates a client for repo ("owner/name") authenticated by token.
func NewClient(repo, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		repo:    strings.Trim(repo, "/"),
		token:   token,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = defaultHTTPClient(c.timeout)
	}
	c.logger = logging.OrDefault(c.logger)
	return c
}

// Repository returns the repository the client targets.
func (c *Client) Repository() string {
	return c.repo
}

func defaultHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout: defaultConnectTimeout,
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: defaultTLSTimeout,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// CreateFile creates the file at path. content is the base64 payload, see
// EncodeContent.
func (c *Client) CreateFile(ctx context.Context, path, message, content string) error {
	body := createRequest{Message: message, Content: content}
	return c.do(ctx, http.MethodPut, c.contentsPath(path), body, nil)
}

// ListDirectory lists the entries of the directory at path.
func (c *Client) ListDirectory(ctx context.Context, path string) ([]Item, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.contentsPath(path), nil, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("list %s: not a directory", path)
	}

	var items []Item
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return items, nil
}

// GetFile fetches the file at path.
func (c *Client) GetFile(ctx context.Context, path string) (*File, error) {
	var file File
	if err := c.do(ctx, http.MethodGet, c.contentsPath(path), nil, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// ListRepositories lists repositories visible to the token, most recently
// updated first.
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	var repos []Repository
	if err := c.do(ctx, http.MethodGet, "/user/repos?sort=updated&per_page=100", nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) contentsPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "/repos/" + c.repo + "/contents/" + strings.Join(segments, "/")
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	c.logger.Debug("remote request",
		"method", method,
		logging.FieldPath, path,
		logging.FieldStatus, resp.StatusCode,
		logging.FieldDuration, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts {"message": ...} from an error body, falling back to
// the raw body and then the status text.
func errorMessage(status int, data []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return text
	}
	return http.StatusText(status)
}

// EncodeContent base64-encodes the UTF-8 bytes of text.
func EncodeContent(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// DecodeContent decodes a base64 payload. Line breaks inserted by the API
// are ignored.
func DecodeContent(payload string) (string, error) {
	clean := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	return string(data), nil
}
