// Package client is a typed HTTP client for the imageworld API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/krishkalaria12/imageworld/models"
)

const DefaultTimeout = 60 * time.Second

// APIError is a non-2xx response. Message is the server's own message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

type Session struct {
	User  models.AccountSummary `json:"user"`
	Token string                `json:"token"`
}

// Download is a processed image returned by one of the tools.
type Download struct {
	Data        []byte
	ContentType string
	Filename    string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	var session Session
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

func (c *Client) Me(ctx context.Context) (*models.AccountSummary, error) {
	var me models.AccountSummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

func (c *Client) Upgrade(ctx context.Context, subscriptionID string) (*models.AccountSummary, error) {
	var out struct {
		Message string                `json:"message"`
		User    models.AccountSummary `json:"user"`
	}
	body := map[string]string{}
	if subscriptionID != "" {
		body["subscriptionId"] = subscriptionID
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/subscription/upgrade", body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

type ResizeOptions struct {
	Width   int
	Height  int
	Quality int
}

func (c *Client) Resize(ctx context.Context, up *Upload, opts ResizeOptions) (*Download, error) {
	fields := map[string]string{}
	setInt(fields, "width", opts.Width)
	setInt(fields, "height", opts.Height)
	setInt(fields, "quality", opts.Quality)
	return c.upload(ctx, "/api/images/resize", up, fields)
}

func (c *Client) Convert(ctx context.Context, up *Upload, format string, quality int) (*Download, error) {
	fields := map[string]string{"format": format}
	setInt(fields, "quality", quality)
	return c.upload(ctx, "/api/images/convert", up, fields)
}

func (c *Client) Compress(ctx context.Context, up *Upload, quality int) (*Download, error) {
	fields := map[string]string{}
	setInt(fields, "quality", quality)
	return c.upload(ctx, "/api/images/compress", up, fields)
}

func setInt(fields map[string]string, key string, v int) {
	if v > 0 {
		fields[key] = strconv.Itoa(v)
	}
}

func (c *Client) upload(ctx context.Context, path string, up *Upload, fields map[string]string) (*Download, error) {
	if c.token == "" {
		return nil, ErrNotAuthenticated
	}

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write %s field: %w", k, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(up.Name)))
	h.Set("Content-Type", up.ContentType)
	filePart, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create image field: %w", err)
	}
	if _, err := filePart.Write(up.Data); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Download{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    attachmentName(resp.Header.Get("Content-Disposition")),
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func decodeError(resp *http.Response) error {
	respBody, _ := io.ReadAll(resp.Body)

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil || payload.Message == "" {
		payload.Message = strings.TrimSpace(string(respBody))
		if payload.Message == "" {
			payload.Message = http.StatusText(resp.StatusCode)
		}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: payload.Message}
}

// attachmentName extracts the filename parameter of a Content-Disposition header.
// Only the base name is kept so a server cannot point the download at another directory.
func attachmentName(header string) string {
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return SafeFilename(params["filename"])
}

// SafeFilename reduces name to its final path element. It returns "" when
// nothing usable is left.
func SafeFilename(name string) string {
	name = filepath.Base(filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
	switch name {
	case ".", "..", string(filepath.Separator):
		return ""
	}
	return name
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
