package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

const defaultTimeout = 10 * time.Second

// Client talks to the filter store HTTP API on behalf of one user
type Client struct {
	baseURL string
	user    string
	http    *http.Client
	log     logrus.FieldLogger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger requests are traced to
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client for the server at baseURL
func New(baseURL, user string, opts ...Option) *Client {
	if user == "" {
		user = models.DefaultUser
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		user:    user,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("user", c.user)
	return c
}

// User returns the user the client acts for
func (c *Client) User() string {
	return c.user
}

// BaseURL returns the server address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Load fetches the user's views and their content hash
func (c *Client) Load(ctx context.Context) (models.Personalization, error) {
	var p models.Personalization
	resp, err := c.do(ctx, http.MethodGet, models.SelectionPath, nil, nil)
	if err != nil {
		return p, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return p, fmt.Errorf("failed to decode pipeline selection: %w", err)
	}
	if p.ContentHash == "" {
		p.ContentHash = strings.Trim(resp.Header.Get("ETag"), `"`)
	}
	return p, nil
}

// Save replaces the user's views. token must be the content hash the views
// were derived from; a stale token yields an *Error whose Conflict is true.
func (c *Client) Save(ctx context.Context, views []models.View, token string) (string, error) {
	body, err := json.Marshal(models.SelectionUpdate{Filters: views})
	if err != nil {
		return "", fmt.Errorf("failed to encode views: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"If-Match":     `"` + token + `"`,
	}
	resp, err := c.do(ctx, http.MethodPut, models.SelectionPath, bytes.NewReader(body), headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var saved models.SelectionSaved
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		return "", fmt.Errorf("failed to decode save response: %w", err)
	}
	c.log.WithField("views", len(views)).Debugln("remote: pipeline selection saved")
	return saved.ContentHash, nil
}

// PipelineGroups lists the groups a view can be assigned
func (c *Client) PipelineGroups(ctx context.Context) ([]models.PipelineGroup, error) {
	resp, err := c.do(ctx, http.MethodGet, models.GroupsPath, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var groups []models.PipelineGroup
	if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
		return nil, fmt.Errorf("failed to decode pipeline groups: %w", err)
	}
	return groups, nil
}

// do sends a request and converts non-2xx responses into *Error
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(models.UserHeader, c.user)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	log := c.log.WithField("method", method).WithField("path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Debugln("remote: request failed")
		return nil, fmt.Errorf("failed to reach %s: %w", c.baseURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		rerr := newError(resp.StatusCode, raw)
		log.WithField("status", resp.StatusCode).Debugln("remote: request rejected")
		return nil, rerr
	}

	return resp, nil
}
