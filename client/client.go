// Package client is the HTTP gateway to the forms backend. It encodes JSON
// bodies, attaches the session's bearer token and turns failures into *Error.
package client

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

	"go.uber.org/zap"

	"github.com/vnkhanh/forms-app/session"
)

const (
	DefaultBaseURL = "http://localhost:3000"
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 8 << 20
)

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Session    *session.Session
	Logger     *zap.Logger
	// OnUnauthorized runs after a 401 cleared the token.
	OnUnauthorized func()
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	session        *session.Session
	log            *zap.Logger
	onUnauthorized func()
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sess := cfg.Session
	if sess == nil {
		sess = session.New(nil, logger)
	}
	return &Client{
		httpClient:     hc,
		baseURL:        baseURL,
		session:        sess,
		log:            logger,
		onUnauthorized: cfg.OnUnauthorized,
	}
}

func (c *Client) Session() *session.Session { return c.session }

func (c *Client) BaseURL() string { return c.baseURL }

// SetOnUnauthorized replaces the 401 hook.
func (c *Client) SetOnUnauthorized(fn func()) { c.onUnauthorized = fn }

// authExempt reports whether a request is sent without a bearer token.
func authExempt(method, path string) bool {
	if method != http.MethodPost {
		return false
	}
	p := strings.TrimRight(path, "/")
	return p == "/sessions" || p == "/users"
}

// Do sends body as JSON and decodes a 2xx response into out when out is not
// nil. Any other outcome is an *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	exempt := authExempt(method, path)
	if !exempt {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &Error{Kind: KindNetwork, Method: method, Path: path, cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Method: method, Path: path, cause: fmt.Errorf("read response body: %w", err)}
	}
	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			Kind:   KindForStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Method: method,
			Path:   path,
		}
		parseErrorBody(apiErr, data)
		if resp.StatusCode == http.StatusUnauthorized && !exempt {
			c.session.ClearToken()
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// IsCanceled reports whether err came from the caller's context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
