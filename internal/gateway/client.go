// Package gateway is the HTTP client for the ZOOM WIFI backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
	"github.com/zoomwifi/admin-console/pkg/middleware/requestid"
)

const maxErrorBody = 64 << 10

// TokenProvider supplies the bearer token for authenticated calls.
type TokenProvider interface {
	Token() (string, bool)
}

// Invalidator is implemented by providers that can drop a rejected token.
// Only the token that was actually sent is passed in.
type Invalidator interface {
	InvalidateIfCurrent(token string)
}

// Observer receives one callback per backend call.
type Observer interface {
	ObserveRequest(resource, method string, status int, err error, elapsed time.Duration)
}

// Client performs JSON calls against the backend. It never retries.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	tokens    TokenProvider
	logger    *zap.Logger
	observer  Observer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver attaches a request observer such as the metrics service.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient builds a gateway client rooted at baseURL.
func NewClient(baseURL string, tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// doJSON sends in as JSON and decodes a 2xx body into out. Failures come
// back as TRANSPORT_ERROR or SERVER_ERROR.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any, requiresAuth bool) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		if c.observer != nil {
			c.observer.ObserveRequest(resourceOf(path), method, status, err, time.Since(start))
		}
	}()

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, mErr := json.Marshal(in)
		if mErr != nil {
			return appErrors.Validation(mErr, "invalid request payload")
		}
		body = bytes.NewReader(raw)
	}

	req, rErr := http.NewRequestWithContext(ctx, method, u, body)
	if rErr != nil {
		return appErrors.Transport(rErr, "")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.HeaderKey, id)
	}
	sent := ""
	if requiresAuth && c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			sent = token
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, dErr := c.http.Do(req)
	if dErr != nil {
		c.logger.Warn("backend unreachable", zap.String("method", method), zap.String("path", path), zap.Error(dErr))
		return appErrors.Transport(dErr, transportMessage(dErr))
	}
	defer res.Body.Close() //nolint:errcheck
	status = res.StatusCode

	payload, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		return appErrors.Transport(readErr, transportMessage(readErr))
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		if res.StatusCode == http.StatusUnauthorized && requiresAuth {
			if inv, ok := c.tokens.(Invalidator); ok && sent != "" {
				inv.InvalidateIfCurrent(sent)
			}
		}
		apiErr := parseServerError(res.StatusCode, payload)
		c.logger.Debug("backend error", zap.String("method", method), zap.String("path", path), zap.Int("status", res.StatusCode), zap.String("message", apiErr.Message))
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if uErr := json.Unmarshal(payload, out); uErr != nil {
		return appErrors.Wrap(uErr, appErrors.CodeServer, http.StatusBadGateway, "invalid response payload")
	}
	return nil
}

func parseServerError(status int, payload []byte) *appErrors.Error {
	var body apiErrorBody
	if len(payload) > maxErrorBody {
		payload = payload[:maxErrorBody]
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if msg := strings.TrimSpace(body.Message); msg != "" {
			return appErrors.Server(status, msg)
		}
		if msg := strings.TrimSpace(body.Error); msg != "" {
			return appErrors.Server(status, msg)
		}
	}
	return appErrors.Server(status, "")
}

func transportMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "the server took too long to respond"
	case errors.Is(err, context.Canceled):
		return "the request was cancelled"
	default:
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "the server took too long to respond"
		}
		return ""
	}
}

func resourceOf(path string) string {
	path = strings.TrimLeft(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

func escape(id string) string {
	return url.PathEscape(id)
}

func pathf(format string, args ...any) string {
	for i, a := range args {
		if s, ok := a.(string); ok {
			args[i] = escape(s)
		}
	}
	return fmt.Sprintf(format, args...)
}
