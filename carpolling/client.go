// Package carpolling is the Go client for the CarPolling university
// carpooling backend. It wraps the backend's HTTP/JSON contract in a typed
// request executor, a closed error taxonomy and named endpoint operations.
package carpolling

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Client talks to a CarPolling backend at a fixed base URL. It is safe for
// concurrent use; every request is independent.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New returns a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log:       zap.NewNop(),
		userAgent: "carpolling-go",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do executes one typed request and classifies its outcome. endpoint must
// already be percent-encoded by the caller; it is not re-encoded here.
// op names the operation for logs and metrics.
func do[T any](ctx context.Context, c *Client, op, method, endpoint string, body any, token string) (T, error) {
	var zero T

	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(endpoint, "/"))
	if err != nil {
		return zero, invalidURL(err)
	}
	if u.Scheme == "" || u.Host == "" {
		return zero, invalidURL(nil)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, requestFailed("failed to encode request body", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return zero, requestFailed(err.Error(), err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", c.userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	recordStart(ctx, op, method)
	defer recordEnd(ctx, op, method)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("request_id", requestID),
			zap.String("operation", op),
			zap.String("method", method),
			zap.Error(err),
		)
		recordOutcome(ctx, op, method, 0, KindRequestFailed, time.Since(start))
		return zero, requestFailed(err.Error(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		recordOutcome(ctx, op, method, resp.StatusCode, KindRequestFailed, time.Since(start))
		return zero, requestFailed(err.Error(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := classifyErrorBody(resp.StatusCode, data)
		c.log.Warn("request rejected",
			zap.String("request_id", requestID),
			zap.String("operation", op),
			zap.String("method", method),
			zap.Int("status", resp.StatusCode),
			zap.String("kind", apiErr.Kind.String()),
		)
		recordOutcome(ctx, op, method, resp.StatusCode, apiErr.Kind, time.Since(start))
		return zero, apiErr
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		recordOutcome(ctx, op, method, resp.StatusCode, KindDecodingFailed, time.Since(start))
		return zero, decodingFailed(err)
	}

	c.log.Debug("request completed",
		zap.String("request_id", requestID),
		zap.String("operation", op),
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	recordOutcome(ctx, op, method, resp.StatusCode, 0, time.Since(start))
	return value, nil
}

// classifyErrorBody maps a non-2xx body onto the taxonomy. The backend is
// inconsistent between {"error": ...} and {"message": ...} payloads across
// endpoints, so both are recognized before falling back to the bare status.
func classifyErrorBody(statusCode int, body []byte) *APIError {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		return serverError(statusCode, errResp.Error)
	}

	var envelope struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != nil {
		return serverError(statusCode, *envelope.Message)
	}

	return invalidResponse(statusCode)
}
