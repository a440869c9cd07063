// Package api is the HTTP client for the Code Go data and auth services.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"codego/internal/models"
	"codego/internal/observability"

	"go.opentelemetry.io/otel/propagation"
)

const (
	DefaultAPIBaseURL  = "http://localhost:8081/api"
	DefaultAuthBaseURL = "http://localhost:8080/api/auth"
	DefaultTimeout     = 15 * time.Second

	dialTimeout     = 10 * time.Second
	maxResponseSize = 8 << 20
)

// ErrEmptyResponse is wrapped when a call that expects an entity gets a 2xx
// response without a body.
var ErrEmptyResponse = errors.New("empty response body")

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	APIBaseURL  string
	AuthBaseURL string
	// Timeout bounds every request, including reading the response body.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *observability.Logger
}

// Client talks JSON over HTTP to the remote API. It is safe for concurrent use.
type Client struct {
	dataURL string
	authURL string
	timeout time.Duration
	http    *http.Client
	logger  *observability.ClientLogger
}

var netDialer = &net.Dialer{
	Timeout: dialTimeout,
}

// New builds a Client from opts.
func New(opts Options) *Client {
	c := &Client{
		dataURL: strings.TrimRight(opts.APIBaseURL, "/"),
		authURL: strings.TrimRight(opts.AuthBaseURL, "/"),
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
		logger:  observability.NewClientLogger("api", opts.Logger),
	}
	if c.dataURL == "" {
		c.dataURL = DefaultAPIBaseURL
	}
	if c.authURL == "" {
		c.authURL = DefaultAuthBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{
			Transport: &http.Transport{
				DialContext: netDialer.DialContext,
			},
		}
	}
	return c
}

// request describes one API call.
type request struct {
	op     string
	method string
	base   string
	path   string
	bearer string
	body   any
	out    any
}

func (c *Client) do(ctx context.Context, r request) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	span, ctx := observability.StartClientSpan(ctx, r.op, r.method, r.path)
	defer span.End()
	track := observability.TrackRequest(r.op)

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			track(0)
			return models.NewInternalError(fmt.Errorf("encode %s request: %w", r.op, err))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.base+r.path, body)
	if err != nil {
		track(0)
		return models.NewInternalError(fmt.Errorf("build %s request: %w", r.op, err))
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	}
	if id := observability.ExtractCorrelationID(ctx); id != "" {
		req.Header.Set("X-Correlation-ID", id)
	}
	observability.InjectTraceHeaders(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		track(0)
		span.SetError(err)
		c.logger.LogRequest(ctx, r.method, r.path, 0, map[string]interface{}{"error": err.Error()})
		return models.NewNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	track(resp.StatusCode)
	span.SetStatus(resp.StatusCode)
	c.logger.LogRequest(ctx, r.method, r.path, resp.StatusCode, nil)
	if err != nil {
		span.SetError(err)
		return models.NewNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeError(resp, raw)
		span.SetError(apiErr)
		return apiErr
	}

	if r.out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		span.SetError(ErrEmptyResponse)
		return models.NewInternalError(fmt.Errorf("%s (status %d): %w", r.op, resp.StatusCode, ErrEmptyResponse))
	}
	if err := json.Unmarshal(raw, r.out); err != nil {
		span.SetError(err)
		return models.NewInternalError(fmt.Errorf("decode %s response: %w", r.op, err))
	}
	return nil
}

// decodeError reads {"error"} or {"message"} from a JSON error body.
func decodeError(resp *http.Response, raw []byte) *models.AppError {
	var msg string
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var body models.ErrorResponse
		if err := json.Unmarshal(raw, &body); err == nil {
			msg = body.Error
			if msg == "" {
				msg = body.Message
			}
		}
	}
	return models.NewAPIError(resp.StatusCode, strings.TrimSpace(msg))
}
