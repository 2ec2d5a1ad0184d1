// Package backend is the HTTP client for the e-commerce REST API that owns all
// orders, payments, products and discounts shown by the dashboard.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	apperrors "smartmart-admin/internal/errors"
	"smartmart-admin/internal/metrics"
	"smartmart-admin/internal/observability"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = 200 * time.Millisecond
	maxErrorBody      = 4 << 10
)

type Config struct {
	BaseURL string
	Timeout time.Duration
	Retries int
}

// Client issues calls against the backend. Transport failures and 5xx responses
// are retried up to Retries times; 4xx responses are returned immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
	logger     *slog.Logger
	metrics    *metrics.Registry
}

func NewClient(cfg Config, logger *slog.Logger, m *metrics.Registry) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		retries:    cfg.Retries,
		retryDelay: defaultRetryDelay,
		logger:     logger,
		metrics:    m,
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
}

func (r request) endpoint() string {
	return path.Base(r.path)
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	var payload []byte
	if req.body != nil {
		var err error
		payload, err = json.Marshal(req.body)
		if err != nil {
			return apperrors.InternalWrap(err, "encode request body")
		}
	}

	endpoint := req.endpoint()
	start := time.Now()
	defer func() { c.metrics.ObserveBackend(endpoint, time.Since(start)) }()

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.metrics.IncBackendRetry(endpoint)
			c.logger.Warn("retrying backend call",
				"endpoint", endpoint,
				"attempt", attempt+1,
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return apperrors.NetworkWrap(ctx.Err(), "backend request cancelled")
			case <-time.After(c.retryDelay):
			}
		}

		retry, err := c.attempt(ctx, req, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}

	c.metrics.IncBackendFailure(endpoint, string(apperrors.CodeOf(lastErr)))
	return lastErr
}

// attempt performs one round trip and reports whether a failure is worth retrying.
func (c *Client) attempt(ctx context.Context, req request, payload []byte, out any) (bool, error) {
	ctx, span := observability.StartSpan(ctx, fmt.Sprintf("backend %s %s", req.method, req.path))
	defer func() {
		span.Finish()
		c.logger.Debug("backend call", "span", span, "request_id", observability.GetRequestID(ctx))
	}()

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		span.SetError(err)
		return false, apperrors.InternalWrap(err, "build backend request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if id := observability.GetRequestID(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.SetError(err)
		return true, apperrors.NetworkWrap(err, "backend unreachable")
	}
	defer resp.Body.Close()

	span.SetTag("http.status_code", strconv.Itoa(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		appErr := statusError(resp.StatusCode, raw)
		span.SetError(appErr)
		return resp.StatusCode >= 500, appErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return false, nil
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		span.SetError(err)
		return false, apperrors.NetworkWrap(err, "unexpected backend response")
	}
	return false, nil
}

func statusError(status int, raw []byte) *apperrors.AppError {
	msg := backendMessage(raw)

	var appErr *apperrors.AppError
	switch {
	case status == http.StatusNotFound:
		appErr = apperrors.NotFound(orDefault(msg, "resource not found"))
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		appErr = apperrors.Validation(orDefault(msg, "backend rejected the request"))
	case status == http.StatusUnauthorized:
		appErr = apperrors.Unauthorized(orDefault(msg, "invalid credentials"))
	case status == http.StatusForbidden:
		appErr = apperrors.Forbidden(orDefault(msg, "forbidden"))
	default:
		appErr = apperrors.Network("backend request failed").WithDetails(fmt.Sprintf("status %d", status))
		if msg != "" {
			appErr.Details += ": " + msg
		}
	}
	return appErr
}

func backendMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
