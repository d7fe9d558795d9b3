// Package trace tags outgoing API requests with a request ID and logs their
// start and completion.
package trace

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"bookkeeping/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	// HeaderRequestID carries the request ID to the remote service.
	HeaderRequestID = "X-Request-ID"
)

// Metrics tracks request metrics
type Metrics struct {
	TotalRequests  int64
	FailedRequests int64
	LastDurationMs int64
}

// Transport is an http.RoundTripper that traces each request.
type Transport struct {
	base    http.RoundTripper
	logger  *log.Logger
	metrics Metrics
}

// NewTransport wraps base, which defaults to http.DefaultTransport.
func NewTransport(base http.RoundTripper, logger *log.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		base:   base,
		logger: log.OrDefault(logger).WithComponent(log.ComponentTrace),
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := GetRequestID(req.Context())
	if requestID == "" {
		requestID = req.Header.Get(HeaderRequestID)
	}
	if requestID == "" {
		requestID = GenerateRequestID()
	}

	// RoundTrippers must not modify the caller's request.
	req = req.Clone(context.WithValue(req.Context(), RequestIDKey, requestID))
	req.Header.Set(HeaderRequestID, requestID)

	ctx := req.Context()
	atomic.AddInt64(&t.metrics.TotalRequests, 1)

	t.logger.DebugContext(ctx, "API request started",
		log.NewFields().
			WithRequestID(requestID).
			WithHTTPRequest(req.Method, req.URL.String()).
			ToSlice()...)

	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)
	atomic.StoreInt64(&t.metrics.LastDurationMs, duration.Milliseconds())

	if err != nil {
		atomic.AddInt64(&t.metrics.FailedRequests, 1)
		t.logger.ErrorContext(ctx, "API request failed",
			log.NewFields().
				WithRequestID(requestID).
				WithHTTPRequest(req.Method, req.URL.String()).
				WithError(err).
				ToSlice()...)
		return nil, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		level = slog.LevelWarn
	} else if resp.StatusCode >= 500 {
		atomic.AddInt64(&t.metrics.FailedRequests, 1)
		level = slog.LevelError
	}

	t.logger.Log(ctx, level, "API request completed",
		log.NewFields().
			WithRequestID(requestID).
			WithHTTPRequest(req.Method, req.URL.String()).
			WithHTTPResponse(resp.StatusCode, duration.Milliseconds()).
			ToSlice()...)

	return resp, nil
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return "req_" + uuid.NewString()
}

// WithRequestID returns a context carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns current metrics
func (t *Transport) GetMetrics() Metrics {
	return Metrics{
		TotalRequests:  atomic.LoadInt64(&t.metrics.TotalRequests),
		FailedRequests: atomic.LoadInt64(&t.metrics.FailedRequests),
		LastDurationMs: atomic.LoadInt64(&t.metrics.LastDurationMs),
	}
}
