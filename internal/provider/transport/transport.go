// Package transport holds the HTTP plumbing shared by the provider SDK
// clients: a response size cap, the opt-in retry policy and the mapping of
// request failures to TransportError.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/Cyclone1070/llmc/internal/provider/models"
	"github.com/cenkalti/backoff/v5"
)

// DefaultMaxResponseBytes caps a response body when the profile sets no limit.
const DefaultMaxResponseBytes = 4 << 20

// ErrResponseTooLarge is returned while reading a body past the cap.
var ErrResponseTooLarge = errors.New("response too large")

// NewHTTPClient returns a copy of base whose response bodies fail with
// ErrResponseTooLarge after limit bytes. Requests carry no timeout of their
// own; they are bounded by the caller's context.
func NewHTTPClient(base *http.Client, limit int64) *http.Client {
	if base == nil {
		base = &http.Client{}
	}
	if limit <= 0 {
		limit = DefaultMaxResponseBytes
	}
	next := base.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc := *base
	hc.Transport = &limitedTransport{next: next, limit: limit}
	return &hc
}

type limitedTransport struct {
	next  http.RoundTripper
	limit int64
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	resp.Body = &limitedBody{rc: resp.Body, remaining: t.limit}
	return resp, nil
}

type limitedBody struct {
	rc        io.ReadCloser
	remaining int64
}

func (b *limitedBody) Read(p []byte) (int, error) {
	if b.remaining < 0 {
		return 0, ErrResponseTooLarge
	}
	if int64(len(p)) > b.remaining+1 {
		p = p[:b.remaining+1]
	}
	n, err := b.rc.Read(p)
	b.remaining -= int64(n)
	if b.remaining < 0 {
		return 0, ErrResponseTooLarge
	}
	return n, err
}

func (b *limitedBody) Close() error {
	return b.rc.Close()
}

// Retrier re-runs a failed provider call when the profile allows it.
type Retrier struct {
	dialect    models.Dialect
	maxRetries int
	newBackOff func() backoff.BackOff
	logger     *slog.Logger
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithBackOff sets the retry schedule.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(r *Retrier) { r.newBackOff = f }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Retrier) { r.logger = l }
}

// NewRetrier creates a Retrier allowing the profile's MaxRetries extra attempts.
func NewRetrier(profile models.Profile, opts ...Option) *Retrier {
	r := &Retrier{
		dialect:    profile.Dialect,
		maxRetries: profile.MaxRetries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retry runs op once when r is nil or allows no retries. Otherwise retryable
// TransportErrors (network errors, 429, 5xx) are retried with exponential
// backoff until the extra attempts are spent or ctx is done. The SDK clients
// are built with their own retries disabled, so this is the only retry loop.
func Retry[T any](ctx context.Context, r *Retrier, op func() (T, error)) (T, error) {
	if r == nil || r.maxRetries <= 0 {
		return op()
	}

	res, err := backoff.Retry(ctx, func() (T, error) {
		res, err := op()
		if err != nil && !models.IsRetryable(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	},
		backoff.WithBackOff(r.newBackOff()),
		backoff.WithMaxTries(uint(r.maxRetries)+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.logger.Info("retrying provider request", "error", err, "backoff", next)
		}),
	)
	if err == nil {
		return res, nil
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	var te *models.TransportError
	if !errors.As(err, &te) {
		err = &models.TransportError{Dialect: r.dialect, Message: "request aborted: " + err.Error(), Err: err}
	}
	return res, err
}

// HTTPError builds the error for a non-2xx reply from its status and body.
func HTTPError(d models.Dialect, status int, body []byte) *models.TransportError {
	return &models.TransportError{
		Dialect:    d,
		StatusCode: status,
		Message:    ErrorMessage(status, body),
		Retryable:  models.RetryableStatus(status),
		Err:        models.ErrHTTPStatus,
	}
}

// RequestError maps a failure that carries no API status: network errors,
// cancellation, an oversized body or an undecodable reply.
func RequestError(ctx context.Context, d models.Dialect, err error) *models.TransportError {
	var te *models.TransportError
	if errors.As(err, &te) {
		return te
	}

	if errors.Is(err, ErrResponseTooLarge) {
		return &models.TransportError{
			Dialect: d,
			Message: err.Error(),
			Err:     fmt.Errorf("%w: %w", models.ErrMalformedResponse, err),
		}
	}

	var urlErr *url.Error
	var netErr net.Error
	if ctx.Err() != nil || errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &models.TransportError{
			Dialect:   d,
			Message:   "request failed: " + err.Error(),
			Retryable: ctx.Err() == nil,
			Err:       fmt.Errorf("%w: %w", models.ErrNetwork, err),
		}
	}
	return models.Malformed(d, err, nil)
}

// ErrorMessage extracts the provider's error text from a non-2xx body.
// Both HTTP dialects use {"error":{"message":...}}; some gateways send a bare
// string instead.
func ErrorMessage(status int, body []byte) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		if len(envelope.Error) > 0 {
			var detail struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(envelope.Error, &detail) == nil && detail.Message != "" {
				return detail.Message
			}
			var s string
			if json.Unmarshal(envelope.Error, &s) == nil && s != "" {
				return s
			}
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return http.StatusText(status)
	}
	return models.Snippet(body)
}
