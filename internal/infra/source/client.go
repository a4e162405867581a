// Package source provides shared HTTP client plumbing for the upstream
// content source adapters.
package source

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"

	"drama-catalog-service/internal/domain"
)

// ClientConfig holds configuration for a source client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryConfig
	CB      CBConfig
}

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// NewRestyClient creates a Resty HTTP client with bounded retry.
// Transient failures (network errors, 5xx) are retried; 4xx responses are
// the request's own fault and are never retried.
func NewRestyClient(cfg ClientConfig) *resty.Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retry.MaxAttempts).
		SetRetryWaitTime(cfg.Retry.WaitTime).
		SetRetryMaxWaitTime(cfg.Retry.MaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}

			return r.StatusCode() >= 500
		})

	return client
}

// NewCircuitBreaker creates a circuit breaker for a source.
func NewCircuitBreaker[T any](name string, cfg CBConfig) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= cfg.FailureRatio
		},
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}

// rateLimitMarkers are the body substrings upstreams emit when throttling.
// Detection is by body content because both upstreams have been observed
// returning throttle messages under non-429 statuses.
var rateLimitMarkers = []string{"rate limit", "too many requests"}

// ResponseError converts a non-2xx resty response into a typed FetchError,
// flagging rate-limit conditions so callers can show a retry-later message.
func ResponseError(src domain.Source, endpoint string, r *resty.Response) *domain.FetchError {
	fe := &domain.FetchError{
		Source:     src,
		Endpoint:   endpoint,
		StatusCode: r.StatusCode(),
	}

	if r.StatusCode() == 429 {
		fe.RateLimited = true
		return fe
	}

	body := strings.ToLower(string(r.Body()))
	for _, marker := range rateLimitMarkers {
		if strings.Contains(body, marker) {
			fe.RateLimited = true
			break
		}
	}

	return fe
}

// TransportError wraps a network-level failure into a typed FetchError.
func TransportError(src domain.Source, endpoint string, err error) *domain.FetchError {
	return &domain.FetchError{
		Source:   src,
		Endpoint: endpoint,
		Err:      err,
	}
}
