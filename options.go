package census

import (
	"net/http"
	"time"
)

// WithHTTPClient sets a custom HTTP client. The transport is shared by every
// dataset client and may be pooled across concurrent callers.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API host, mainly for testing against a local
// server.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the total attempt budget for the transient-error retry,
// including the first try.
func WithRetries(attempts int) Option {
	return func(c *config) {
		if attempts > 0 {
			c.retry.Attempts = attempts
		}
	}
}

// WithRetryPolicy replaces the retry policy entirely.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *config) {
		c.retry = policy
	}
}

// WithDefaultYear overrides every dataset's default year.
func WithDefaultYear(year int) Option {
	return func(c *config) {
		c.defaultYear = year
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a plain console logger.
func WithSimpleLogger() Option {
	return func(c *config) {
		c.logger = NewSimpleLogger()
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *config) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *config) {
		c.metrics = collector
	}
}

// WithRateLimiter bounds the request rate with a token bucket shared by
// every dataset client.
func WithRateLimiter(maxTokens int, refillRate time.Duration) Option {
	return func(c *config) {
		c.limiter = NewRateLimiter(maxTokens, refillRate)
	}
}

// WithUserAgent overrides the User-Agent header sent on every request.
func WithUserAgent(userAgent string) Option {
	return func(c *config) {
		c.userAgent = userAgent
	}
}

// WithTypeCacheCapacity sets the per-client capacity of the field type LRU
// cache.
func WithTypeCacheCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.typeCacheSize = n
		}
	}
}

// WithChunkConcurrency caps how many chunked sub-requests run in parallel
// within one fetch.
func WithChunkConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}
