package census

// RetryPolicy bounds the retry loop for one query. The API's transient
// internal error is retried immediately without backoff, matching the
// upstream service's documented guidance; everything else propagates on the
// first failure.
type RetryPolicy struct {
	// Attempts is the total attempt budget, including the first try.
	Attempts int
	// Retryable reports whether an error is worth another attempt.
	Retryable func(error) bool
}

// DefaultRetryPolicy retries the recognized transient server error up to
// three total attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  3,
		Retryable: IsTransient,
	}
}

// ShouldRetry reports whether a failed attempt (1-based) should be retried.
func (p RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= p.Attempts {
		return false
	}
	if p.Retryable == nil {
		return false
	}
	return p.Retryable(err)
}
