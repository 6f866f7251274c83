package census

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	transient := &QueryError{StatusCode: 500, Body: transientErrorMessage}

	assert.False(t, p.ShouldRetry(nil, 1), "success never retries")
	assert.True(t, p.ShouldRetry(transient, 1))
	assert.True(t, p.ShouldRetry(transient, 2))
	assert.False(t, p.ShouldRetry(transient, 3), "budget is total attempts")
	assert.False(t, p.ShouldRetry(errors.New("other"), 1))
}

func TestRetryPolicyNilRetryable(t *testing.T) {
	p := RetryPolicy{Attempts: 3}
	assert.False(t, p.ShouldRetry(errors.New("boom"), 1))
}

func TestRetryPolicyCustomRetryable(t *testing.T) {
	p := RetryPolicy{Attempts: 2, Retryable: func(error) bool { return true }}
	assert.True(t, p.ShouldRetry(errors.New("boom"), 1))
	assert.False(t, p.ShouldRetry(errors.New("boom"), 2))
}
