package census

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyErrorCollapsesLines(t *testing.T) {
	err := newAPIKeyError("<html>\n<title>Invalid Key</title>\n</html>")
	assert.Equal(t, "<html> <title>Invalid Key</title> </html>", err.Body)
	assert.Contains(t, err.Error(), "invalid API key")
}

func TestQueryErrorMessage(t *testing.T) {
	err := &QueryError{StatusCode: 400, Body: "unknown variable"}
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "unknown variable")
}

func TestQueryErrorIs(t *testing.T) {
	err := fmt.Errorf("fetch: %w", &QueryError{StatusCode: 400, Body: "x"})
	assert.True(t, errors.Is(err, &QueryError{StatusCode: 400}))
	assert.False(t, errors.Is(err, &QueryError{StatusCode: 500}))
}

func TestUnsupportedYearErrorMessage(t *testing.T) {
	err := &UnsupportedYearError{Year: 2008, Supported: []int{2010, 2009}}
	assert.Contains(t, err.Error(), "2008")
	assert.Contains(t, err.Error(), "[2010 2009]")
}

func TestIsTransient(t *testing.T) {
	require.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("boom")))
	assert.False(t, IsTransient(&QueryError{StatusCode: 500, Body: "unrelated failure"}))
	assert.True(t, IsTransient(&QueryError{StatusCode: 500, Body: transientErrorMessage}))

	// Wrapped transient errors still match.
	wrapped := fmt.Errorf("query: %w", &QueryError{Body: "prefix " + transientErrorMessage + " suffix"})
	assert.True(t, IsTransient(wrapped))

	// The marker must match exactly, double spaces included.
	almost := "There was an error while running your query. We've logged the error"
	assert.False(t, IsTransient(&QueryError{StatusCode: 500, Body: almost}))
}
