package census

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPopulatesEveryDataset(t *testing.T) {
	c := New("test-key")

	require.NotNil(t, c.ACS5)
	require.NotNil(t, c.ACS5Dp)
	require.NotNil(t, c.ACS5St)
	require.NotNil(t, c.ACS1)
	require.NotNil(t, c.ACS1Dp)
	require.NotNil(t, c.ACS1St)
	require.NotNil(t, c.ACS3)
	require.NotNil(t, c.ACS3Dp)
	require.NotNil(t, c.SF1)
	require.NotNil(t, c.PL)

	assert.Equal(t, "acs5", c.ACS5.Dataset().Path)
	assert.Equal(t, "acs5/profile", c.ACS5Dp.Dataset().Path)
	assert.Equal(t, "acs1/subject", c.ACS1St.Dataset().Path)
	assert.Equal(t, "sf1", c.SF1.Dataset().Path)
	assert.Equal(t, "pl", c.PL.Dataset().Path)
}

func TestNewSharesTransport(t *testing.T) {
	httpClient := &http.Client{Timeout: 5 * time.Second}
	c := New("test-key", WithHTTPClient(httpClient))

	assert.Same(t, httpClient, c.ACS5.httpClient)
	assert.Same(t, httpClient, c.PL.httpClient)
}

func TestCensusClientLookup(t *testing.T) {
	c := New("test-key")

	client, ok := c.Client("acs1/profile")
	require.True(t, ok)
	assert.Same(t, c.ACS1Dp.Client, client)

	_, ok = c.Client("nope")
	assert.False(t, ok)

	assert.Len(t, c.Datasets(), 10)
}

func TestWithDefaultYearOverridesEveryDataset(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL), WithDefaultYear(2015))

	_, err := c.ACS5.State(context.Background(), []string{"NAME"}, "17")
	require.NoError(t, err)

	calls := srv.DataCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/data/2015/acs/acs5", calls[0].path)

	// The per-call option still wins over the client-wide override.
	_, err = c.ACS5.State(context.Background(), []string{"NAME"}, "17", WithYear(2019))
	require.NoError(t, err)
	assert.Equal(t, "/data/2019/acs/acs5", srv.DataCalls()[1].path)
}

func TestConcurrentCallsWithDifferentYears(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()

	c := newTestClient(srv, DatasetACS5)

	// Endpoint resolution is pure, so racing years on one client must not
	// bleed into each other's URLs.
	done := make(chan error, 2)
	go func() {
		for i := 0; i < 20; i++ {
			if _, err := c.State(context.Background(), []string{"NAME"}, "17", WithYear(2009)); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	go func() {
		for i := 0; i < 20; i++ {
			if _, err := c.State(context.Background(), []string{"NAME"}, "17", WithYear(2019)); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	for _, call := range srv.DataCalls() {
		switch call.path {
		case "/data/2009/acs5", "/data/2019/acs/acs5":
		default:
			t.Fatalf("unexpected request path %q", call.path)
		}
	}
}
