package census

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.NewRegistry())
}

func TestMetricsRecordRequest(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()

	collector := newTestCollector()
	c := newTestClient(srv, DatasetACS5, WithMetricsCollector(collector))

	_, err := c.Query(context.Background(), []string{"NAME"}, NewGeography(GeoPair{"state", All}))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("acs5", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(collector.requestDuration))
}

func TestMetricsRecordRetry(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()

	attempts := 0
	srv.SetHandler(func(w http.ResponseWriter, r *http.Request) bool {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, transientErrorMessage)
			return true
		}
		return false
	})

	collector := newTestCollector()
	c := newTestClient(srv, DatasetACS5, WithMetricsCollector(collector))

	_, err := c.Query(context.Background(), []string{"NAME"}, NewGeography(GeoPair{"state", All}))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.retriesTotal.WithLabelValues("acs5")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("acs5", "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("acs5", "200")))
}

func TestMetricsRecordChunkedFetch(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()

	collector := newTestCollector()
	c := newTestClient(srv, DatasetACS5, WithMetricsCollector(collector))

	_, err := c.Get(context.Background(), fieldList(10), NewGeography(GeoPair{"state", All}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.chunkedTotal.WithLabelValues("acs5")))

	_, err = c.Get(context.Background(), fieldList(60), NewGeography(GeoPair{"state", All}), WithYear(2009))
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.chunkedTotal.WithLabelValues("acs5")))
}

func TestMetricsTypeCacheCounters(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()
	srv.SetPredicate("B01001_001E", "int")

	collector := newTestCollector()
	c := newTestClient(srv, DatasetACS5, WithMetricsCollector(collector))

	c.types.Resolve(context.Background(), "B01001_001E", 2023)
	c.types.Resolve(context.Background(), "B01001_001E", 2023)
	c.types.Resolve(context.Background(), "B01001_001E", 2023)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.typeCacheMiss.WithLabelValues("acs5")))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.typeCacheHits.WithLabelValues("acs5")))
}
