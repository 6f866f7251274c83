package census

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeTagCoerce(t *testing.T) {
	tests := []struct {
		name    string
		tag     TypeTag
		raw     string
		want    any
		wantErr bool
	}{
		{"string passthrough", TypeString, "Alabama", "Alabama", false},
		{"string numeric stays string", TypeString, "1234", "1234", false},
		{"float parses", TypeFloat, "12.5", 12.5, false},
		{"float malformed is hard error", TypeFloat, "N", nil, true},
		{"int parses to float", TypeFloatOrString, "1234", 1234.0, false},
		{"int sentinel falls back", TypeFloatOrString, "N", "N", false},
		{"int negative", TypeFloatOrString, "-666666666", -666666666.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tag.Coerce("X", tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeTagForPredicate(t *testing.T) {
	assert.Equal(t, TypeString, typeTagForPredicate("string"))
	assert.Equal(t, TypeString, typeTagForPredicate("fips-for"))
	assert.Equal(t, TypeString, typeTagForPredicate("fips-in"))
	assert.Equal(t, TypeFloat, typeTagForPredicate("float"))
	assert.Equal(t, TypeFloatOrString, typeTagForPredicate("int"))
	assert.Equal(t, TypeString, typeTagForPredicate("something-new"))
}

func TestResolverCachesLookups(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()
	srv.SetPredicate("B01001_001E", "int")

	c := newTestClient(srv, DatasetACS5)

	tag := c.types.Resolve(context.Background(), "B01001_001E", 2023)
	assert.Equal(t, TypeFloatOrString, tag)
	require.Equal(t, 1, srv.MetaCalls())

	tag = c.types.Resolve(context.Background(), "B01001_001E", 2023)
	assert.Equal(t, TypeFloatOrString, tag)
	assert.Equal(t, 1, srv.MetaCalls(), "second lookup must be served from cache")
}

func TestResolverKeysByFieldAndYear(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()
	srv.SetPredicate("B01001_001E", "int")

	c := newTestClient(srv, DatasetACS5)

	c.types.Resolve(context.Background(), "B01001_001E", 2023)
	c.types.Resolve(context.Background(), "B01001_001E", 2019)
	assert.Equal(t, 2, srv.MetaCalls(), "distinct years are distinct cache entries")
}

func TestResolverFallsBackToStringOnLookupFailure(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()

	c := newTestClient(srv, DatasetACS5)

	// No predicate registered: metadata endpoint returns 404.
	tag := c.types.Resolve(context.Background(), "MYSTERY", 2023)
	assert.Equal(t, TypeString, tag)
	require.Equal(t, 1, srv.MetaCalls())

	// The fallback is cached like a successful resolution.
	c.types.Resolve(context.Background(), "MYSTERY", 2023)
	assert.Equal(t, 1, srv.MetaCalls())
}

func TestResolverCollapsesConcurrentLookups(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()
	srv.SetPredicate("B01001_001E", "int")

	c := newTestClient(srv, DatasetACS5)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tag := c.types.Resolve(context.Background(), "B01001_001E", 2023)
			assert.Equal(t, TypeFloatOrString, tag)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, srv.MetaCalls(), 2, "concurrent lookups for one key collapse")
}

func TestClearTypeCache(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()
	srv.SetPredicate("B01001_001E", "int")

	c := newTestClient(srv, DatasetACS5)

	c.types.Resolve(context.Background(), "B01001_001E", 2023)
	c.ClearTypeCache()
	c.types.Resolve(context.Background(), "B01001_001E", 2023)
	assert.Equal(t, 2, srv.MetaCalls())
}

func TestResolverEvictsBeyondCapacity(t *testing.T) {
	srv := newFakeAPI(t)
	defer srv.Close()

	c := newTestClient(srv, DatasetACS5, WithTypeCacheCapacity(2))

	c.types.Resolve(context.Background(), "A", 2023)
	c.types.Resolve(context.Background(), "B", 2023)
	c.types.Resolve(context.Background(), "C", 2023)
	require.Equal(t, 3, srv.MetaCalls())

	// A was least recently used and should have been evicted.
	c.types.Resolve(context.Background(), "A", 2023)
	assert.Equal(t, 4, srv.MetaCalls())

	// C is still cached.
	c.types.Resolve(context.Background(), "C", 2023)
	assert.Equal(t, 4, srv.MetaCalls())
}
