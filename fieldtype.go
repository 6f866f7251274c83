package census

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/Metopio/census/internal/lru"
)

// TypeTag selects how a raw string value from the API is coerced.
type TypeTag int

const (
	// TypeString keeps the raw value as-is.
	TypeString TypeTag = iota
	// TypeFloat parses the value as float64; failure is a hard error since
	// it indicates malformed API data.
	TypeFloat
	// TypeFloatOrString parses as float64 but falls back to the raw string,
	// since the API returns non-numeric sentinel values for int-typed fields.
	TypeFloatOrString
)

// Coerce converts one raw cell value according to the tag.
func (t TypeTag) Coerce(field, raw string) (any, error) {
	switch t {
	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("census: malformed float value %q for field %s", raw, field)
		}
		return f, nil
	case TypeFloatOrString:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f, nil
		}
		return raw, nil
	default:
		return raw, nil
	}
}

// typeTagForPredicate maps the API's declared predicate type to a coercion
// rule. Unknown types, including the geography echo types fips-for and
// fips-in, stay strings.
func typeTagForPredicate(predicateType string) TypeTag {
	switch predicateType {
	case "float":
		return TypeFloat
	case "int":
		return TypeFloatOrString
	default:
		return TypeString
	}
}

// fieldTypeResolver looks up each field's declared predicate type from the
// variables metadata endpoint and memoizes the result per (field, year) in a
// bounded LRU for the lifetime of the owning client. Concurrent lookups for
// the same key are collapsed into one request.
type fieldTypeResolver struct {
	httpClient *http.Client
	userAgent  string
	urlFor     func(year int, field string) string
	cache      *lru.Cache[string, TypeTag]
	group      singleflight.Group
	metrics    *MetricsCollector
	dataset    string
}

func newFieldTypeResolver(httpClient *http.Client, userAgent string, capacity int, urlFor func(int, string) string) *fieldTypeResolver {
	return &fieldTypeResolver{
		httpClient: httpClient,
		userAgent:  userAgent,
		urlFor:     urlFor,
		cache:      lru.New[string, TypeTag](capacity),
	}
}

// Resolve returns the coercion rule for field in year. Metadata failures of
// any kind degrade to TypeString rather than failing the query, and the
// fallback is cached like a successful lookup.
func (r *fieldTypeResolver) Resolve(ctx context.Context, field string, year int) TypeTag {
	key := strconv.Itoa(year) + "/" + field
	if tag, ok := r.cache.Get(key); ok {
		if r.metrics != nil {
			r.metrics.RecordTypeCacheHit(r.dataset)
		}
		return tag
	}
	if r.metrics != nil {
		r.metrics.RecordTypeCacheMiss(r.dataset)
	}

	v, _, _ := r.group.Do(key, func() (any, error) {
		if tag, ok := r.cache.Get(key); ok {
			return tag, nil
		}
		tag := r.lookup(ctx, field, year)
		r.cache.Add(key, tag)
		return tag, nil
	})
	return v.(TypeTag)
}

func (r *fieldTypeResolver) lookup(ctx context.Context, field string, year int) TypeTag {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.urlFor(year, field), nil)
	if err != nil {
		return TypeString
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return TypeString
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return TypeString
	}

	var meta struct {
		PredicateType string `json:"predicateType"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return TypeString
	}
	if meta.PredicateType == "" {
		meta.PredicateType = "string"
	}
	return typeTagForPredicate(meta.PredicateType)
}

// Clear discards all memoized type lookups.
func (r *fieldTypeResolver) Clear() {
	r.cache.Purge()
}
