package census

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// chunkSize is the per-request cap on visible fields. The API accepts 50
	// variables per query; one slot is reserved for the GEO_ID identity field
	// appended when chunking needs a stable sort key.
	chunkSize = 49

	// geoIDField is the geography identity field used to align chunked
	// responses. It is not reliably present in pre-2010 vintages.
	geoIDField = "GEO_ID"
)

// All selects every geography at the requested level.
const All = "*"

// Client is the request pipeline for one dataset variant. It is immutable
// after construction and safe for concurrent use; the only internal state,
// the field type cache, is synchronized. Construct via New or NewClient.
type Client struct {
	key         string
	dataset     Dataset
	httpClient  *http.Client
	baseURL     string
	retry       RetryPolicy
	logger      Logger
	metrics     *MetricsCollector
	limiter     *RateLimiter
	userAgent   string
	defaultYear int
	concurrency int
	types       *fieldTypeResolver
}

// NewClient constructs a standalone client for one dataset. Most callers
// want New, which builds a client per dataset variant over one shared
// configuration.
func NewClient(key string, dataset Dataset, opts ...Option) *Client {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newClient(key, dataset, cfg)
}

func newClient(key string, dataset Dataset, cfg config) *Client {
	c := &Client{
		key:         key,
		dataset:     dataset,
		httpClient:  cfg.httpClient,
		baseURL:     strings.TrimSuffix(cfg.baseURL, "/"),
		retry:       cfg.retry,
		logger:      cfg.logger,
		metrics:     cfg.metrics,
		limiter:     cfg.limiter,
		userAgent:   cfg.userAgent,
		defaultYear: cfg.defaultYear,
		concurrency: cfg.concurrency,
	}
	c.types = newFieldTypeResolver(c.httpClient, c.userAgent, cfg.typeCacheSize, func(year int, field string) string {
		return variableURL(c.baseURL, c.dataset, year, field)
	})
	c.types.metrics = cfg.metrics
	c.types.dataset = dataset.Path
	return c
}

// Dataset returns the descriptor this client queries.
func (c *Client) Dataset() Dataset {
	return c.dataset
}

// ClearTypeCache discards memoized field type lookups. Long-lived processes
// crossing a vintage release can call this instead of rebuilding the client.
func (c *Client) ClearTypeCache() {
	c.types.Clear()
}

// year resolves the effective year for a call: per-call option, then the
// client-wide override, then the dataset default.
func (c *Client) year(callYear int) int {
	if callYear != 0 {
		return callYear
	}
	if c.defaultYear != 0 {
		return c.defaultYear
	}
	return c.dataset.DefaultYear
}

// checkYearOpt validates the resolved year for a geography method against
// allowed, or the dataset's full supported set when allowed is nil.
func (c *Client) checkYearOpt(opts []CallOption, allowed []int) error {
	return c.dataset.checkYear(c.year(applyCallOptions(opts).year), allowed)
}

// Get fetches fields for the selected geography, splitting field lists
// larger than the per-request cap into chunks and merging the results back
// into one row set. For post-2009 vintages the GEO_ID identity field is
// appended to each chunk, rows are sorted by it so positional merging is
// stable, and it is stripped again unless the caller asked for it. Chunks
// run concurrently; each carries its own retry and typing.
func (c *Client) Get(ctx context.Context, fields []string, geo Geography, opts ...CallOption) ([]Row, error) {
	year := c.year(applyCallOptions(opts).year)

	if len(fields) <= chunkSize {
		return c.runQuery(ctx, fields, geo, year, false)
	}

	// GEO_ID is not reliably present before 2010, so older vintages fall
	// back to the server's implicit row order.
	sortByGeoID := year > 2009

	chunks := chunkFields(fields, chunkSize)
	if c.metrics != nil {
		c.metrics.RecordChunkedFetch(c.dataset.Path)
	}
	if c.logger != nil {
		c.logger.Debug("chunking fetch", "dataset", c.dataset.Path, "fields", len(fields), "chunks", len(chunks), "year", year)
	}

	results := make([][]Row, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			rows, err := c.runQuery(gctx, chunk, geo, year, sortByGeoID)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeChunks(results)
}

// mergeChunks zips per-chunk row sets positionally. Every chunk queries the
// same geography set, so differing row counts mean the responses cannot be
// aligned and the fetch fails rather than merging silently misordered rows.
func mergeChunks(results [][]Row) ([]Row, error) {
	n := len(results[0])
	for i, rows := range results[1:] {
		if len(rows) != n {
			return nil, fmt.Errorf("%w: chunk 0 has %d rows, chunk %d has %d", ErrChunkMismatch, n, i+1, len(rows))
		}
	}

	merged := make([]Row, n)
	for i := range merged {
		row := make(Row)
		for _, rows := range results {
			for k, v := range rows[i] {
				row[k] = v
			}
		}
		merged[i] = row
	}
	return merged, nil
}

// Query issues exactly one underlying request for up to the per-request
// field cap, with transient-error retry. Most callers want Get, which also
// handles chunking.
func (c *Client) Query(ctx context.Context, fields []string, geo Geography, opts ...CallOption) ([]Row, error) {
	return c.runQuery(ctx, fields, geo, c.year(applyCallOptions(opts).year), false)
}

// runQuery wraps one query in the retry policy. The recognized transient
// error is retried immediately with no backoff; anything else returns.
func (c *Client) runQuery(ctx context.Context, fields []string, geo Geography, year int, sortByGeoID bool) ([]Row, error) {
	for attempt := 1; ; attempt++ {
		rows, err := c.query(ctx, fields, geo, year, sortByGeoID)
		if !c.retry.ShouldRetry(err, attempt) {
			return rows, err
		}
		if c.metrics != nil {
			c.metrics.RecordRetry(c.dataset.Path)
		}
		if c.logger != nil {
			c.logger.Warn("retrying transient error", "dataset", c.dataset.Path, "attempt", attempt, "maxAttempts", c.retry.Attempts)
		}
	}
}

func (c *Client) query(ctx context.Context, fields []string, geo Geography, year int, sortByGeoID bool) ([]Row, error) {
	get := fields
	stripGeoID := false
	if sortByGeoID && !slices.Contains(fields, geoIDField) {
		get = append(slices.Clone(fields), geoIDField)
		stripGeoID = true
	}

	params := url.Values{}
	params.Set("get", strings.Join(get, ","))
	params.Set("for", geo.ForClause())
	if key, value := geo.InClause(); key != "" {
		params.Set(key, value)
	}
	params.Set("key", c.key)

	endpoint := endpointsFor(c.baseURL, c.dataset, year).data

	var requestID string
	if c.logger != nil {
		requestID = uuid.NewString()
		c.logger.Debug("query", "requestID", requestID, "url", endpoint, "for", geo.ForClause(), "fields", len(get), "year", year)
	}

	status, body, err := c.do(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		// Decoded below.
	case http.StatusNoContent:
		return []Row{}, nil
	default:
		if c.logger != nil {
			c.logger.Error("query failed", "requestID", requestID, "status", status)
		}
		return nil, &QueryError{StatusCode: status, URL: endpoint, Body: string(body)}
	}

	var data [][]any
	if err := json.Unmarshal(body, &data); err != nil {
		if strings.Contains(string(body), invalidKeyMarker) {
			return nil, newAPIKeyError(string(body))
		}
		return nil, fmt.Errorf("census: decode response: %w", err)
	}
	if len(data) == 0 {
		return []Row{}, nil
	}

	headers := make([]string, len(data[0]))
	for i, h := range data[0] {
		s, ok := h.(string)
		if !ok {
			return nil, fmt.Errorf("census: malformed header row: %v", data[0])
		}
		headers[i] = s
	}

	tags := make([]TypeTag, len(headers))
	for i, h := range headers {
		tags[i] = c.types.Resolve(ctx, h, year)
	}

	rows := make([]Row, 0, len(data)-1)
	for _, record := range data[1:] {
		row := make(Row, len(headers))
		for i, header := range headers {
			if i >= len(record) {
				row[header] = nil
				continue
			}
			switch cell := record[i].(type) {
			case nil:
				row[header] = nil
			case string:
				value, err := tags[i].Coerce(header, cell)
				if err != nil {
					return nil, err
				}
				row[header] = value
			default:
				row[header] = cell
			}
		}
		rows = append(rows, row)
	}

	if sortByGeoID {
		sort.SliceStable(rows, func(i, j int) bool {
			return geoIDOf(rows[i]) < geoIDOf(rows[j])
		})
		if stripGeoID {
			for _, row := range rows {
				delete(row, geoIDField)
			}
		}
	}

	return rows, nil
}

func geoIDOf(row Row) string {
	if s, ok := row[geoIDField].(string); ok {
		return s
	}
	return fmt.Sprint(row[geoIDField])
}

// do performs one GET and returns the status code and raw body. Transport
// errors and rate limiting surface here; status interpretation is the
// caller's concern.
func (c *Client) do(ctx context.Context, rawURL string) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("census: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("census: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("census: read response: %w", err)
	}

	if c.metrics != nil {
		c.metrics.RecordRequest(c.dataset.Path, resp.StatusCode, time.Since(start))
	}
	return resp.StatusCode, body, nil
}

// chunkFields splits fields into successive slices of at most size,
// preserving order.
func chunkFields(fields []string, size int) [][]string {
	chunks := make([][]string, 0, (len(fields)+size-1)/size)
	for start := 0; start < len(fields); start += size {
		end := start + size
		if end > len(fields) {
			end = len(fields)
		}
		chunks = append(chunks, fields[start:end])
	}
	return chunks
}

// Tables lists the data tables (groups) available from this dataset.
func (c *Client) Tables(ctx context.Context, opts ...CallOption) ([]Table, error) {
	year := c.year(applyCallOptions(opts).year)
	endpoint := endpointsFor(c.baseURL, c.dataset, year).groups

	status, body, err := c.do(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &QueryError{StatusCode: status, URL: endpoint, Body: string(body)}
	}

	var payload struct {
		Groups []Table `json:"groups"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("census: decode groups: %w", err)
	}
	return payload.Groups, nil
}

// Fields returns the queryable variables for a year, keyed by field name.
// The for/in pseudo-variables the API lists alongside real fields are
// removed.
func (c *Client) Fields(ctx context.Context, opts ...CallOption) (map[string]Variable, error) {
	year := c.year(applyCallOptions(opts).year)
	if err := c.dataset.checkYear(year, nil); err != nil {
		return nil, err
	}
	endpoint := endpointsFor(c.baseURL, c.dataset, year).variables

	status, body, err := c.do(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &QueryError{StatusCode: status, URL: endpoint, Body: string(body)}
	}

	var payload struct {
		Variables map[string]Variable `json:"variables"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("census: decode variables: %w", err)
	}
	delete(payload.Variables, "for")
	delete(payload.Variables, "in")
	return payload.Variables, nil
}

// FieldsFlat returns the queryable variables as "Concept: Label" strings.
func (c *Client) FieldsFlat(ctx context.Context, opts ...CallOption) (map[string]string, error) {
	variables, err := c.Fields(ctx, opts...)
	if err != nil {
		return nil, err
	}
	flat := make(map[string]string, len(variables))
	for name, v := range variables {
		flat[name] = fmt.Sprintf("%s: %s", v.Concept, v.Label)
	}
	return flat, nil
}

// Geography methods shared by every dataset variant. Level names are
// matched literally by the API.

// US fetches fields for the nation as a whole.
func (c *Client) US(ctx context.Context, fields []string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(GeoPair{"us", "1"}), opts...)
}

// State fetches fields for one state, or all states with All.
func (c *Client) State(ctx context.Context, fields []string, stateFIPS string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(GeoPair{"state", stateFIPS}), opts...)
}

// StateCounty fetches fields for a county within a state.
func (c *Client) StateCounty(ctx context.Context, fields []string, stateFIPS, countyFIPS string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"county", countyFIPS},
		GeoPair{"state", stateFIPS},
	), opts...)
}

// StatePlace fetches fields for a place within a state.
func (c *Client) StatePlace(ctx context.Context, fields []string, stateFIPS, place string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"place", place},
		GeoPair{"state", stateFIPS},
	), opts...)
}

// StateCongressionalDistrict fetches fields for a congressional district
// within a state.
func (c *Client) StateCongressionalDistrict(ctx context.Context, fields []string, stateFIPS, district string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"congressional district", district},
		GeoPair{"state", stateFIPS},
	), opts...)
}

// StateDistrict fetches fields for a congressional district within a state.
//
// Deprecated: use StateCongressionalDistrict.
func (c *Client) StateDistrict(ctx context.Context, fields []string, stateFIPS, district string, opts ...CallOption) ([]Row, error) {
	return c.StateCongressionalDistrict(ctx, fields, stateFIPS, district, opts...)
}

// StateLegislativeDistrictUpper fetches fields for an upper-chamber state
// legislative district. District ids are zero-padded to three digits.
func (c *Client) StateLegislativeDistrictUpper(ctx context.Context, fields []string, stateFIPS, district string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"state legislative district (upper chamber)", zfill(district, 3)},
		GeoPair{"state", stateFIPS},
	), opts...)
}

// StateLegislativeDistrictLower fetches fields for a lower-chamber state
// legislative district. District ids are zero-padded to three digits.
func (c *Client) StateLegislativeDistrictLower(ctx context.Context, fields []string, stateFIPS, district string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"state legislative district (lower chamber)", zfill(district, 3)},
		GeoPair{"state", stateFIPS},
	), opts...)
}
