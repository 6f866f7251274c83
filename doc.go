// Package census provides a typed Go client for the U.S. Census Bureau data
// API family:
//
//   - American Community Survey 1/3/5-year estimates (plus the profile and
//     subject table variants)
//   - Decennial Summary File 1 (SF1)
//   - Decennial redistricting data (PL 94-171)
//
// All dataset clients share one request pipeline: field lists larger than the
// API's per-request cap are split into chunks and merged back into a single
// result set, geography selectors are encoded into the API's for/in parameter
// pair, raw string values are coerced according to each field's declared
// predicate type, and a narrow class of transient server errors is retried.
// Datasets differ only in configuration: URL path, default year, supported
// years and geography hierarchy.
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - Safe concurrent use of a single *Census or *Client instance
//   - Endpoint selection is a pure function of (dataset, year); no state is
//     mutated between calls
//   - Pluggable transport, logging and Prometheus metrics
//
// Typical usage:
//
//	c := census.New(os.Getenv("CENSUS_API_KEY"))
//	rows, err := c.ACS5.StateCountyTract(ctx,
//	    []string{"NAME", "B25034_010E"}, "17", "031", "810100")
//
// Per-call options select a non-default year:
//
//	rows, err := c.ACS5.State(ctx, fields, "06", census.WithYear(2015))
//
// Field type metadata lookups are memoized in a bounded LRU cache per dataset
// client; call ClearTypeCache for long-lived-process hygiene.
package census
