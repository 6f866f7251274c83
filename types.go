package census

// Row is one result row: a mapping from field name (including the geography
// echo fields the API appends, such as "state" or "county") to a typed value.
// Values are string, float64 or nil depending on the field's predicate type.
type Row map[string]any

// Table describes one data table (group) available from a dataset, as
// reported by the groups.json metadata endpoint.
type Table struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Variables   string `json:"variables"`
}

// Variable describes one queryable field, as reported by the variables.json
// metadata endpoint.
type Variable struct {
	Label         string `json:"label"`
	Concept       string `json:"concept"`
	PredicateType string `json:"predicateType"`
	Group         string `json:"group"`
}

// Option is a configuration option applied at client construction.
type Option func(*config)

// CallOption adjusts a single API call.
type CallOption func(*callOptions)

type callOptions struct {
	year int
}

// WithYear selects a non-default year for one call. Zero means the dataset's
// default year.
func WithYear(year int) CallOption {
	return func(o *callOptions) {
		o.year = year
	}
}

func applyCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
