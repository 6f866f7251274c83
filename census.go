package census

import (
	"net/http"
	"time"
)

// config collects client-wide settings applied through functional options.
type config struct {
	httpClient    *http.Client
	baseURL       string
	retry         RetryPolicy
	logger        Logger
	metrics       *MetricsCollector
	limiter       *RateLimiter
	userAgent     string
	defaultYear   int
	typeCacheSize int
	concurrency   int
}

func defaultConfig() config {
	return config{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:       DefaultBaseURL,
		retry:         DefaultRetryPolicy(),
		userAgent:     defaultUserAgent,
		typeCacheSize: 1024,
		concurrency:   4,
	}
}

// Census bundles one client per dataset variant, all sharing the same
// transport, retry policy, logger and metrics. It is safe for concurrent
// use.
type Census struct {
	// ACS5 is the American Community Survey 5-year estimates.
	ACS5 *ACS5Client
	// ACS5Dp is the ACS 5-year data profiles.
	ACS5Dp *ACS5Client
	// ACS5St is the ACS 5-year subject tables.
	ACS5St *ACS5Client
	// ACS1 is the American Community Survey 1-year estimates.
	ACS1 *ACS1Client
	// ACS1Dp is the ACS 1-year data profiles.
	ACS1Dp *ACS1Client
	// ACS1St is the ACS 1-year subject tables.
	ACS1St *ACS5Client
	// ACS3 is the discontinued ACS 3-year estimates.
	ACS3 *ACS3Client
	// ACS3Dp is the ACS 3-year data profiles.
	ACS3Dp *ACS3Client
	// SF1 is the 2010 decennial Summary File 1.
	SF1 *SF1Client
	// PL is the decennial redistricting data (PL 94-171).
	PL *PLClient

	byPath map[string]*Client
}

// New constructs a Census with every dataset client over one shared
// configuration.
func New(key string, opts ...Option) *Census {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Census{
		ACS5:   &ACS5Client{newClient(key, DatasetACS5, cfg)},
		ACS5Dp: &ACS5Client{newClient(key, DatasetACS5Profile, cfg)},
		ACS5St: &ACS5Client{newClient(key, DatasetACS5Subject, cfg)},
		ACS1:   &ACS1Client{newClient(key, DatasetACS1, cfg)},
		ACS1Dp: &ACS1Client{newClient(key, DatasetACS1Profile, cfg)},
		ACS1St: &ACS5Client{newClient(key, DatasetACS1Subject, cfg)},
		ACS3:   &ACS3Client{newClient(key, DatasetACS3, cfg)},
		ACS3Dp: &ACS3Client{newClient(key, DatasetACS3Profile, cfg)},
		SF1:    &SF1Client{newClient(key, DatasetSF1, cfg)},
		PL:     &PLClient{newClient(key, DatasetPL, cfg)},
	}

	c.byPath = map[string]*Client{
		DatasetACS5.Path:        c.ACS5.Client,
		DatasetACS5Profile.Path: c.ACS5Dp.Client,
		DatasetACS5Subject.Path: c.ACS5St.Client,
		DatasetACS1.Path:        c.ACS1.Client,
		DatasetACS1Profile.Path: c.ACS1Dp.Client,
		DatasetACS1Subject.Path: c.ACS1St.Client,
		DatasetACS3.Path:        c.ACS3.Client,
		DatasetACS3Profile.Path: c.ACS3Dp.Client,
		DatasetSF1.Path:         c.SF1.Client,
		DatasetPL.Path:          c.PL.Client,
	}
	return c
}

// Client returns the core client for a dataset path, e.g. "acs5" or
// "acs1/profile".
func (c *Census) Client(path string) (*Client, bool) {
	client, ok := c.byPath[path]
	return client, ok
}

// Datasets lists the dataset paths this Census can query.
func (c *Census) Datasets() []string {
	paths := make([]string, 0, len(c.byPath))
	for path := range c.byPath {
		paths = append(paths, path)
	}
	return paths
}
