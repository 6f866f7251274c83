package census

import (
	"fmt"
	"net/url"
)

// DefaultBaseURL is the production host for the Census Bureau data API.
const DefaultBaseURL = "https://api.census.gov"

// urlFamily selects how a dataset's path is generated for a given year.
// Several dataset families moved between API generations at fixed year
// boundaries, so the full path is always derived from (family, year) and
// never stored on the client.
type urlFamily int

const (
	// familyLegacy: data/{year}/{path} for every year.
	familyLegacy urlFamily = iota
	// familyACS: data/{year}/acs/{path} from 2010 onward, legacy before.
	familyACS
	// familyACSOnly: data/{year}/acs/{path} for every year.
	familyACSOnly
	// familyDecennial: data/{year}/dec/{path} for every year.
	familyDecennial
)

// Dataset describes one dataset variant: its path segment, URL generation
// family, default year and supported years. Descriptors are immutable
// configuration data.
type Dataset struct {
	// Path is the dataset path segment, e.g. "acs5" or "acs5/profile".
	Path string
	// DefaultYear is used when a call does not specify a year.
	DefaultYear int
	// Years is the set of supported years, most recent first.
	Years []int

	family urlFamily
}

// path returns the year-qualified dataset path, e.g. "acs/acs5" for an ACS
// dataset in 2015. Pure function of the descriptor and year.
func (d Dataset) path(year int) string {
	switch d.family {
	case familyACS:
		if year > 2009 {
			return "acs/" + d.Path
		}
		return d.Path
	case familyACSOnly:
		return "acs/" + d.Path
	case familyDecennial:
		return "dec/" + d.Path
	default:
		return d.Path
	}
}

// endpoints is the immutable URL set for one (dataset, year) pair.
type endpoints struct {
	data      string
	variables string
	groups    string
}

// endpointsFor resolves the endpoint URLs for a dataset and year against a
// base URL. It is a pure function: concurrent calls with different years on
// one client never share state.
func endpointsFor(baseURL string, d Dataset, year int) endpoints {
	root := fmt.Sprintf("%s/data/%d/%s", baseURL, year, d.path(year))
	return endpoints{
		data:      root,
		variables: root + "/variables.json",
		groups:    root + "/groups.json",
	}
}

// variableURL resolves the per-field predicate type metadata endpoint.
func variableURL(baseURL string, d Dataset, year int, field string) string {
	return fmt.Sprintf("%s/data/%d/%s/variables/%s.json",
		baseURL, year, d.path(year), url.PathEscape(field))
}

// resolveYear substitutes the dataset default for an unset year.
func (d Dataset) resolveYear(year int) int {
	if year == 0 {
		return d.DefaultYear
	}
	return year
}

// checkYear validates year against allowed, or against the dataset's full
// supported set when allowed is nil. Call with the resolved year.
func (d Dataset) checkYear(year int, allowed []int) error {
	if allowed == nil {
		allowed = d.Years
	}
	for _, y := range allowed {
		if y == year {
			return nil
		}
	}
	return &UnsupportedYearError{Year: year, Supported: allowed}
}

func yearRange(from, to int) []int {
	years := make([]int, 0, from-to+1)
	for y := from; y >= to; y-- {
		years = append(years, y)
	}
	return years
}

// Supported-year sets that differ from their dataset's full set. These track
// the upstream API's availability per geography, not anything configurable.
var (
	acs5ZCTAYears       = yearRange(2023, 2011)
	schoolDistrictYears = yearRange(2023, 2020)
	sf1PartYears        = []int{2010}
)

// Dataset descriptors for every supported variant.
var (
	DatasetACS5 = Dataset{
		Path:        "acs5",
		DefaultYear: 2023,
		Years:       yearRange(2023, 2009),
		family:      familyACS,
	}

	DatasetACS5Profile = Dataset{
		Path:        "acs5/profile",
		DefaultYear: 2023,
		Years:       yearRange(2023, 2009),
		family:      familyACS,
	}

	DatasetACS5Subject = Dataset{
		Path:        "acs5/subject",
		DefaultYear: 2023,
		Years:       yearRange(2023, 2009),
		family:      familyACSOnly,
	}

	DatasetACS1 = Dataset{
		Path:        "acs1",
		DefaultYear: 2023,
		Years:       []int{2023, 2022, 2021, 2019, 2018, 2017, 2016, 2015, 2014, 2013, 2012, 2011},
		family:      familyACS,
	}

	DatasetACS1Profile = Dataset{
		Path:        "acs1/profile",
		DefaultYear: 2023,
		Years:       []int{2023, 2022, 2021, 2019, 2018, 2017, 2016, 2015, 2014, 2013, 2012},
		family:      familyACS,
	}

	DatasetACS1Subject = Dataset{
		Path:        "acs1/subject",
		DefaultYear: 2023,
		Years:       yearRange(2023, 2012),
		family:      familyACSOnly,
	}

	DatasetACS3 = Dataset{
		Path:        "acs3",
		DefaultYear: 2013,
		Years:       []int{2013, 2012},
		family:      familyACS,
	}

	DatasetACS3Profile = Dataset{
		Path:        "acs3/profile",
		DefaultYear: 2013,
		Years:       []int{2013, 2012},
		family:      familyACS,
	}

	DatasetSF1 = Dataset{
		Path:        "sf1",
		DefaultYear: 2010,
		Years:       []int{2010},
		family:      familyDecennial,
	}

	DatasetPL = Dataset{
		Path:        "pl",
		DefaultYear: 2020,
		Years:       []int{2020, 2010, 2000},
		family:      familyDecennial,
	}
)
