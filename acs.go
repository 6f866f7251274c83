package census

import "context"

// ACS5Client queries the American Community Survey 5-year estimates and the
// datasets sharing its geography hierarchy (profile, subject and the ACS
// 1-year subject tables).
type ACS5Client struct {
	*Client
}

// StateCountySubdivision fetches fields for a county subdivision.
func (c *ACS5Client) StateCountySubdivision(ctx context.Context, fields []string, stateFIPS, countyFIPS, subdivFIPS string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"county subdivision", subdivFIPS},
		GeoPair{"state", stateFIPS},
		GeoPair{"county", countyFIPS},
	), opts...)
}

// StateCountyTract fetches fields for a census tract.
func (c *ACS5Client) StateCountyTract(ctx context.Context, fields []string, stateFIPS, countyFIPS, tract string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"tract", tract},
		GeoPair{"state", stateFIPS},
		GeoPair{"county", countyFIPS},
	), opts...)
}

// StateCountyBlockgroup fetches fields for a block group. Pass a tract id to
// narrow the containment, or "" to select across the whole county.
func (c *ACS5Client) StateCountyBlockgroup(ctx context.Context, fields []string, stateFIPS, countyFIPS, blockgroup, tract string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, blockgroupGeography(stateFIPS, countyFIPS, blockgroup, tract), opts...)
}

// StateZipcode fetches fields for a ZIP Code Tabulation Area. The API moved
// ZCTA containment across vintages: before 2020 ZCTAs nest under states via
// "in", for 2020-2021 via "regionin", and from 2022 they are queried
// nationally with no containment (stateFIPS is ignored).
func (c *ACS5Client) StateZipcode(ctx context.Context, fields []string, stateFIPS, zcta string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, acs5ZCTAYears); err != nil {
		return nil, err
	}
	year := c.year(applyCallOptions(opts).year)

	forPair := GeoPair{"zip code tabulation area", zcta}
	var geo Geography
	switch {
	case year >= 2022:
		geo = NewGeography(forPair)
	case year < 2020:
		geo = NewGeography(forPair, GeoPair{"state", stateFIPS})
	default:
		geo = NewRegionGeography(forPair, GeoPair{"state", stateFIPS})
	}
	return c.Get(ctx, fields, geo, opts...)
}

// Zipcode fetches fields for a ZIP Code Tabulation Area.
//
// Deprecated: use StateZipcode.
func (c *ACS5Client) Zipcode(ctx context.Context, fields []string, stateFIPS, zcta string, opts ...CallOption) ([]Row, error) {
	return c.StateZipcode(ctx, fields, stateFIPS, zcta, opts...)
}

// StateElementarySchool fetches fields for an elementary school district.
// Pass an empty stateFIPS to query the district nationally.
func (c *ACS5Client) StateElementarySchool(ctx context.Context, fields []string, stateFIPS, districtFIPS string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, schoolDistrictYears); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, schoolGeography("school district (elementary)", stateFIPS, districtFIPS), opts...)
}

// StateSecondarySchool fetches fields for a secondary school district.
// Pass an empty stateFIPS to query the district nationally.
func (c *ACS5Client) StateSecondarySchool(ctx context.Context, fields []string, stateFIPS, districtFIPS string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, schoolDistrictYears); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, schoolGeography("school district (secondary)", stateFIPS, districtFIPS), opts...)
}

// StateUnifiedSchool fetches fields for a unified school district.
// Pass an empty stateFIPS to query the district nationally.
func (c *ACS5Client) StateUnifiedSchool(ctx context.Context, fields []string, stateFIPS, districtFIPS string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, schoolDistrictYears); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, schoolGeography("school district (unified)", stateFIPS, districtFIPS), opts...)
}

// ACS1Client queries the American Community Survey 1-year estimates.
type ACS1Client struct {
	*Client
}

// StateCountySubdivision fetches fields for a county subdivision.
func (c *ACS1Client) StateCountySubdivision(ctx context.Context, fields []string, stateFIPS, countyFIPS, subdivFIPS string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"county subdivision", subdivFIPS},
		GeoPair{"state", stateFIPS},
		GeoPair{"county", countyFIPS},
	), opts...)
}

// ACS3Client queries the discontinued American Community Survey 3-year
// estimates (2012-2013 vintages only).
type ACS3Client struct {
	*Client
}

// StateCountySubdivision fetches fields for a county subdivision.
func (c *ACS3Client) StateCountySubdivision(ctx context.Context, fields []string, stateFIPS, countyFIPS, subdivFIPS string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"county subdivision", subdivFIPS},
		GeoPair{"state", stateFIPS},
		GeoPair{"county", countyFIPS},
	), opts...)
}

// blockgroupGeography nests a block group under state and county, appending
// the tract to the containment when one was supplied.
func blockgroupGeography(stateFIPS, countyFIPS, blockgroup, tract string) Geography {
	in := []GeoPair{
		{"state", stateFIPS},
		{"county", countyFIPS},
	}
	if tract != "" {
		in = append(in, GeoPair{"tract", tract})
	}
	return NewGeography(GeoPair{"block group", blockgroup}, in...)
}

// schoolGeography builds a school district selector, omitting state
// containment for nationwide queries.
func schoolGeography(level, stateFIPS, districtFIPS string) Geography {
	if stateFIPS == "" {
		return NewGeography(GeoPair{level, districtFIPS})
	}
	return NewGeography(GeoPair{level, districtFIPS}, GeoPair{"state", stateFIPS})
}
