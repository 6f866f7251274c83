package census

import "context"

// SF1Client queries the 2010 decennial census Summary File 1. Several of its
// geography levels carry the "(or part)" suffix the decennial API uses for
// geographies split across containing areas.
type SF1Client struct {
	*Client
}

// StateCountySubdivision fetches fields for a county subdivision.
func (c *SF1Client) StateCountySubdivision(ctx context.Context, fields []string, stateFIPS, countyFIPS, subdivFIPS string, opts ...CallOption) ([]Row, error) {
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
func (c *SF1Client) StateCountyTract(ctx context.Context, fields []string, stateFIPS, countyFIPS, tract string, opts ...CallOption) ([]Row, error) {
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
func (c *SF1Client) StateCountyBlockgroup(ctx context.Context, fields []string, stateFIPS, countyFIPS, blockgroup, tract string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, blockgroupGeography(stateFIPS, countyFIPS, blockgroup, tract), opts...)
}

// StateMSA fetches fields for the part of a metropolitan or micropolitan
// statistical area within a state.
func (c *SF1Client) StateMSA(ctx context.Context, fields []string, stateFIPS, msa string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, sf1PartYears); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"metropolitan statistical area/micropolitan statistical area (or part)", msa},
		GeoPair{"state", stateFIPS},
	), opts...)
}

// StateCSA fetches fields for the part of a combined statistical area within
// a state.
func (c *SF1Client) StateCSA(ctx context.Context, fields []string, stateFIPS, csa string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, sf1PartYears); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"combined statistical area (or part)", csa},
		GeoPair{"state", stateFIPS},
	), opts...)
}

// StateDistrictPlace fetches fields for a place or remainder within a
// congressional district.
func (c *SF1Client) StateDistrictPlace(ctx context.Context, fields []string, stateFIPS, district, place string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, sf1PartYears); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"place/remainder (or part)", place},
		GeoPair{"state", stateFIPS},
		GeoPair{"congressional district", district},
	), opts...)
}

// StateZipcode fetches fields for the part of a ZIP Code Tabulation Area
// within a state.
func (c *SF1Client) StateZipcode(ctx context.Context, fields []string, stateFIPS, zcta string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, sf1PartYears); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"zip code tabulation area (or part)", zcta},
		GeoPair{"state", stateFIPS},
	), opts...)
}

// PLClient queries the decennial redistricting data (PL 94-171).
type PLClient struct {
	*Client
}

// StateCountySubdivision fetches fields for a county subdivision.
func (c *PLClient) StateCountySubdivision(ctx context.Context, fields []string, stateFIPS, countyFIPS, subdivFIPS string, opts ...CallOption) ([]Row, error) {
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
func (c *PLClient) StateCountyTract(ctx context.Context, fields []string, stateFIPS, countyFIPS, tract string, opts ...CallOption) ([]Row, error) {
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
func (c *PLClient) StateCountyBlockgroup(ctx context.Context, fields []string, stateFIPS, countyFIPS, blockgroup, tract string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, blockgroupGeography(stateFIPS, countyFIPS, blockgroup, tract), opts...)
}

// StateElementarySchool fetches fields for an elementary school district
// within a state.
func (c *PLClient) StateElementarySchool(ctx context.Context, fields []string, stateFIPS, districtFIPS string, opts ...CallOption) ([]Row, error) {
	if err := c.checkYearOpt(opts, nil); err != nil {
		return nil, err
	}
	return c.Get(ctx, fields, NewGeography(
		GeoPair{"school district (elementary)", districtFIPS},
		GeoPair{"state", stateFIPS},
	), opts...)
}
