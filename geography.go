package census

import (
	"strings"
)

// API query parameter keys for geography containment. Most geographies nest
// with "in"; ZCTA queries for 2020-2021 use "regionin" instead.
const (
	containIn       = "in"
	containRegionIn = "regionin"
)

// GeoPair is one geography level: a level name and an identifier, rendered
// as "<level>:<id>". Level names are matched literally by the upstream API
// and must be preserved exactly, spaces and parentheses included.
type GeoPair struct {
	Level string
	ID    string
}

func (p GeoPair) String() string {
	return p.Level + ":" + p.ID
}

// Geography selects the geographic scope of a query: the target level (For)
// and, optionally, the ordered containing levels (In). The zero containKey
// means "in".
type Geography struct {
	For GeoPair
	In  []GeoPair

	// containKey overrides the containment parameter name; see NewRegionGeography.
	containKey string
}

// NewGeography builds a selector from a target level and optional containing
// levels, outermost first.
func NewGeography(forPair GeoPair, in ...GeoPair) Geography {
	return Geography{For: forPair, In: in}
}

// NewRegionGeography builds a selector whose containment is passed via the
// region-scoped "regionin" parameter instead of "in".
func NewRegionGeography(forPair GeoPair, in ...GeoPair) Geography {
	return Geography{For: forPair, In: in, containKey: containRegionIn}
}

// ForClause renders the "for" query parameter value.
func (g Geography) ForClause() string {
	return g.For.String()
}

// InClause renders the containment parameter: its key ("in" or "regionin")
// and value, with levels joined by single spaces in the order supplied.
// An empty key means the query carries no containment parameter.
func (g Geography) InClause() (key, value string) {
	if len(g.In) == 0 {
		return "", ""
	}
	parts := make([]string, len(g.In))
	for i, p := range g.In {
		parts[i] = p.String()
	}
	key = g.containKey
	if key == "" {
		key = containIn
	}
	return key, strings.Join(parts, " ")
}

// zfill left-pads s with zeros to width, matching the API's fixed-width
// district identifiers.
func zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
