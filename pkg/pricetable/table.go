// Package pricetable holds the per-zone unit price lookup table used as the
// base of every valuation, and the functions to load it from disk.
package pricetable

import "sort"

// Table maps district name to zone name to unit price (currency units per
// square metre). A Table is never mutated after construction.
type Table map[string]map[string]float64

// New returns a Table holding a deep copy of prices, so later changes to the
// caller's maps cannot leak into valuations.
func New(prices map[string]map[string]float64) Table {
	table := make(Table, len(prices))
	for district, zones := range prices {
		copied := make(map[string]float64, len(zones))
		for zone, price := range zones {
			copied[zone] = price
		}
		table[district] = copied
	}
	return table
}

// UnitPrice returns the stored price for a district and zone. The boolean is
// false when either the district or the zone is missing. A present but zero
// price is returned as-is; deciding whether it is usable is up to the caller.
func (t Table) UnitPrice(district, zone string) (float64, bool) {
	zones, ok := t[district]
	if !ok {
		return 0, false
	}
	price, ok := zones[zone]
	return price, ok
}

// Districts returns all district names in sorted order.
func (t Table) Districts() []string {
	names := make([]string, 0, len(t))
	for district := range t {
		names = append(names, district)
	}
	sort.Strings(names)
	return names
}

// Zones returns the sorted zone names of a district, or false if the district
// is unknown.
func (t Table) Zones(district string) ([]string, bool) {
	zones, ok := t[district]
	if !ok {
		return nil, false
	}
	names := make([]string, 0, len(zones))
	for zone := range zones {
		names = append(names, zone)
	}
	sort.Strings(names)
	return names, true
}

// Len returns the total number of priced zones across all districts.
func (t Table) Len() int {
	n := 0
	for _, zones := range t {
		n += len(zones)
	}
	return n
}
