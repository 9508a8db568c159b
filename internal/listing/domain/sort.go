package domain

import "sort"

// SortMode identifies a total order over listings.
type SortMode string

const (
	SortRecent    SortMode = "recent"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortYearDesc  SortMode = "year-desc"
	SortYearAsc   SortMode = "year-asc"
	SortKmAsc     SortMode = "km-asc"
	SortKmDesc    SortMode = "km-desc"
)

// IsValid checks if the SortMode is one of the defined constants.
func (m SortMode) IsValid() bool {
	switch m {
	case SortRecent, SortPriceAsc, SortPriceDesc, SortYearDesc, SortYearAsc, SortKmAsc, SortKmDesc:
		return true
	}
	return false
}

// Less returns a strict-weak-ordering predicate for the mode. "recent"
// orders by creation timestamp, newest first. An unknown mode falls back
// to "recent".
func (m SortMode) Less(a, b *Listing) bool {
	switch m {
	case SortPriceAsc:
		return a.Price < b.Price
	case SortPriceDesc:
		return a.Price > b.Price
	case SortYearDesc:
		return a.Year > b.Year
	case SortYearAsc:
		return a.Year < b.Year
	case SortKmAsc:
		return a.Mileage < b.Mileage
	case SortKmDesc:
		return a.Mileage > b.Mileage
	default:
		return a.CreatedAt.After(b.CreatedAt)
	}
}

// SortListings orders listings in place by the given mode. The sort is
// stable: listings with equal keys keep their prior relative order.
func SortListings(listings []*Listing, mode SortMode) {
	sort.SliceStable(listings, func(i, j int) bool {
		return mode.Less(listings[i], listings[j])
	})
}
