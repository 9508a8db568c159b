package domain

import "strings"

// Bounds of the filterable domain. A range criterion left at these bounds
// constrains nothing.
const (
	PriceMinDefault   = 0.0
	PriceMaxDefault   = 200000.0
	YearMinDefault    = 1950
	YearMaxDefault    = 2035
	MileageMinDefault = 0
	MileageMaxDefault = 500000
)

// Criteria is the full set of active browse constraints chosen by a user.
// The zero value is NOT usable; obtain one through DefaultCriteria.
type Criteria struct {
	Query        string
	Brand        string
	Model        string
	PriceMin     float64
	PriceMax     float64
	FuelTypes    []string // filter identifiers, see FuelLabels
	Transmission string
	EmissionNorm string
	YearMin      int
	YearMax      int
	MileageMin   int
	MileageMax   int
	ZFEOnly      bool
}

// DefaultCriteria returns criteria that match every listing.
func DefaultCriteria() Criteria {
	return Criteria{
		PriceMin:   PriceMinDefault,
		PriceMax:   PriceMaxDefault,
		YearMin:    YearMinDefault,
		YearMax:    YearMaxDefault,
		MileageMin: MileageMinDefault,
		MileageMax: MileageMaxDefault,
	}
}

// Matches reports whether the listing satisfies every active criterion.
// Predicates are independent and ANDed together; a criterion left at its
// default never excludes a listing. Matches never fails: a malformed
// listing field makes only the affected predicate false.
func (c Criteria) Matches(l *Listing) bool {
	if l == nil {
		return false
	}
	if !c.matchesQuery(l) {
		return false
	}
	if c.Brand != "" && !strings.EqualFold(c.Brand, l.Brand) {
		return false
	}
	if c.Model != "" && !strings.EqualFold(c.Model, l.Model) {
		return false
	}
	if !c.priceAtDefault() && (l.Price < c.PriceMin || l.Price > c.PriceMax) {
		return false
	}
	if !c.matchesFuel(l) {
		return false
	}
	if c.Transmission != "" && !strings.EqualFold(c.Transmission, l.Transmission) {
		return false
	}
	if c.EmissionNorm != "" && !strings.EqualFold(c.EmissionNorm, l.EmissionNorm) {
		return false
	}
	if !c.yearAtDefault() && (l.Year < c.YearMin || l.Year > c.YearMax) {
		return false
	}
	if !c.mileageAtDefault() && (l.Mileage < c.MileageMin || l.Mileage > c.MileageMax) {
		return false
	}
	if c.ZFEOnly && !l.ZFECompatible {
		return false
	}
	return true
}

func (c Criteria) matchesQuery(l *Listing) bool {
	q := strings.TrimSpace(strings.ToLower(c.Query))
	if q == "" {
		return true
	}
	brand := strings.ToLower(l.Brand)
	model := strings.ToLower(l.Model)
	return strings.Contains(brand, q) ||
		strings.Contains(model, q) ||
		strings.Contains(brand+" "+model, q)
}

func (c Criteria) matchesFuel(l *Listing) bool {
	if len(c.FuelTypes) == 0 {
		return true
	}
	for _, id := range c.FuelTypes {
		label, ok := FuelLabels[strings.ToLower(strings.TrimSpace(id))]
		if !ok {
			// Unknown identifiers are tolerated as raw labels so that a
			// client sending display labels directly still filters.
			label = id
		}
		if strings.EqualFold(label, l.FuelType) {
			return true
		}
	}
	return false
}

func (c Criteria) priceAtDefault() bool {
	return c.PriceMin == PriceMinDefault && c.PriceMax == PriceMaxDefault
}

func (c Criteria) yearAtDefault() bool {
	return c.YearMin == YearMinDefault && c.YearMax == YearMaxDefault
}

func (c Criteria) mileageAtDefault() bool {
	return c.MileageMin == MileageMinDefault && c.MileageMax == MileageMaxDefault
}

// ActiveCount returns how many of the nine filter controls deviate from
// their defaults. The free-text query lives in the search bar, not in the
// filter panel, so it is not counted. Display only; filtering correctness
// does not depend on it.
func (c Criteria) ActiveCount() int {
	n := 0
	if c.Brand != "" {
		n++
	}
	if c.Model != "" {
		n++
	}
	if !c.priceAtDefault() {
		n++
	}
	if len(c.FuelTypes) > 0 {
		n++
	}
	if c.Transmission != "" {
		n++
	}
	if c.EmissionNorm != "" {
		n++
	}
	if !c.yearAtDefault() {
		n++
	}
	if !c.mileageAtDefault() {
		n++
	}
	if c.ZFEOnly {
		n++
	}
	return n
}
