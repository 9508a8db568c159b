package domain

import (
	"strings"
	"time"
)

// ListingStatus represents the moderation status of a listing.
type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
	StatusRejected ListingStatus = "rejected"
	StatusSold     ListingStatus = "sold"
)

// IsValid checks if the ListingStatus is one of the defined constants.
func (s ListingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSold:
		return true
	}
	return false
}

// Display labels for fuel types as they are stored on listings.
const (
	FuelPetrol   = "Essence"
	FuelDiesel   = "Diesel"
	FuelHybrid   = "Hybride"
	FuelElectric = "Électrique"
	FuelLPG      = "GPL"
)

// FuelLabels maps the stable filter identifiers used by clients to the
// display labels stored on listings. Filter identifiers are ASCII-only so
// they survive query strings and storage keys untouched.
var FuelLabels = map[string]string{
	"essence":    FuelPetrol,
	"diesel":     FuelDiesel,
	"hybride":    FuelHybrid,
	"electrique": FuelElectric,
	"gpl":        FuelLPG,
}

// zfeCompatibleNorms is the fixed set of emission norms that grant
// unrestricted access to low-emission zones. Compared case-insensitively.
var zfeCompatibleNorms = map[string]struct{}{
	"euro 6":       {},
	"euro 6d":      {},
	"euro 6d-temp": {},
	"euro 5":       {},
}

// Defaults substituted by the record mapper for missing optional fields.
const (
	DefaultLocation = "Non renseigné"
	DefaultPhotoURL = "https://static.carmarket.example/placeholder-car.jpg"
)

// Listing is a single vehicle offer as seen by the browse pipeline.
type Listing struct {
	ID           string
	SellerID     string
	Brand        string
	Model        string
	Year         int
	Price        float64
	Mileage      int
	FuelType     string
	Transmission string
	EmissionNorm string // may be empty when the seller did not provide one
	Location     string
	Description  string
	ContactEmail string
	Photos       []string
	Status       ListingStatus

	// Derived fields, recomputed by the record mapper on every fetch and
	// never persisted authoritatively.
	ZFECompatible   bool
	HistoryVerified bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PrimaryPhoto returns the first photo of the listing, or the stock
// placeholder when the listing has none.
func (l *Listing) PrimaryPhoto() string {
	if len(l.Photos) == 0 {
		return DefaultPhotoURL
	}
	return l.Photos[0]
}

// ZFECompatibleFrom reports whether a vehicle with the given emission norm
// and fuel type may enter low-emission zones without restriction: the norm
// is in the fixed compatible set, or the vehicle is electric.
func ZFECompatibleFrom(emissionNorm, fuelType string) bool {
	if strings.EqualFold(fuelType, FuelElectric) {
		return true
	}
	if emissionNorm == "" {
		return false
	}
	_, ok := zfeCompatibleNorms[strings.ToLower(strings.TrimSpace(emissionNorm))]
	return ok
}
