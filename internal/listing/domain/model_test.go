package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZFECompatibleFrom(t *testing.T) {
	cases := []struct {
		name string
		norm string
		fuel string
		want bool
	}{
		{"euro 6", "Euro 6", FuelDiesel, true},
		{"euro 6d", "euro 6d", FuelPetrol, true},
		{"euro 6d-temp", "EURO 6D-TEMP", FuelPetrol, true},
		{"euro 5", "Euro 5", FuelDiesel, true},
		{"euro 4", "Euro 4", FuelPetrol, false},
		{"empty norm", "", FuelDiesel, false},
		{"electric without norm", "", FuelElectric, true},
		{"electric with old norm", "Euro 3", FuelElectric, true},
		{"padded norm", "  euro 6  ", FuelPetrol, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ZFECompatibleFrom(tc.norm, tc.fuel))
		})
	}
}

func TestPrimaryPhoto(t *testing.T) {
	l := &Listing{}
	assert.Equal(t, DefaultPhotoURL, l.PrimaryPhoto())

	l.Photos = []string{"https://cdn.example/1.jpg", "https://cdn.example/2.jpg"}
	assert.Equal(t, "https://cdn.example/1.jpg", l.PrimaryPhoto())
}

func TestListingStatusIsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusApproved.IsValid())
	assert.True(t, StatusRejected.IsValid())
	assert.True(t, StatusSold.IsValid())
	assert.False(t, ListingStatus("archived").IsValid())
}

func TestNewEnquiryValidation(t *testing.T) {
	_, err := NewEnquiry("", "s1", "b1", "hello")
	assert.Error(t, err)

	_, err = NewEnquiry("l1", "s1", "b1", "")
	assert.Error(t, err)

	e, err := NewEnquiry("l1", "s1", "b1", "Bonjour, est-elle toujours disponible ?")
	assert.NoError(t, err)
	assert.Equal(t, "s1", e.SellerID)
	assert.False(t, e.CreatedAt.IsZero())
}
