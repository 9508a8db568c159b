package mongodb

import (
	"testing"
	"time"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToDomainListingDefaults(t *testing.T) {
	doc := &listingDocument{
		ID:       primitive.NewObjectID(),
		SellerID: "seller-1",
		Brand:    "Dacia",
		Model:    "Sandero",
		Year:     2016,
		Price:    7000,
		FuelType: domain.FuelLPG,
		Status:   domain.StatusApproved,
	}

	l := toDomainListing(doc)
	require.NotNil(t, l)
	assert.Equal(t, domain.DefaultLocation, l.Location, "missing location gets the documented default")
	assert.Equal(t, domain.DefaultPhotoURL, l.PrimaryPhoto(), "no photos falls back to the placeholder")
	assert.False(t, l.ZFECompatible, "no emission norm and non-electric fuel derives to false")
	assert.False(t, l.HistoryVerified)
}

func TestToDomainListingDerivedFieldsRecomputed(t *testing.T) {
	doc := &listingDocument{
		ID:              primitive.NewObjectID(),
		Brand:           "Tesla",
		Model:           "Model 3",
		FuelType:        domain.FuelElectric,
		HistoryDocument: true,
		Status:          domain.StatusApproved,
	}

	l := toDomainListing(doc)
	assert.True(t, l.ZFECompatible, "electric derives compatible regardless of norm")
	assert.True(t, l.HistoryVerified)
}

func TestListingDocumentRoundTripKeepsIdentity(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	original := &domain.Listing{
		ID:           primitive.NewObjectID().Hex(),
		SellerID:     "seller-1",
		Brand:        "Peugeot",
		Model:        "308",
		Year:         2019,
		Price:        15500,
		Mileage:      62000,
		FuelType:     domain.FuelPetrol,
		Transmission: "Manuelle",
		EmissionNorm: "Euro 6",
		Location:     "Lyon",
		ContactEmail: "seller@example.com",
		Photos:       []string{"a.jpg"},
		Status:       domain.StatusApproved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc, err := toListingDocument(original)
	require.NoError(t, err)
	back := toDomainListing(doc)

	assert.Equal(t, original.ID, back.ID)
	assert.Equal(t, original.Brand, back.Brand)
	assert.Equal(t, original.ContactEmail, back.ContactEmail)
	assert.True(t, back.ZFECompatible, "derived field comes from the mapper, not the document")
}

func TestToListingDocumentInvalidID(t *testing.T) {
	_, err := toListingDocument(&domain.Listing{ID: "not-a-hex-id"})
	assert.Error(t, err)
}

func TestToDomainListings(t *testing.T) {
	docs := []*listingDocument{
		{ID: primitive.NewObjectID(), Brand: "A", Status: domain.StatusApproved},
		{ID: primitive.NewObjectID(), Brand: "B", Status: domain.StatusApproved},
	}
	listings := toDomainListings(docs)
	require.Len(t, listings, 2)
	assert.Equal(t, "A", listings[0].Brand)
}
