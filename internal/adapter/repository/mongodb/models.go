package mongodb

import (
	"fmt"
	"time"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listingDocument is the persisted shape of a listing. Derived fields
// (ZFE compatibility, verified history) are intentionally absent: they are
// recomputed by the mapper on every read.
type listingDocument struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	SellerID        string               `bson:"seller_id"`
	Brand           string               `bson:"brand"`
	Model           string               `bson:"model"`
	Year            int                  `bson:"year"`
	Price           float64              `bson:"price"`
	Mileage         int                  `bson:"mileage"`
	FuelType        string               `bson:"fuel_type"`
	Transmission    string               `bson:"transmission"`
	EmissionNorm    string               `bson:"emission_norm,omitempty"`
	Location        string               `bson:"location,omitempty"`
	Description     string               `bson:"description,omitempty"`
	ContactEmail    string               `bson:"contact_email,omitempty"`
	Photos          []string             `bson:"photos,omitempty"`
	Status          domain.ListingStatus `bson:"status"`
	HistoryDocument bool                 `bson:"history_document_verified"`
	CreatedAt       time.Time            `bson:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at"`
}

type enquiryDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID string             `bson:"listing_id"`
	SellerID  string             `bson:"seller_id"`
	BuyerID   string             `bson:"buyer_id"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"created_at"`
}

type viewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID string             `bson:"listing_id"`
	ViewedAt  time.Time          `bson:"viewed_at"`
}

// toListingDocument converts a domain Listing into its persisted shape.
// An empty domain ID leaves the document ID unset so MongoDB generates one
// on insert.
func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("toListingDocument: invalid ID %q: %w", l.ID, err)
		}
	}

	return &listingDocument{
		ID:              docID,
		SellerID:        l.SellerID,
		Brand:           l.Brand,
		Model:           l.Model,
		Year:            l.Year,
		Price:           l.Price,
		Mileage:         l.Mileage,
		FuelType:        l.FuelType,
		Transmission:    l.Transmission,
		EmissionNorm:    l.EmissionNorm,
		Location:        l.Location,
		Description:     l.Description,
		ContactEmail:    l.ContactEmail,
		Photos:          l.Photos,
		Status:          l.Status,
		HistoryDocument: l.HistoryVerified,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}, nil
}

// toDomainListing maps a persisted document to the normalized in-memory
// Listing. It never fails: missing optional fields get documented
// defaults, and the derived fields are recomputed here on every read.
func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}

	location := d.Location
	if location == "" {
		location = domain.DefaultLocation
	}

	return &domain.Listing{
		ID:              d.ID.Hex(),
		SellerID:        d.SellerID,
		Brand:           d.Brand,
		Model:           d.Model,
		Year:            d.Year,
		Price:           d.Price,
		Mileage:         d.Mileage,
		FuelType:        d.FuelType,
		Transmission:    d.Transmission,
		EmissionNorm:    d.EmissionNorm,
		Location:        location,
		Description:     d.Description,
		ContactEmail:    d.ContactEmail,
		Photos:          d.Photos,
		Status:          d.Status,
		ZFECompatible:   domain.ZFECompatibleFrom(d.EmissionNorm, d.FuelType),
		HistoryVerified: d.HistoryDocument,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}

func toEnquiryDocument(e *domain.Enquiry) (*enquiryDocument, error) {
	if e == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if e.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(e.ID)
		if err != nil {
			return nil, fmt.Errorf("toEnquiryDocument: invalid ID %q: %w", e.ID, err)
		}
	}

	return &enquiryDocument{
		ID:        docID,
		ListingID: e.ListingID,
		SellerID:  e.SellerID,
		BuyerID:   e.BuyerID,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}, nil
}

func toDomainEnquiry(d *enquiryDocument) *domain.Enquiry {
	if d == nil {
		return nil
	}
	return &domain.Enquiry{
		ID:        d.ID.Hex(),
		ListingID: d.ListingID,
		SellerID:  d.SellerID,
		BuyerID:   d.BuyerID,
		Message:   d.Message,
		CreatedAt: d.CreatedAt,
	}
}

func toDomainEnquiries(docs []*enquiryDocument) []*domain.Enquiry {
	enquiries := make([]*domain.Enquiry, 0, len(docs))
	for _, doc := range docs {
		enquiries = append(enquiries, toDomainEnquiry(doc))
	}
	return enquiries
}
