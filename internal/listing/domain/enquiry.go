package domain

import (
	"errors"
	"time"
)

// Enquiry is a buyer-to-seller message about one listing. The realtime
// chat transport is out of scope here; the service persists the enquiry,
// emits an event and forwards it to the seller by e-mail.
type Enquiry struct {
	ID        string
	ListingID string
	SellerID  string
	BuyerID   string
	Message   string
	CreatedAt time.Time
}

// NewEnquiry validates and builds an enquiry.
func NewEnquiry(listingID, sellerID, buyerID, message string) (*Enquiry, error) {
	if listingID == "" || buyerID == "" {
		return nil, errors.New("listingID and buyerID cannot be empty")
	}
	if message == "" {
		return nil, errors.New("message cannot be empty")
	}
	return &Enquiry{
		ListingID: listingID,
		SellerID:  sellerID,
		BuyerID:   buyerID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SellerStats summarises one seller's dashboard numbers.
type SellerStats struct {
	Active        int
	Pending       int
	Sold          int
	ViewsTotal    int64
	ViewsByID     map[string]int64
	FavoritesByID map[string]int64
}
