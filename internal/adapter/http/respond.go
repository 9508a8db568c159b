package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"go.uber.org/zap"
)

// listingResponse is the wire shape of a listing. Derived fields travel
// with the record so clients never compute them.
type listingResponse struct {
	ID              string    `json:"id"`
	SellerID        string    `json:"seller_id"`
	Brand           string    `json:"brand"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	Price           float64   `json:"price"`
	Mileage         int       `json:"mileage"`
	FuelType        string    `json:"fuel_type"`
	Transmission    string    `json:"transmission"`
	EmissionNorm    string    `json:"emission_norm,omitempty"`
	Location        string    `json:"location"`
	Description     string    `json:"description,omitempty"`
	Photos          []string  `json:"photos"`
	PrimaryPhoto    string    `json:"primary_photo"`
	Status          string    `json:"status"`
	ZFECompatible   bool      `json:"zfe_compatible"`
	HistoryVerified bool      `json:"history_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toListingResponse(l *domain.Listing) *listingResponse {
	photos := l.Photos
	if photos == nil {
		photos = []string{}
	}
	return &listingResponse{
		ID:              l.ID,
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
		Photos:          photos,
		PrimaryPhoto:    l.PrimaryPhoto(),
		Status:          string(l.Status),
		ZFECompatible:   l.ZFECompatible,
		HistoryVerified: l.HistoryVerified,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func toListingResponses(listings []*domain.Listing) []*listingResponse {
	out := make([]*listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

type enquiryResponse struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	SellerID  string    `json:"seller_id"`
	BuyerID   string    `json:"buyer_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func toEnquiryResponse(e *domain.Enquiry) *enquiryResponse {
	return &enquiryResponse{
		ID:        e.ID,
		ListingID: e.ListingID,
		SellerID:  e.SellerID,
		BuyerID:   e.BuyerID,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, log *logger.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", zap.Error(err))
	}
}

// respondError maps domain errors to HTTP statuses. Unrecognized errors
// are reported as 500 with a generic message so internals do not leak.
func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	var status int
	message := err.Error()

	switch {
	case errors.Is(err, domain.ErrListingNotFound), errors.Is(err, domain.ErrEnquiryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		message = "internal server error"
		log.Error("Unhandled error", zap.Error(err))
	}

	respondJSON(w, log, status, errorResponse{Error: message})
}
