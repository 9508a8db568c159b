package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carmarket/listing-service/internal/listing/browse"
	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/listing/usecase"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"github.com/carmarket/listing-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxPhotoSize caps multipart photo uploads at 10 MiB.
const maxPhotoSize = 10 << 20

// Handler serves the listing service HTTP API.
type Handler struct {
	listings  *usecase.ListingUsecase
	photos    *usecase.PhotoUsecase
	favorites *usecase.FavoriteUsecase
	compare   *usecase.CompareUsecase
	enquiries *usecase.EnquiryUsecase
	dashboard *usecase.DashboardUsecase
	feed      *browse.Feed
	metrics   *metrics.Manager
	logger    *logger.Logger
}

func NewHandler(
	listings *usecase.ListingUsecase,
	photos *usecase.PhotoUsecase,
	favorites *usecase.FavoriteUsecase,
	compare *usecase.CompareUsecase,
	enquiries *usecase.EnquiryUsecase,
	dashboard *usecase.DashboardUsecase,
	feed *browse.Feed,
	m *metrics.Manager,
	log *logger.Logger,
) *Handler {
	return &Handler{
		listings:  listings,
		photos:    photos,
		favorites: favorites,
		compare:   compare,
		enquiries: enquiries,
		dashboard: dashboard,
		feed:      feed,
		metrics:   m,
		logger:    log.Named("HTTPHandler"),
	}
}

// browseResponse is the paged browse payload. active_filters_count is
// display metadata for the filter badge; has_more drives infinite scroll.
type browseResponse struct {
	Items              []*listingResponse `json:"items"`
	Total              int64              `json:"total"`
	Page               int                `json:"page"`
	HasMore            bool               `json:"has_more"`
	ActiveFiltersCount int                `json:"active_filters_count"`
}

// HandleBrowse serves the filtered, sorted browse feed. The feed
// accumulates fixed-size batches; filters and sorting apply to the
// accumulated collection, never to individual batches.
func (h *Handler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	h.metrics.SearchesTotal.Inc()

	criteria := parseCriteria(r)
	mode := domain.SortMode(r.URL.Query().Get("sort"))
	if !mode.IsValid() {
		mode = domain.SortRecent
	}
	page := intQuery(r, "page", 0)
	if page < 0 {
		page = 0
	}

	if err := h.feed.EnsureLoaded(r.Context(), (page+1)*browse.PageSize); err != nil {
		h.logger.Error("Feed load failed", zap.Int("page", page), zap.Error(err))
		respondError(w, h.logger, err)
		return
	}

	visible := h.feed.Visible(criteria, mode)
	_, total := h.feed.Snapshot()

	respondJSON(w, h.logger, http.StatusOK, browseResponse{
		Items:              toListingResponses(visible),
		Total:              total,
		Page:               h.feed.Page(),
		HasMore:            h.feed.HasMore(),
		ActiveFiltersCount: criteria.ActiveCount(),
	})
}

// parseCriteria builds browse criteria from query parameters. Absent or
// malformed values keep their defaults so a bad parameter can never turn
// into an accidental filter.
func parseCriteria(r *http.Request) domain.Criteria {
	q := r.URL.Query()
	c := domain.DefaultCriteria()

	c.Query = q.Get("q")
	c.Brand = q.Get("brand")
	c.Model = q.Get("model")
	c.Transmission = q.Get("transmission")
	c.EmissionNorm = q.Get("norm")

	if fuels := q.Get("fuel"); fuels != "" {
		for _, f := range strings.Split(fuels, ",") {
			if f = strings.TrimSpace(f); f != "" {
				c.FuelTypes = append(c.FuelTypes, f)
			}
		}
	}

	c.PriceMin = floatQuery(r, "price_min", c.PriceMin)
	c.PriceMax = floatQuery(r, "price_max", c.PriceMax)
	c.YearMin = intQuery(r, "year_min", c.YearMin)
	c.YearMax = intQuery(r, "year_max", c.YearMax)
	c.MileageMin = intQuery(r, "km_min", c.MileageMin)
	c.MileageMax = intQuery(r, "km_max", c.MileageMax)
	c.ZFEOnly = q.Get("zfe") == "true" || q.Get("zfe") == "1"

	return c
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func floatQuery(r *http.Request, name string, fallback float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

type listingRequest struct {
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Price        float64 `json:"price"`
	Mileage      int     `json:"mileage"`
	FuelType     string  `json:"fuel_type"`
	Transmission string  `json:"transmission"`
	EmissionNorm string  `json:"emission_norm"`
	Location     string  `json:"location"`
	Description  string  `json:"description"`
	ContactEmail string  `json:"contact_email"`
}

func (req listingRequest) toInput() usecase.ListingInput {
	return usecase.ListingInput{
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Price:        req.Price,
		Mileage:      req.Mileage,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		EmissionNorm: req.EmissionNorm,
		Location:     req.Location,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
	}
}

func (h *Handler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for CreateListing", zap.Error(err))
		respondError(w, h.logger, domain.ErrInvalidInput)
		return
	}

	listing, err := h.listings.CreateListing(r.Context(), UserID(r.Context()), req.toInput())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, toListingResponse(listing))
}

func (h *Handler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, toListingResponse(listing))
}

func (h *Handler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for UpdateListing", zap.Error(err))
		respondError(w, h.logger, domain.ErrInvalidInput)
		return
	}

	listing, err := h.listings.UpdateListing(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()), req.toInput())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, toListingResponse(listing))
}

func (h *Handler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	if err := h.listings.DeleteListing(r.Context(), chi.URLParam(r, "id"), UserID(r.Context())); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleMarkSold(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.MarkSold(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, toListingResponse(listing))
}

func (h *Handler) HandleApproveListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.ApproveListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, toListingResponse(listing))
}

func (h *Handler) HandleRejectListing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for RejectListing", zap.Error(err))
		respondError(w, h.logger, domain.ErrInvalidInput)
		return
	}

	listing, err := h.listings.RejectListing(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, toListingResponse(listing))
}

func (h *Handler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		h.logger.Warn("Invalid multipart form for UploadPhoto", zap.Error(err))
		respondError(w, h.logger, domain.ErrInvalidInput)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		h.logger.Warn("Missing photo file in upload", zap.Error(err))
		respondError(w, h.logger, domain.ErrInvalidInput)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	url, err := h.photos.UploadPhoto(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()), header.Filename, data)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, map[string]string{"url": url})
}

func (h *Handler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	favorited, err := h.favorites.Toggle(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]bool{"favorited": favorited})
}

func (h *Handler) HandleGetFavorites(w http.ResponseWriter, r *http.Request) {
	listings, err := h.favorites.List(r.Context(), UserID(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"items": toListingResponses(listings),
	})
}

func (h *Handler) HandleAddCompare(w http.ResponseWriter, r *http.Request) {
	added, err := h.compare.Add(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	count, err := h.compare.Count(r.Context(), UserID(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"added": added,
		"count": count,
	})
}

func (h *Handler) HandleRemoveCompare(w http.ResponseWriter, r *http.Request) {
	if err := h.compare.Remove(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetCompare(w http.ResponseWriter, r *http.Request) {
	listings, err := h.compare.List(r.Context(), UserID(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"items":    toListingResponses(listings),
		"capacity": domain.CompareCapacity,
	})
}

func (h *Handler) HandleCreateEnquiry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for CreateEnquiry", zap.Error(err))
		respondError(w, h.logger, domain.ErrInvalidInput)
		return
	}

	enquiry, err := h.enquiries.CreateEnquiry(r.Context(), chi.URLParam(r, "id"), UserID(r.Context()), req.Message)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, toEnquiryResponse(enquiry))
}

func (h *Handler) HandleGetEnquiries(w http.ResponseWriter, r *http.Request) {
	enquiries, err := h.enquiries.ListForSeller(r.Context(), UserID(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	out := make([]*enquiryResponse, 0, len(enquiries))
	for _, e := range enquiries {
		out = append(out, toEnquiryResponse(e))
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"items": out})
}

func (h *Handler) HandleGetMyListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.dashboard.Listings(r.Context(), UserID(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"items": toListingResponses(listings),
	})
}

// HandleGetStats serves the seller dashboard counters. The "days" query
// parameter bounds the view window, defaulting to 30.
func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 30)
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	stats, err := h.dashboard.Stats(r.Context(), UserID(r.Context()), since)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"active":          stats.Active,
		"pending":         stats.Pending,
		"sold":            stats.Sold,
		"views_total":     stats.ViewsTotal,
		"views_by_id":     stats.ViewsByID,
		"favorites_by_id": stats.FavoritesByID,
	})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}
