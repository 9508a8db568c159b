package http

import (
	"context"
	"net/http"
	"time"

	"github.com/carmarket/listing-service/internal/platform/logger"
	"github.com/carmarket/listing-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires every route of the listing service API. Browsing and
// reading listings is public; everything that acts on behalf of a user
// requires a valid token, and moderation additionally requires the admin
// role.
func NewRouter(h *Handler, jwtSecret string, m *metrics.Manager, log *logger.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(Tracing("listing-service"))
	r.Use(RequestLogger(log))
	r.Use(Metrics(m))

	r.Get("/health", h.HandleHealth)

	r.Get("/api/listings", h.HandleBrowse)
	r.Get("/api/listings/{id}", h.HandleGetListing)

	r.Group(func(r chi.Router) {
		r.Use(JWTAuth(jwtSecret, log))

		r.Post("/api/listings", h.HandleCreateListing)
		r.Put("/api/listings/{id}", h.HandleUpdateListing)
		r.Delete("/api/listings/{id}", h.HandleDeleteListing)
		r.Post("/api/listings/{id}/sold", h.HandleMarkSold)
		r.Post("/api/listings/{id}/photos", h.HandleUploadPhoto)

		r.Post("/api/listings/{id}/favorite", h.HandleToggleFavorite)
		r.Get("/api/favorites", h.HandleGetFavorites)

		r.Post("/api/listings/{id}/compare", h.HandleAddCompare)
		r.Delete("/api/listings/{id}/compare", h.HandleRemoveCompare)
		r.Get("/api/compare", h.HandleGetCompare)

		r.Post("/api/listings/{id}/enquiries", h.HandleCreateEnquiry)
		r.Get("/api/enquiries", h.HandleGetEnquiries)

		r.Get("/api/dashboard/listings", h.HandleGetMyListings)
		r.Get("/api/dashboard/stats", h.HandleGetStats)

		r.Group(func(r chi.Router) {
			r.Use(AdminOnly(log))
			r.Post("/api/admin/listings/{id}/approve", h.HandleApproveListing)
			r.Post("/api/admin/listings/{id}/reject", h.HandleRejectListing)
		})
	})

	return r
}

// Server wraps the HTTP server with graceful shutdown.
type Server struct {
	srv    *http.Server
	logger *logger.Logger
}

func NewServer(port string, router *chi.Mux, log *logger.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log.Named("HTTPServer"),
	}
}

// Run blocks serving requests until the server is shut down.
func (s *Server) Run() error {
	s.logger.Info("HTTP server starting", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server, letting in-flight requests finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.srv.Shutdown(ctx)
}
