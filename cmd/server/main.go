package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/carmarket/listing-service/internal/adapter/http"
	natsAdapter "github.com/carmarket/listing-service/internal/adapter/messaging/nats"
	"github.com/carmarket/listing-service/internal/adapter/repository/cache"
	mongoRepo "github.com/carmarket/listing-service/internal/adapter/repository/mongodb"
	redisRepo "github.com/carmarket/listing-service/internal/adapter/repository/redis"
	"github.com/carmarket/listing-service/internal/adapter/storage/s3"
	"github.com/carmarket/listing-service/internal/config"
	"github.com/carmarket/listing-service/internal/listing/browse"
	"github.com/carmarket/listing-service/internal/listing/usecase"
	"github.com/carmarket/listing-service/internal/mailer"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"github.com/carmarket/listing-service/internal/platform/metrics"
	"github.com/carmarket/listing-service/internal/platform/tracer"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const serviceName = "listing-service"

const listingCacheTTL = 5 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	var tp *sdktrace.TracerProvider
	if cfg.OTLPEndpoint != "" {
		tp = tracer.InitTracer(serviceName, cfg.OTLPEndpoint, appLogger)
		defer func() {
			ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := tp.Shutdown(ctxShutdown); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
		appLogger.Info("OpenTelemetry Tracer initialized.")
	} else {
		appLogger.Info("OpenTelemetry Tracer not initialized (OTEL_EXPORTER_OTLP_ENDPOINT not set).")
	}

	// MongoDB
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := mongoClient.Ping(ctxPing, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	appLogger.Info("Successfully connected and pinged MongoDB.")
	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to ping Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis.", zap.String("address", cfg.RedisAddress))

	// NATS
	natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer natsPublisher.Close()

	// MinIO
	photoStorage, err := s3.NewStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize photo storage", zap.Error(err))
	}

	metricsManager := metrics.NewManager("listing_service")

	// Repositories and stores
	listingRepo, err := mongoRepo.NewListingRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ListingRepository", zap.Error(err))
	}
	enquiryRepo, err := mongoRepo.NewEnquiryRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize EnquiryRepository", zap.Error(err))
	}
	viewRepo, err := mongoRepo.NewViewRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ViewRepository", zap.Error(err))
	}
	favoriteStore := redisRepo.NewFavoriteStore(redisClient, appLogger)
	compareStore := redisRepo.NewCompareStore(redisClient, appLogger)
	listingCache := cache.NewListingCache(redisClient, listingCacheTTL)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPSender, appLogger)

	// Usecases
	listingUC := usecase.NewListingUsecase(listingRepo, viewRepo, listingCache, natsPublisher, smtpMailer, metricsManager, appLogger)
	photoUC := usecase.NewPhotoUsecase(photoStorage, listingRepo, listingCache, natsPublisher, appLogger)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteStore, listingRepo, appLogger)
	compareUC := usecase.NewCompareUsecase(compareStore, listingRepo, appLogger)
	enquiryUC := usecase.NewEnquiryUsecase(enquiryRepo, listingRepo, natsPublisher, smtpMailer, metricsManager, appLogger)
	dashboardUC := usecase.NewDashboardUsecase(listingRepo, viewRepo, favoriteStore, appLogger)

	// Browse feed over the approved corpus, refetched from scratch on
	// every listing change event.
	feed := browse.NewFeed(browse.SourceFunc(listingRepo.FindApproved), appLogger)
	if err := feed.Refresh(context.Background()); err != nil {
		appLogger.Warn("Initial feed load failed, will retry on demand", zap.Error(err))
	}

	changeSub, err := natsAdapter.NewChangeSubscriber(natsPublisher.Conn(), appLogger, func(subject string) {
		metricsManager.FeedRefreshesTotal.Inc()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := feed.Refresh(ctx); err != nil {
			appLogger.Warn("Feed refresh failed", zap.String("subject", subject), zap.Error(err))
		}
	})
	if err != nil {
		appLogger.Fatal("Failed to subscribe to listing change events", zap.Error(err))
	}
	defer changeSub.Close()

	// HTTP server
	handler := httpAdapter.NewHandler(listingUC, photoUC, favoriteUC, compareUC, enquiryUC, dashboardUC, feed, metricsManager, appLogger)
	router := httpAdapter.NewRouter(handler, cfg.JWTSecret, metricsManager, appLogger)
	server := httpAdapter.NewServer(cfg.HTTPPort, router, appLogger)

	go func() {
		if err := server.Run(); err != nil {
			appLogger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	if cfg.PrometheusMetricsPort != "" {
		go func() {
			if err := metrics.StartServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil {
				appLogger.Error("Prometheus metrics server error", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown error", zap.Error(err))
	}
	appLogger.Info("Application stopped.")
}
