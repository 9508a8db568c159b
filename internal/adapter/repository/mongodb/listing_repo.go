package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carmarket/listing-service/internal/listing/domain"
	"github.com/carmarket/listing-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const listingCollectionName = "listings"

// ListingRepository implements domain.ListingRepository using MongoDB.
type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewListingRepository creates the repository and ensures its indexes.
func NewListingRepository(db *mongo.Database, log *logger.Logger) (*ListingRepository, error) {
	collection := db.Collection(listingCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}}, // approved feed, newest first
		{Keys: bson.D{{Key: "seller_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "brand", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Indexes may already exist or be managed externally; log and continue.
		log.Error("Failed to create indexes for listings collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for listings collection")
	}

	return &ListingRepository{
		collection: collection,
		logger:     log.Named("ListingRepository"),
	}, nil
}

// Create inserts a new listing and writes the generated id and timestamps
// back onto the domain entity.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	r.logger.Debug("Creating listing in DB",
		zap.String("seller_id", listing.SellerID),
		zap.String("brand", listing.Brand),
		zap.String("model", listing.Model))

	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}

	listing.ID = doc.ID.Hex()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	r.logger.Info("Listing created in DB", zap.String("listing_id", listing.ID))
	return nil
}

// Update replaces the stored fields of an existing listing.
func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()
	listing.UpdatedAt = doc.UpdatedAt

	result, err := r.collection.UpdateByID(ctx, doc.ID, bson.M{"$set": doc})
	if err != nil {
		r.logger.Error("Failed to update listing in DB", zap.String("listing_id", listing.ID), zap.Error(err))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// Delete removes a listing by id.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete listing from DB", zap.String("listing_id", id), zap.Error(err))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	r.logger.Info("Listing deleted from DB", zap.String("listing_id", id))
	return nil
}

// FindByID retrieves one listing by id.
func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("Failed to find listing in DB", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	return toDomainListing(&doc), nil
}

// FindApproved returns one page of approved listings ordered by creation
// time descending, plus the total approved count for pagination.
func (r *ListingRepository) FindApproved(ctx context.Context, offset, limit int) ([]*domain.Listing, int64, error) {
	filter := bson.M{"status": domain.StatusApproved}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count approved listings", zap.Error(err))
		return nil, 0, fmt.Errorf("db count failed: %w", err)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		r.logger.Error("Failed to find approved listings", zap.Error(err))
		return nil, 0, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("db cursor failed: %w", err)
	}

	r.logger.Debug("Fetched approved listings page",
		zap.Int("offset", offset),
		zap.Int("limit", limit),
		zap.Int("batch_size", len(docs)),
		zap.Int64("total", total))
	return toDomainListings(docs), total, nil
}

// FindBySellerID returns every listing of one seller, newest first.
func (r *ListingRepository) FindBySellerID(ctx context.Context, sellerID string) ([]*domain.Listing, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("%w: sellerID cannot be empty", domain.ErrInvalidInput)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"seller_id": sellerID}, findOptions)
	if err != nil {
		r.logger.Error("Failed to find listings by seller", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor failed: %w", err)
	}
	return toDomainListings(docs), nil
}
