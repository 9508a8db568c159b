package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/carmarket/listing-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const viewCollectionName = "listing_views"

// ViewRepository implements domain.ViewRepository using MongoDB.
type ViewRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewViewRepository creates the repository and ensures its indexes.
func NewViewRepository(db *mongo.Database, log *logger.Logger) (*ViewRepository, error) {
	collection := db.Collection(viewCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "viewed_at", Value: -1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for listing_views collection", zap.Error(err))
	}

	return &ViewRepository{
		collection: collection,
		logger:     log.Named("ViewRepository"),
	}, nil
}

// Record stores one listing detail view.
func (r *ViewRepository) Record(ctx context.Context, listingID string, viewedAt time.Time) error {
	doc := viewDocument{ListingID: listingID, ViewedAt: viewedAt.UTC()}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to record listing view", zap.String("listing_id", listingID), zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

// CountSince returns per-listing view counts created after the given
// timestamp, for the requested set of listing ids. Listings without views
// are absent from the result map.
func (r *ViewRepository) CountSince(ctx context.Context, listingIDs []string, since time.Time) (map[string]int64, error) {
	counts := make(map[string]int64, len(listingIDs))
	if len(listingIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"listing_id": bson.M{"$in": listingIDs},
			"viewed_at":  bson.M{"$gt": since.UTC()},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$listing_id",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to aggregate listing views", zap.Error(err))
		return nil, fmt.Errorf("db aggregate failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ListingID string `bson:"_id"`
		Count     int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("db cursor failed: %w", err)
	}

	for _, row := range rows {
		counts[row.ListingID] = row.Count
	}
	return counts, nil
}
