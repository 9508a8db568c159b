package mongodb

import (
	"context"
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

const enquiryCollectionName = "enquiries"

// EnquiryRepository implements domain.EnquiryRepository using MongoDB.
type EnquiryRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewEnquiryRepository creates the repository and ensures its indexes.
func NewEnquiryRepository(db *mongo.Database, log *logger.Logger) (*EnquiryRepository, error) {
	collection := db.Collection(enquiryCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "seller_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "listing_id", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for enquiries collection", zap.Error(err))
	}

	return &EnquiryRepository{
		collection: collection,
		logger:     log.Named("EnquiryRepository"),
	}, nil
}

// Create inserts a new enquiry and writes the generated id back.
func (r *EnquiryRepository) Create(ctx context.Context, enquiry *domain.Enquiry) error {
	doc, err := toEnquiryDocument(enquiry)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert enquiry into DB",
			zap.String("listing_id", enquiry.ListingID), zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}

	enquiry.ID = doc.ID.Hex()
	r.logger.Info("Enquiry created in DB",
		zap.String("enquiry_id", enquiry.ID),
		zap.String("listing_id", enquiry.ListingID))
	return nil
}

// FindBySellerID returns a seller's enquiries, newest first.
func (r *EnquiryRepository) FindBySellerID(ctx context.Context, sellerID string) ([]*domain.Enquiry, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("%w: sellerID cannot be empty", domain.ErrInvalidInput)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"seller_id": sellerID}, findOptions)
	if err != nil {
		r.logger.Error("Failed to find enquiries by seller", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*enquiryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor failed: %w", err)
	}
	return toDomainEnquiries(docs), nil
}
