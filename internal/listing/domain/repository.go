package domain

import (
	"context"
	"time"
)

// CompareCapacity is the maximum number of listings in a compare set.
// Adding beyond capacity is a no-op, not an error.
const CompareCapacity = 3

// ListingRepository defines the interface for listing persistence.
// Methods operate on the clean domain.Listing entity; mapping to database
// structures is handled by the repository implementation.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)

	// FindApproved returns one page of approved listings ordered by
	// creation time descending, plus the total approved count.
	FindApproved(ctx context.Context, offset, limit int) ([]*Listing, int64, error)

	// FindBySellerID returns every listing of one seller, newest first.
	FindBySellerID(ctx context.Context, sellerID string) ([]*Listing, error)
}

// FavoriteStore holds per-user favorite sets. Every mutation is written
// through immediately; a write failure is returned to the caller rather
// than swallowed.
type FavoriteStore interface {
	// Toggle flips membership and reports the resulting state.
	Toggle(ctx context.Context, userID, listingID string) (favorited bool, err error)
	IsMember(ctx context.Context, userID, listingID string) (bool, error)
	Members(ctx context.Context, userID string) ([]string, error)

	// ListingCount reports how many users currently favorite a listing.
	ListingCount(ctx context.Context, listingID string) (int64, error)
}

// CompareStore holds per-user compare sets of listing snapshots, capped at
// CompareCapacity. Write-through, same failure contract as FavoriteStore.
type CompareStore interface {
	// Add inserts a snapshot and reports whether the set changed. Adding a
	// duplicate or adding at capacity is a no-op.
	Add(ctx context.Context, userID string, snapshot *Listing) (added bool, err error)
	Remove(ctx context.Context, userID, listingID string) error
	Members(ctx context.Context, userID string) ([]*Listing, error)
	Count(ctx context.Context, userID string) (int, error)
}

// EnquiryRepository persists buyer enquiries.
type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *Enquiry) error
	FindBySellerID(ctx context.Context, sellerID string) ([]*Enquiry, error)
}

// ViewRepository records listing detail views for the seller dashboard.
type ViewRepository interface {
	Record(ctx context.Context, listingID string, viewedAt time.Time) error

	// CountSince returns per-listing view counts created after the given
	// timestamp, for the requested set of listing ids.
	CountSince(ctx context.Context, listingIDs []string, since time.Time) (map[string]int64, error)
}
