package availability

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/listings"
)

var (
	// ErrDateBooked is returned when a manual block is attempted on a day
	// already occupied by a confirmed booking.
	ErrDateBooked = errors.New("availability: date occupied by a confirmed booking")
)

// ManualBlock marks a single day unavailable by owner decision, independent of
// bookings. At most one block exists per (listing, date).
type ManualBlock struct {
	ListingID listings.ListingID
	Date      time.Time
	Comment   string
	CreatedAt time.Time
}

// BlockStore persists manual blocks. Upsert overwrites the comment of an
// existing block for the same day; Remove is a no-op when nothing is stored.
type BlockStore interface {
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]ManualBlock, error)
	Upsert(ctx context.Context, block ManualBlock) error
	Remove(ctx context.Context, listingID listings.ListingID, date time.Time) error
}

// NewBlock normalizes a block before it is stored.
func NewBlock(listingID listings.ListingID, date time.Time, comment string, now time.Time) ManualBlock {
	return ManualBlock{
		ListingID: listingID,
		Date:      date,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now.UTC(),
	}
}
