package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/events"
)

var (
	ErrInvalidRating   = errors.New("reviews: rating must be between 1 and 5")
	ErrNotFound        = errors.New("reviews: not found")
	ErrAlreadyReviewed = errors.New("reviews: booking already reviewed")
)

type ReviewID string

// Review is a renter's rating of a completed stay, at most one per booking.
type Review struct {
	ID        ReviewID
	BookingID booking.BookingID
	ListingID listings.ListingID
	AuthorID  string
	Rating    int
	Text      string
	CreatedAt time.Time
	events.Recorder
}

// Summary aggregates a listing's reviews.
type Summary struct {
	AverageRating float64
	Count         int
}

type Repository interface {
	ByBooking(ctx context.Context, bookingID booking.BookingID) (*Review, error)
	ListLatest(ctx context.Context, listingID listings.ListingID, limit int) ([]*Review, error)
	SummaryFor(ctx context.Context, listingID listings.ListingID) (Summary, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID        ReviewID
	BookingID booking.BookingID
	ListingID listings.ListingID
	AuthorID  string
	Rating    int
	Text      string
	Now       time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	r := &Review{
		ID:        params.ID,
		BookingID: params.BookingID,
		ListingID: params.ListingID,
		AuthorID:  params.AuthorID,
		Rating:    params.Rating,
		Text:      strings.TrimSpace(params.Text),
		CreatedAt: params.Now.UTC(),
	}
	r.Record(ReviewSubmitted{ReviewID: r.ID, BookingID: r.BookingID, ListingID: r.ListingID, Rating: r.Rating, At: r.CreatedAt})
	return r, nil
}
