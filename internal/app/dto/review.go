package dto

import (
	"time"

	"stayhub/internal/domain/reviews"
)

type Review struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	ListingID string    `json:"listing_id"`
	AuthorID  string    `json:"author_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func MapReview(r *reviews.Review) Review {
	if r == nil {
		return Review{}
	}
	return Review{
		ID:        string(r.ID),
		BookingID: string(r.BookingID),
		ListingID: string(r.ListingID),
		AuthorID:  r.AuthorID,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

func MapReviews(items []*reviews.Review) []Review {
	out := make([]Review, 0, len(items))
	for _, r := range items {
		out = append(out, MapReview(r))
	}
	return out
}

type ReviewSummary struct {
	AverageRating float64 `json:"average_rating"`
	Count         int     `json:"count"`
}
