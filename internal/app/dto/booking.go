package dto

import (
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/shared/dates"
)

type Booking struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	RenterID  string    `json:"renter_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Nights    int       `json:"nights"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func MapBooking(b *booking.Booking) Booking {
	if b == nil {
		return Booking{}
	}
	return Booking{
		ID:        string(b.ID),
		ListingID: string(b.ListingID),
		RenterID:  b.RenterID,
		StartDate: dates.Format(b.Range.Start),
		EndDate:   dates.Format(b.Range.End),
		Nights:    b.Range.Nights(),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

func MapBookings(items []*booking.Booking) []Booking {
	out := make([]Booking, 0, len(items))
	for _, b := range items {
		out = append(out, MapBooking(b))
	}
	return out
}
