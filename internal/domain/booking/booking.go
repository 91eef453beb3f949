package booking

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/dates"
	"stayhub/internal/domain/shared/events"
)

var (
	ErrBookingNotFound = errors.New("booking: not found")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrRangeInPast     = errors.New("booking: check-in must not be in the past")
	ErrRenterRequired  = errors.New("booking: renter id required")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// Booking is a renter's reservation request over a half-open day range: the
// checkout day is not occupied. It starts pending and is decided by the owner
// exactly once; after that it is immutable.
type Booking struct {
	ID        BookingID
	ListingID listings.ListingID
	RenterID  string
	Range     dates.Range
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.Recorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	ListByRenter(ctx context.Context, renterID string) ([]*Booking, error)
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Booking, error)
	// ConfirmedRanges returns the date ranges of all confirmed bookings for
	// the listing; the availability resolver expands them per day.
	ConfirmedRanges(ctx context.Context, listingID listings.ListingID) ([]dates.Range, error)
	PendingCountForListings(ctx context.Context, listingIDs []listings.ListingID) (int, error)
}

type RequestParams struct {
	ID        BookingID
	ListingID listings.ListingID
	RenterID  string
	Range     dates.Range
	Now       time.Time
}

// Request creates a pending booking after validating the stay range.
func Request(params RequestParams) (*Booking, error) {
	if params.RenterID == "" {
		return nil, ErrRenterRequired
	}
	if err := ValidateRange(params.Range, params.Now); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	b := &Booking{
		ID:        params.ID,
		ListingID: params.ListingID,
		RenterID:  params.RenterID,
		Range:     params.Range,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(BookingRequested{BookingID: b.ID, ListingID: b.ListingID, RenterID: b.RenterID, Start: b.Range.Start, End: b.Range.End, At: now})
	return b, nil
}

// ValidateRange checks ordering and that check-in is not before today.
func ValidateRange(r dates.Range, now time.Time) error {
	if !r.End.After(r.Start) {
		return dates.ErrInvalidRange
	}
	if r.Start.Before(dates.Today(now)) {
		return ErrRangeInPast
	}
	return nil
}

// Confirm moves a pending booking to confirmed. The decision is final.
func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, ListingID: b.ListingID, RenterID: b.RenterID, Start: b.Range.Start, End: b.Range.End, At: b.UpdatedAt})
	return nil
}

// Reject moves a pending booking to rejected. The decision is final.
func (b *Booking) Reject(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusRejected
	b.UpdatedAt = now.UTC()
	b.Record(BookingRejected{BookingID: b.ID, ListingID: b.ListingID, RenterID: b.RenterID, At: b.UpdatedAt})
	return nil
}

// OccupiedDays expands confirmed ranges into the set of occupied days.
func OccupiedDays(ranges []dates.Range) map[time.Time]struct{} {
	out := make(map[time.Time]struct{})
	for _, r := range ranges {
		for _, d := range r.Days() {
			out[d] = struct{}{}
		}
	}
	return out
}
