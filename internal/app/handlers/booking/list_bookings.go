package booking

import (
	"context"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/handlers/support"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainlistings "stayhub/internal/domain/listings"
)

const (
	ownerBookingsKey  = "booking.owner_list"
	renterBookingsKey = "booking.renter_list"
	pendingCountKey   = "booking.pending_count"
)

// OwnerBookingsQuery lists every booking across the owner's listings.
type OwnerBookingsQuery struct {
	OwnerID string
}

func (q OwnerBookingsQuery) Key() string { return ownerBookingsKey }

type OwnerBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *OwnerBookingsHandler) Handle(ctx context.Context, q OwnerBookingsQuery) ([]dto.Booking, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	owned, err := unit.Listings().ByOwner(execCtx, domainlistings.OwnerID(q.OwnerID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.Booking, 0)
	for _, l := range owned {
		items, err := unit.Bookings().ListByListing(execCtx, l.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.MapBookings(items)...)
	}
	return out, nil
}

// RenterBookingsQuery lists the renter's own bookings.
type RenterBookingsQuery struct {
	RenterID string
}

func (q RenterBookingsQuery) Key() string { return renterBookingsKey }

type RenterBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *RenterBookingsHandler) Handle(ctx context.Context, q RenterBookingsQuery) ([]dto.Booking, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	items, err := unit.Bookings().ListByRenter(execCtx, q.RenterID)
	if err != nil {
		return nil, err
	}
	return dto.MapBookings(items), nil
}

// PendingCountQuery counts undecided requests across the owner's listings.
type PendingCountQuery struct {
	OwnerID string
}

func (q PendingCountQuery) Key() string { return pendingCountKey }

type PendingCountResult struct {
	Pending int `json:"pending"`
}

type PendingCountHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *PendingCountHandler) Handle(ctx context.Context, q PendingCountQuery) (PendingCountResult, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return PendingCountResult{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	owned, err := unit.Listings().ByOwner(execCtx, domainlistings.OwnerID(q.OwnerID))
	if err != nil {
		return PendingCountResult{}, err
	}
	ids := make([]domainlistings.ListingID, 0, len(owned))
	for _, l := range owned {
		ids = append(ids, l.ID)
	}
	count, err := unit.Bookings().PendingCountForListings(execCtx, ids)
	if err != nil {
		return PendingCountResult{}, err
	}
	return PendingCountResult{Pending: count}, nil
}

var (
	_ queries.Handler[OwnerBookingsQuery, []dto.Booking]     = (*OwnerBookingsHandler)(nil)
	_ queries.Handler[RenterBookingsQuery, []dto.Booking]    = (*RenterBookingsHandler)(nil)
	_ queries.Handler[PendingCountQuery, PendingCountResult] = (*PendingCountHandler)(nil)
)
