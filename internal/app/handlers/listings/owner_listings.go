package listings

import (
	"context"
	"strings"

	"stayhub/internal/app/dto"
	handlersupport "stayhub/internal/app/handlers/support"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainlistings "stayhub/internal/domain/listings"
)

const (
	ownerListingsKey = "owner.listings.list"
	ownerSummaryKey  = "owner.listings.summary"
	getListingKey    = "listings.get"
)

// OwnerListingsQuery returns every listing the owner manages, active or not.
type OwnerListingsQuery struct {
	OwnerID string
}

func (q OwnerListingsQuery) Key() string { return ownerListingsKey }

type OwnerListingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *OwnerListingsHandler) Handle(ctx context.Context, q OwnerListingsQuery) ([]dto.Listing, error) {
	if strings.TrimSpace(q.OwnerID) == "" {
		return nil, ErrOwnerRequired
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	items, err := unit.Listings().ByOwner(execCtx, domainlistings.OwnerID(q.OwnerID))
	if err != nil {
		return nil, err
	}
	return dto.MapListings(items), nil
}

type OwnerSummaryQuery struct {
	OwnerID string
}

func (q OwnerSummaryQuery) Key() string { return ownerSummaryKey }

type OwnerSummaryHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *OwnerSummaryHandler) Handle(ctx context.Context, q OwnerSummaryQuery) (dto.OwnerSummary, error) {
	if strings.TrimSpace(q.OwnerID) == "" {
		return dto.OwnerSummary{}, ErrOwnerRequired
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.OwnerSummary{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	sum, err := unit.Listings().OwnerSummary(execCtx, domainlistings.OwnerID(q.OwnerID))
	if err != nil {
		return dto.OwnerSummary{}, err
	}
	return dto.OwnerSummary{Total: sum.Total, Active: sum.Active}, nil
}

// GetListingQuery fetches one listing by id for public display.
type GetListingQuery struct {
	ListingID string
}

func (q GetListingQuery) Key() string { return getListingKey }

type GetListingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (dto.Listing, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Listing{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	listing, err := unit.Listings().ByID(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return dto.Listing{}, err
	}
	return dto.MapListing(listing), nil
}

var (
	_ queries.Handler[OwnerListingsQuery, []dto.Listing]   = (*OwnerListingsHandler)(nil)
	_ queries.Handler[OwnerSummaryQuery, dto.OwnerSummary] = (*OwnerSummaryHandler)(nil)
	_ queries.Handler[GetListingQuery, dto.Listing]        = (*GetListingHandler)(nil)
)
