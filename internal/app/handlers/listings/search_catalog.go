package listings

import (
	"context"

	"stayhub/internal/app/dto"
	handlersupport "stayhub/internal/app/handlers/support"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainlistings "stayhub/internal/domain/listings"
)

const searchCatalogKey = "listings.search"

// SearchCatalogQuery describes renter-facing catalog filters.
type SearchCatalogQuery struct {
	Districts []string
	MaxPrice  int64
	MinGuests int
	Limit     int
	Offset    int
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

type SearchCatalogResult struct {
	Items []dto.Listing `json:"items"`
}

// SearchCatalogHandler loads active listings matching the filters.
type SearchCatalogHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (SearchCatalogResult, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return SearchCatalogResult{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	params := domainlistings.SearchParams{
		Districts:  q.Districts,
		MaxPrice:   q.MaxPrice,
		MinGuests:  q.MinGuests,
		OnlyActive: true,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}.Normalized()

	items, err := unit.Listings().Search(execCtx, params)
	if err != nil {
		return SearchCatalogResult{}, err
	}
	return SearchCatalogResult{Items: dto.MapListings(items)}, nil
}

var _ queries.Handler[SearchCatalogQuery, SearchCatalogResult] = (*SearchCatalogHandler)(nil)
