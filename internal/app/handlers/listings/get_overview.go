package listings

import (
	"context"

	"stayhub/internal/app/dto"
	handlersupport "stayhub/internal/app/handlers/support"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainlistings "stayhub/internal/domain/listings"
)

const getOverviewKey = "listings.overview"

const overviewReviewLimit = 5

// GetOverviewQuery loads a listing card with its review summary and the
// latest reviews, the way the detail screen presents it.
type GetOverviewQuery struct {
	ListingID string
}

func (q GetOverviewQuery) Key() string { return getOverviewKey }

type ListingOverview struct {
	Listing dto.Listing       `json:"listing"`
	Rating  dto.ReviewSummary `json:"rating"`
	Reviews []dto.Review      `json:"reviews"`
}

type GetOverviewHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetOverviewHandler) Handle(ctx context.Context, q GetOverviewQuery) (ListingOverview, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return ListingOverview{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listing, err := unit.Listings().ByID(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return ListingOverview{}, err
	}

	summary, err := unit.Reviews().SummaryFor(execCtx, listing.ID)
	if err != nil {
		return ListingOverview{}, err
	}
	latest, err := unit.Reviews().ListLatest(execCtx, listing.ID, overviewReviewLimit)
	if err != nil {
		return ListingOverview{}, err
	}

	return ListingOverview{
		Listing: dto.MapListing(listing),
		Rating:  dto.ReviewSummary{AverageRating: summary.AverageRating, Count: summary.Count},
		Reviews: dto.MapReviews(latest),
	}, nil
}

var _ queries.Handler[GetOverviewQuery, ListingOverview] = (*GetOverviewHandler)(nil)
