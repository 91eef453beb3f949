package reviews

import (
	"context"

	"stayhub/internal/app/dto"
	handlersupport "stayhub/internal/app/handlers/support"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainlistings "stayhub/internal/domain/listings"
)

const (
	listListingReviewsKey = "reviews.listing.list"
	reviewSummaryKey      = "reviews.listing.summary"
)

// ListListingReviewsQuery retrieves the latest reviews for a listing.
type ListListingReviewsQuery struct {
	ListingID string
	Limit     int
}

func (q ListListingReviewsQuery) Key() string { return listListingReviewsKey }

type ListListingReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListListingReviewsHandler) Handle(ctx context.Context, q ListListingReviewsQuery) ([]dto.Review, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listingID := domainlistings.ListingID(q.ListingID)
	if _, err := unit.Listings().ByID(execCtx, listingID); err != nil {
		return nil, err
	}

	items, err := unit.Reviews().ListLatest(execCtx, listingID, normalizeLimit(q.Limit))
	if err != nil {
		return nil, err
	}
	return dto.MapReviews(items), nil
}

// ReviewSummaryQuery returns the aggregate rating shown on listing cards.
type ReviewSummaryQuery struct {
	ListingID string
}

func (q ReviewSummaryQuery) Key() string { return reviewSummaryKey }

type ReviewSummaryHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ReviewSummaryHandler) Handle(ctx context.Context, q ReviewSummaryQuery) (dto.ReviewSummary, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewSummary{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	summary, err := unit.Reviews().SummaryFor(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return dto.ReviewSummary{}, err
	}
	return dto.ReviewSummary{AverageRating: summary.AverageRating, Count: summary.Count}, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

var (
	_ queries.Handler[ListListingReviewsQuery, []dto.Review] = (*ListListingReviewsHandler)(nil)
	_ queries.Handler[ReviewSummaryQuery, dto.ReviewSummary] = (*ReviewSummaryHandler)(nil)
)
