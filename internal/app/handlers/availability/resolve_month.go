package availability

import (
	"context"
	"fmt"
	"time"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/handlers/support"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/uow"
	domainavailability "stayhub/internal/domain/availability"
	domainlistings "stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/dates"
)

const resolveMonthKey = "availability.resolve_month"

var ErrInvalidMonth = fmt.Errorf("availability: year and month must form a valid calendar month")

// ResolveMonthQuery asks for the day-by-day calendar of one listing month.
type ResolveMonthQuery struct {
	ListingID string
	Year      int
	Month     int
	// Now lets tests pin the past cutoff; zero means time.Now.
	Now time.Time
}

func (q ResolveMonthQuery) Key() string { return resolveMonthKey }

type ResolveMonthHandler struct {
	UoWFactory uow.UoWFactory
}

// Handle fetches the three data sources and merges them per day. Any fetch
// failure fails the whole call; no partial month is ever returned.
func (h *ResolveMonthHandler) Handle(ctx context.Context, q ResolveMonthQuery) ([]dto.CalendarDay, error) {
	if !dates.ValidMonth(q.Year, q.Month) {
		return nil, ErrInvalidMonth
	}

	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listingID := domainlistings.ListingID(q.ListingID)
	listing, err := unit.Listings().ByID(execCtx, listingID)
	if err != nil {
		return nil, err
	}

	confirmed, err := unit.Bookings().ConfirmedRanges(execCtx, listingID)
	if err != nil {
		return nil, err
	}
	blocks, err := unit.Blocks().ListByListing(execCtx, listingID)
	if err != nil {
		return nil, err
	}
	rules, err := unit.PriceRules().ListByListing(execCtx, listingID)
	if err != nil {
		return nil, err
	}

	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	records := domainavailability.ResolveMonth(q.Year, time.Month(q.Month), domainavailability.MonthInputs{
		Now:       now,
		BasePrice: listing.NightlyPrice,
		Confirmed: confirmed,
		Blocks:    blocks,
		Rules:     rules,
	})
	return dto.MapCalendarDays(records), nil
}

var _ queries.Handler[ResolveMonthQuery, []dto.CalendarDay] = (*ResolveMonthHandler)(nil)
