package availability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	availabilityapp "stayhub/internal/app/handlers/availability"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainpricing "stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/dates"
	"stayhub/internal/infra/storage/memory"
)

type fixture struct {
	factory  memory.Factory
	listings *memory.ListingRepository
	bookings *memory.BookingRepository
	blocks   *memory.BlockStore
	rules    *memory.RuleStore
}

func newFixture() fixture {
	f := fixture{
		listings: memory.NewListingRepository(),
		bookings: memory.NewBookingRepository(),
		blocks:   memory.NewBlockStore(),
		rules:    memory.NewRuleStore(),
	}
	f.factory = memory.Factory{
		ListingsRepo: f.listings,
		BookingsRepo: f.bookings,
		BlocksRepo:   f.blocks,
		RulesRepo:    f.rules,
		ReviewsRepo:  memory.NewReviewRepository(),
		UsersRepo:    memory.NewUserRepository(),
		SessionsRepo: memory.NewSessionStore(),
	}
	return f
}

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func (f fixture) seedListing(t *testing.T, id string, price int64) {
	t.Helper()
	listing, err := domainlistings.New(domainlistings.CreateParams{
		ID:           domainlistings.ListingID(id),
		Owner:        "owner-1",
		Title:        "Studio",
		District:     "Central",
		Address:      "Main st 5",
		GuestsLimit:  2,
		NightlyPrice: price,
		Now:          day(1),
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	listing.ClearEvents()
	if err := f.listings.Save(context.Background(), listing); err != nil {
		t.Fatalf("save listing: %v", err)
	}
}

func (f fixture) seedConfirmedBooking(t *testing.T, id, listingID string, start, end time.Time) {
	t.Helper()
	r, err := dates.NewRange(start, end)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	bk, err := domainbooking.Request(domainbooking.RequestParams{
		ID:        domainbooking.BookingID(id),
		ListingID: domainlistings.ListingID(listingID),
		RenterID:  "renter-1",
		Range:     r,
		Now:       start,
	})
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}
	if err := bk.Confirm(start); err != nil {
		t.Fatalf("confirm booking: %v", err)
	}
	bk.ClearEvents()
	if err := f.bookings.Save(context.Background(), bk); err != nil {
		t.Fatalf("save booking: %v", err)
	}
}

func (f fixture) seedRule(t *testing.T, id, listingID string, start, end time.Time, price int64) {
	t.Helper()
	rule, err := domainpricing.NewRule(domainpricing.RuleID(id), domainlistings.ListingID(listingID), start, end, price, day(1))
	if err != nil {
		t.Fatalf("new rule: %v", err)
	}
	if err := f.rules.Add(context.Background(), rule); err != nil {
		t.Fatalf("add rule: %v", err)
	}
}

func (f fixture) seedBlock(t *testing.T, listingID string, date time.Time, comment string) {
	t.Helper()
	block := domainavailability.NewBlock(domainlistings.ListingID(listingID), date, comment, day(1))
	if err := f.blocks.Upsert(context.Background(), block); err != nil {
		t.Fatalf("upsert block: %v", err)
	}
}

func TestResolveMonthHandler(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedListing(t, "lst-1", 5000)
	f.seedRule(t, "season", "lst-1", day(1), day(30), 4000)
	f.seedRule(t, "surge", "lst-1", day(10), day(15), 6000)
	f.seedConfirmedBooking(t, "bk-1", "lst-1", day(12), day(14))
	f.seedBlock(t, "lst-1", day(20), "maintenance")

	handler := &availabilityapp.ResolveMonthHandler{UoWFactory: f.factory}
	days, err := handler.Handle(context.Background(), availabilityapp.ResolveMonthQuery{
		ListingID: "lst-1",
		Year:      2025,
		Month:     6,
		Now:       time.Date(2025, time.June, 5, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(days) != 30 {
		t.Fatalf("resolved %d days, want 30", len(days))
	}

	byDate := make(map[string]int, len(days))
	for i, d := range days {
		byDate[d.Date] = i
	}
	check := func(date, status string, price *int64, comment *string) {
		t.Helper()
		idx, ok := byDate[date]
		if !ok {
			t.Fatalf("no record for %s", date)
		}
		rec := days[idx]
		if rec.Status != status {
			t.Fatalf("%s status = %q, want %q", date, rec.Status, status)
		}
		switch {
		case price == nil && rec.Price != nil:
			t.Fatalf("%s price = %d, want nil", date, *rec.Price)
		case price != nil && (rec.Price == nil || *rec.Price != *price):
			t.Fatalf("%s price = %v, want %d", date, rec.Price, *price)
		}
		switch {
		case comment == nil && rec.Comment != nil:
			t.Fatalf("%s comment = %q, want nil", date, *rec.Comment)
		case comment != nil && (rec.Comment == nil || *rec.Comment != *comment):
			t.Fatalf("%s comment = %v, want %q", date, rec.Comment, *comment)
		}
	}
	p := func(v int64) *int64 { return &v }
	s := func(v string) *string { return &v }

	check("2025-06-04", "past", nil, nil)
	check("2025-06-05", "available", p(4000), nil)
	check("2025-06-10", "available", p(6000), nil)
	check("2025-06-12", "booked", nil, nil)
	check("2025-06-13", "booked", nil, nil)
	check("2025-06-14", "available", p(6000), nil)
	check("2025-06-16", "available", p(4000), nil)
	check("2025-06-20", "manual_block", nil, s("maintenance"))
	check("2025-06-30", "available", p(4000), nil)
}

func TestResolveMonthHandlerErrors(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedListing(t, "lst-1", 5000)
	handler := &availabilityapp.ResolveMonthHandler{UoWFactory: f.factory}

	t.Run("invalid month", func(t *testing.T) {
		t.Parallel()
		_, err := handler.Handle(context.Background(), availabilityapp.ResolveMonthQuery{
			ListingID: "lst-1",
			Year:      2025,
			Month:     13,
		})
		if !errors.Is(err, availabilityapp.ErrInvalidMonth) {
			t.Fatalf("error = %v, want ErrInvalidMonth", err)
		}
	})

	t.Run("unknown listing", func(t *testing.T) {
		t.Parallel()
		_, err := handler.Handle(context.Background(), availabilityapp.ResolveMonthQuery{
			ListingID: "missing",
			Year:      2025,
			Month:     6,
		})
		if !errors.Is(err, domainlistings.ErrListingNotFound) {
			t.Fatalf("error = %v, want ErrListingNotFound", err)
		}
	})
}
