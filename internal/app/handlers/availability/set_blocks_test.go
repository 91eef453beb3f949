package availability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	availabilityapp "stayhub/internal/app/handlers/availability"
	domainavailability "stayhub/internal/domain/availability"
	domainlistings "stayhub/internal/domain/listings"
)

func blockDates(t *testing.T, f fixture, listingID string) map[string]string {
	t.Helper()
	blocks, err := f.blocks.ListByListing(context.Background(), domainlistings.ListingID(listingID))
	if err != nil {
		t.Fatalf("list blocks: %v", err)
	}
	out := make(map[string]string, len(blocks))
	for _, b := range blocks {
		out[b.Date.Format("2006-01-02")] = b.Comment
	}
	return out
}

func TestSetBlocksHandler(t *testing.T) {
	t.Parallel()

	t.Run("blocks days with a comment", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", 5000)
		handler := &availabilityapp.SetBlocksHandler{UoWFactory: f.factory}

		result, err := handler.Handle(context.Background(), availabilityapp.SetBlocksCommand{
			CommandID: "cmd-1",
			ListingID: "lst-1",
			Dates:     []time.Time{day(20), day(21)},
			Blocked:   true,
			Comment:   "maintenance",
			Now:       day(5),
		})
		if err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
		if result.Status != "ok" {
			t.Fatalf("status = %q", result.Status)
		}
		got := blockDates(t, f, "lst-1")
		if len(got) != 2 || got["2025-06-20"] != "maintenance" || got["2025-06-21"] != "maintenance" {
			t.Fatalf("blocks = %v", got)
		}
	})

	t.Run("re-blocking overwrites the comment", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", 5000)
		handler := &availabilityapp.SetBlocksHandler{UoWFactory: f.factory}

		for _, comment := range []string{"first", "second"} {
			if _, err := handler.Handle(context.Background(), availabilityapp.SetBlocksCommand{
				ListingID: "lst-1",
				Dates:     []time.Time{day(20)},
				Blocked:   true,
				Comment:   comment,
				Now:       day(5),
			}); err != nil {
				t.Fatalf("Handle failed: %v", err)
			}
		}
		got := blockDates(t, f, "lst-1")
		if len(got) != 1 || got["2025-06-20"] != "second" {
			t.Fatalf("blocks = %v", got)
		}
	})

	t.Run("unblocking removes the block and tolerates absent days", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", 5000)
		f.seedBlock(t, "lst-1", day(20), "")
		handler := &availabilityapp.SetBlocksHandler{UoWFactory: f.factory}

		if _, err := handler.Handle(context.Background(), availabilityapp.SetBlocksCommand{
			ListingID: "lst-1",
			Dates:     []time.Time{day(20), day(25)},
			Blocked:   false,
			Now:       day(5),
		}); err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
		if got := blockDates(t, f, "lst-1"); len(got) != 0 {
			t.Fatalf("blocks = %v, want none", got)
		}
	})

	t.Run("rejects blocking a booked day and writes nothing", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", 5000)
		f.seedConfirmedBooking(t, "bk-1", "lst-1", day(12), day(14))
		handler := &availabilityapp.SetBlocksHandler{UoWFactory: f.factory}

		_, err := handler.Handle(context.Background(), availabilityapp.SetBlocksCommand{
			ListingID: "lst-1",
			Dates:     []time.Time{day(11), day(13)},
			Blocked:   true,
			Now:       day(5),
		})
		if !errors.Is(err, domainavailability.ErrDateBooked) {
			t.Fatalf("error = %v, want ErrDateBooked", err)
		}
		if got := blockDates(t, f, "lst-1"); len(got) != 0 {
			t.Fatalf("conflicting command must not write, blocks = %v", got)
		}
	})

	t.Run("checkout day of a booking can be blocked", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", 5000)
		f.seedConfirmedBooking(t, "bk-1", "lst-1", day(12), day(14))
		handler := &availabilityapp.SetBlocksHandler{UoWFactory: f.factory}

		if _, err := handler.Handle(context.Background(), availabilityapp.SetBlocksCommand{
			ListingID: "lst-1",
			Dates:     []time.Time{day(14)},
			Blocked:   true,
			Now:       day(5),
		}); err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
	})

	t.Run("empty dates are rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", 5000)
		handler := &availabilityapp.SetBlocksHandler{UoWFactory: f.factory}

		_, err := handler.Handle(context.Background(), availabilityapp.SetBlocksCommand{
			ListingID: "lst-1",
			Blocked:   true,
		})
		if !errors.Is(err, availabilityapp.ErrNoDates) {
			t.Fatalf("error = %v, want ErrNoDates", err)
		}
	})

	t.Run("unknown listing", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		handler := &availabilityapp.SetBlocksHandler{UoWFactory: f.factory}

		_, err := handler.Handle(context.Background(), availabilityapp.SetBlocksCommand{
			ListingID: "missing",
			Dates:     []time.Time{day(20)},
			Blocked:   true,
		})
		if !errors.Is(err, domainlistings.ErrListingNotFound) {
			t.Fatalf("error = %v, want ErrListingNotFound", err)
		}
	})
}
