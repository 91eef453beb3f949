package booking_test

import (
	"errors"
	"testing"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/shared/dates"
)

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) dates.Range {
	t.Helper()
	r, err := dates.NewRange(start, end)
	if err != nil {
		t.Fatalf("NewRange failed: %v", err)
	}
	return r
}

func pendingBooking(t *testing.T) *booking.Booking {
	t.Helper()
	b, err := booking.Request(booking.RequestParams{
		ID:        "bk-1",
		ListingID: "lst-1",
		RenterID:  "usr-42",
		Range:     mustRange(t, day(12), day(14)),
		Now:       day(5),
	})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return b
}

func TestRequest(t *testing.T) {
	t.Parallel()

	t.Run("creates a pending booking and records the event", func(t *testing.T) {
		t.Parallel()
		b := pendingBooking(t)
		if b.Status != booking.StatusPending {
			t.Fatalf("status = %q, want pending", b.Status)
		}
		evs := b.PendingEvents()
		if len(evs) != 1 {
			t.Fatalf("recorded %d events, want 1", len(evs))
		}
		if evs[0].EventName() != "booking.requested" {
			t.Fatalf("event name = %q", evs[0].EventName())
		}
	})

	t.Run("rejects a missing renter", func(t *testing.T) {
		t.Parallel()
		_, err := booking.Request(booking.RequestParams{
			ID:        "bk-1",
			ListingID: "lst-1",
			Range:     mustRange(t, day(12), day(14)),
			Now:       day(5),
		})
		if !errors.Is(err, booking.ErrRenterRequired) {
			t.Fatalf("error = %v, want ErrRenterRequired", err)
		}
	})

	t.Run("rejects a check-in before today", func(t *testing.T) {
		t.Parallel()
		_, err := booking.Request(booking.RequestParams{
			ID:        "bk-1",
			ListingID: "lst-1",
			RenterID:  "usr-42",
			Range:     mustRange(t, day(12), day(14)),
			Now:       day(20),
		})
		if !errors.Is(err, booking.ErrRangeInPast) {
			t.Fatalf("error = %v, want ErrRangeInPast", err)
		}
	})

	t.Run("accepts a check-in today", func(t *testing.T) {
		t.Parallel()
		_, err := booking.Request(booking.RequestParams{
			ID:        "bk-1",
			ListingID: "lst-1",
			RenterID:  "usr-42",
			Range:     mustRange(t, day(12), day(14)),
			Now:       time.Date(2025, time.June, 12, 23, 50, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
	})
}

func TestDecisionIsFinal(t *testing.T) {
	t.Parallel()

	t.Run("confirm", func(t *testing.T) {
		t.Parallel()
		b := pendingBooking(t)
		if err := b.Confirm(day(6)); err != nil {
			t.Fatalf("Confirm failed: %v", err)
		}
		if b.Status != booking.StatusConfirmed {
			t.Fatalf("status = %q, want confirmed", b.Status)
		}
		if err := b.Confirm(day(7)); !errors.Is(err, booking.ErrInvalidState) {
			t.Fatalf("second Confirm error = %v, want ErrInvalidState", err)
		}
		if err := b.Reject(day(7)); !errors.Is(err, booking.ErrInvalidState) {
			t.Fatalf("Reject after Confirm error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("reject", func(t *testing.T) {
		t.Parallel()
		b := pendingBooking(t)
		if err := b.Reject(day(6)); err != nil {
			t.Fatalf("Reject failed: %v", err)
		}
		if b.Status != booking.StatusRejected {
			t.Fatalf("status = %q, want rejected", b.Status)
		}
		if err := b.Confirm(day(7)); !errors.Is(err, booking.ErrInvalidState) {
			t.Fatalf("Confirm after Reject error = %v, want ErrInvalidState", err)
		}
	})
}

func TestOccupiedDays(t *testing.T) {
	t.Parallel()

	occupied := booking.OccupiedDays([]dates.Range{
		mustRange(t, day(12), day(14)),
		mustRange(t, day(20), day(21)),
	})

	want := []int{12, 13, 20}
	if len(occupied) != len(want) {
		t.Fatalf("occupied %d days, want %d", len(occupied), len(want))
	}
	for _, d := range want {
		if _, ok := occupied[day(d)]; !ok {
			t.Errorf("day %d missing from occupied set", d)
		}
	}
	if _, ok := occupied[day(14)]; ok {
		t.Error("checkout day must not be occupied")
	}
}
