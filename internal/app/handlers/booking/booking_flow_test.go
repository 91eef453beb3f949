package booking_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	bookingapp "stayhub/internal/app/handlers/booking"
	apptasks "stayhub/internal/app/tasks"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/dates"
	"stayhub/internal/infra/storage/memory"
)

type fixture struct {
	factory  memory.Factory
	listings *memory.ListingRepository
	bookings *memory.BookingRepository
	outbox   *memory.Outbox
	tasks    *memory.TaskQueue
}

func newFixture() fixture {
	f := fixture{
		listings: memory.NewListingRepository(),
		bookings: memory.NewBookingRepository(),
		outbox:   memory.NewOutbox(),
		tasks:    memory.NewTaskQueue(),
	}
	f.factory = memory.Factory{
		ListingsRepo: f.listings,
		BookingsRepo: f.bookings,
		BlocksRepo:   memory.NewBlockStore(),
		RulesRepo:    memory.NewRuleStore(),
		ReviewsRepo:  memory.NewReviewRepository(),
		UsersRepo:    memory.NewUserRepository(),
		SessionsRepo: memory.NewSessionStore(),
	}
	return f
}

func (f fixture) seedListing(t *testing.T, id, owner string) {
	t.Helper()
	listing, err := domainlistings.New(domainlistings.CreateParams{
		ID:           domainlistings.ListingID(id),
		Owner:        domainlistings.OwnerID(owner),
		Title:        "Two-room flat",
		District:     "North",
		Address:      "River st 12",
		GuestsLimit:  4,
		NightlyPrice: 5000,
		Now:          time.Now(),
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	listing.ClearEvents()
	if err := f.listings.Save(context.Background(), listing); err != nil {
		t.Fatalf("save listing: %v", err)
	}
}

func futureDay(days int) time.Time {
	return dates.Day(time.Now().AddDate(0, 0, days))
}

func TestRequestBookingHandler(t *testing.T) {
	t.Parallel()

	t.Run("files a pending booking", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", "owner-1")
		handler := &bookingapp.RequestBookingHandler{UoWFactory: f.factory, Outbox: f.outbox}

		result, err := handler.Handle(context.Background(), bookingapp.RequestBookingCommand{
			CommandID: "cmd-1",
			ListingID: "lst-1",
			RenterID:  "renter-1",
			CheckIn:   futureDay(10),
			CheckOut:  futureDay(12),
		})
		if err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
		if result.BookingID != "cmd-1" {
			t.Fatalf("booking id = %q, want the command id", result.BookingID)
		}

		stored, err := f.bookings.ByID(context.Background(), "cmd-1")
		if err != nil {
			t.Fatalf("stored booking missing: %v", err)
		}
		if stored.Status != domainbooking.StatusPending {
			t.Fatalf("status = %q, want pending", stored.Status)
		}

		events := f.outbox.Pending()
		if len(events) != 1 || events[0].Name != "booking.requested" {
			t.Fatalf("outbox = %+v, want one booking.requested record", events)
		}
		if events[0].Aggregate != "cmd-1" {
			t.Fatalf("event aggregate = %q, want the booking id", events[0].Aggregate)
		}
	})

	t.Run("rejects a past check-in", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", "owner-1")
		handler := &bookingapp.RequestBookingHandler{UoWFactory: f.factory, Outbox: f.outbox}

		_, err := handler.Handle(context.Background(), bookingapp.RequestBookingCommand{
			CommandID: "cmd-1",
			ListingID: "lst-1",
			RenterID:  "renter-1",
			CheckIn:   futureDay(-3),
			CheckOut:  futureDay(2),
		})
		if !errors.Is(err, domainbooking.ErrRangeInPast) {
			t.Fatalf("error = %v, want ErrRangeInPast", err)
		}
	})

	t.Run("rejects a reversed range", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", "owner-1")
		handler := &bookingapp.RequestBookingHandler{UoWFactory: f.factory, Outbox: f.outbox}

		_, err := handler.Handle(context.Background(), bookingapp.RequestBookingCommand{
			CommandID: "cmd-1",
			ListingID: "lst-1",
			RenterID:  "renter-1",
			CheckIn:   futureDay(12),
			CheckOut:  futureDay(10),
		})
		if !errors.Is(err, dates.ErrInvalidRange) {
			t.Fatalf("error = %v, want ErrInvalidRange", err)
		}
	})

	t.Run("unknown listing", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		handler := &bookingapp.RequestBookingHandler{UoWFactory: f.factory, Outbox: f.outbox}

		_, err := handler.Handle(context.Background(), bookingapp.RequestBookingCommand{
			CommandID: "cmd-1",
			ListingID: "missing",
			RenterID:  "renter-1",
			CheckIn:   futureDay(10),
			CheckOut:  futureDay(12),
		})
		if !errors.Is(err, domainlistings.ErrListingNotFound) {
			t.Fatalf("error = %v, want ErrListingNotFound", err)
		}
	})
}

func TestDecideBookingHandler(t *testing.T) {
	t.Parallel()

	request := func(t *testing.T, f fixture) string {
		t.Helper()
		handler := &bookingapp.RequestBookingHandler{UoWFactory: f.factory, Outbox: f.outbox}
		result, err := handler.Handle(context.Background(), bookingapp.RequestBookingCommand{
			CommandID: "cmd-1",
			ListingID: "lst-1",
			RenterID:  "renter-1",
			CheckIn:   futureDay(10),
			CheckOut:  futureDay(12),
		})
		if err != nil {
			t.Fatalf("request booking: %v", err)
		}
		return result.BookingID
	}

	t.Run("confirm schedules a review request at checkout", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", "owner-1")
		bookingID := request(t, f)

		handler := &bookingapp.DecideBookingHandler{UoWFactory: f.factory, Outbox: f.outbox, Tasks: f.tasks}
		result, err := handler.Handle(context.Background(), bookingapp.DecideBookingCommand{
			BookingID: bookingID,
			OwnerID:   "owner-1",
			Confirm:   true,
		})
		if err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
		if result.Status != string(domainbooking.StatusConfirmed) {
			t.Fatalf("status = %q, want confirmed", result.Status)
		}

		// Not due before checkout.
		if task, err := f.tasks.Claim(context.Background(), futureDay(11)); err != nil || task != nil {
			t.Fatalf("Claim before due = (%v, %v), want (nil, nil)", task, err)
		}
		task, err := f.tasks.Claim(context.Background(), futureDay(12))
		if err != nil {
			t.Fatalf("Claim failed: %v", err)
		}
		if task == nil {
			t.Fatal("confirm must enqueue a review request task")
		}
		if task.Kind != apptasks.KindReviewRequest {
			t.Fatalf("task kind = %q", task.Kind)
		}
		var payload apptasks.ReviewRequestPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if payload.BookingID != bookingID || payload.RenterID != "renter-1" {
			t.Fatalf("payload = %+v", payload)
		}
	})

	t.Run("reject does not schedule a task", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", "owner-1")
		bookingID := request(t, f)

		handler := &bookingapp.DecideBookingHandler{UoWFactory: f.factory, Outbox: f.outbox, Tasks: f.tasks}
		result, err := handler.Handle(context.Background(), bookingapp.DecideBookingCommand{
			BookingID: bookingID,
			OwnerID:   "owner-1",
			Confirm:   false,
		})
		if err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
		if result.Status != string(domainbooking.StatusRejected) {
			t.Fatalf("status = %q, want rejected", result.Status)
		}
		if task, _ := f.tasks.Claim(context.Background(), futureDay(100)); task != nil {
			t.Fatal("reject must not enqueue a task")
		}
	})

	t.Run("decision is one-shot", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", "owner-1")
		bookingID := request(t, f)

		handler := &bookingapp.DecideBookingHandler{UoWFactory: f.factory, Outbox: f.outbox, Tasks: f.tasks}
		if _, err := handler.Handle(context.Background(), bookingapp.DecideBookingCommand{
			BookingID: bookingID,
			OwnerID:   "owner-1",
			Confirm:   true,
		}); err != nil {
			t.Fatalf("first decision failed: %v", err)
		}
		_, err := handler.Handle(context.Background(), bookingapp.DecideBookingCommand{
			BookingID: bookingID,
			OwnerID:   "owner-1",
			Confirm:   false,
		})
		if !errors.Is(err, domainbooking.ErrInvalidState) {
			t.Fatalf("second decision error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("only the listing owner decides", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", "owner-1")
		bookingID := request(t, f)

		handler := &bookingapp.DecideBookingHandler{UoWFactory: f.factory, Outbox: f.outbox, Tasks: f.tasks}
		_, err := handler.Handle(context.Background(), bookingapp.DecideBookingCommand{
			BookingID: bookingID,
			OwnerID:   "intruder",
			Confirm:   true,
		})
		if !errors.Is(err, domainlistings.ErrNotOwned) {
			t.Fatalf("error = %v, want ErrNotOwned", err)
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.seedListing(t, "lst-1", "owner-1")
		handler := &bookingapp.DecideBookingHandler{UoWFactory: f.factory, Outbox: f.outbox, Tasks: f.tasks}

		_, err := handler.Handle(context.Background(), bookingapp.DecideBookingCommand{
			BookingID: "missing",
			OwnerID:   "owner-1",
			Confirm:   true,
		})
		if !errors.Is(err, domainbooking.ErrBookingNotFound) {
			t.Fatalf("error = %v, want ErrBookingNotFound", err)
		}
	})
}
