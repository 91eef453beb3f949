package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/tasks"
	"stayhub/internal/app/uow"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
)

const decideBookingKey = "booking.decide"

// DecideBookingCommand records the owner's one-time decision on a pending
// booking. Confirming also schedules a review request due at checkout.
type DecideBookingCommand struct {
	BookingID string
	OwnerID   string
	Confirm   bool
	Now       time.Time
}

func (c DecideBookingCommand) Key() string { return decideBookingKey }

type DecideBookingResult struct {
	Status string `json:"status"`
}

type DecideBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Tasks      tasks.Queue
}

func (h *DecideBookingHandler) Handle(ctx context.Context, cmd DecideBookingCommand) (*DecideBookingResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	bk, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	listing, err := unit.Listings().ByID(ctx, bk.ListingID)
	if err != nil {
		return nil, err
	}
	if cmd.OwnerID != "" && !listing.OwnedBy(domainlistings.OwnerID(cmd.OwnerID)) {
		return nil, domainlistings.ErrNotOwned
	}

	now := cmd.Now
	if now.IsZero() {
		now = time.Now()
	}
	if cmd.Confirm {
		if err := bk.Confirm(now); err != nil {
			return nil, err
		}
	} else {
		if err := bk.Reject(now); err != nil {
			return nil, err
		}
	}
	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}

	if cmd.Confirm && h.Tasks != nil {
		task, err := tasks.NewReviewRequest(uuid.NewString(), tasks.ReviewRequestPayload{
			BookingID:    string(bk.ID),
			RenterID:     bk.RenterID,
			ListingTitle: listing.Title,
		}, bk.Range.End, now)
		if err != nil {
			return nil, err
		}
		if err := h.Tasks.Enqueue(ctx, task); err != nil {
			return nil, err
		}
	}

	pending := bk.PendingEvents()
	bk.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &DecideBookingResult{Status: string(bk.Status)}, nil
}

func (h *DecideBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[DecideBookingCommand, *DecideBookingResult] = (*DecideBookingHandler)(nil)
