package availability

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/uow"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/dates"
)

const setBlocksKey = "availability.set_blocks"

var ErrNoDates = errors.New("availability: at least one date is required")

// SetBlocksCommand blocks or unblocks a set of days for a listing. Blocking
// an already-blocked day overwrites its comment; unblocking an unblocked day
// is a no-op. Days occupied by a confirmed booking reject the whole command.
type SetBlocksCommand struct {
	CommandID string
	ListingID string
	Dates     []time.Time
	Blocked   bool
	Comment   string
	Now       time.Time
}

func (c SetBlocksCommand) Key() string { return setBlocksKey }

type SetBlocksResult struct {
	Status string `json:"status"`
}

type SetBlocksHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SetBlocksHandler) Handle(ctx context.Context, cmd SetBlocksCommand) (*SetBlocksResult, error) {
	if len(cmd.Dates) == 0 {
		return nil, ErrNoDates
	}

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

	listingID := domainlistings.ListingID(cmd.ListingID)
	if _, err := unit.Listings().ByID(ctx, listingID); err != nil {
		return nil, err
	}

	// Every requested day is checked against confirmed bookings before any
	// write so a conflict leaves the block store untouched. The check and the
	// writes are not one transaction; with manual owner actions the window is
	// accepted as best effort.
	confirmed, err := unit.Bookings().ConfirmedRanges(ctx, listingID)
	if err != nil {
		return nil, err
	}
	occupied := domainbooking.OccupiedDays(confirmed)
	targets := make([]time.Time, 0, len(cmd.Dates))
	for _, raw := range cmd.Dates {
		d := dates.Day(raw)
		if _, booked := occupied[d]; booked {
			return nil, domainavailability.ErrDateBooked
		}
		targets = append(targets, d)
	}

	now := cmd.Now
	if now.IsZero() {
		now = time.Now()
	}
	for _, d := range targets {
		if cmd.Blocked {
			block := domainavailability.NewBlock(listingID, d, cmd.Comment, now)
			if err := unit.Blocks().Upsert(ctx, block); err != nil {
				return nil, err
			}
		} else {
			if err := unit.Blocks().Remove(ctx, listingID, d); err != nil {
				return nil, err
			}
		}
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &SetBlocksResult{Status: "ok"}, nil
}

var _ commands.Handler[SetBlocksCommand, *SetBlocksResult] = (*SetBlocksHandler)(nil)
