package listings

import (
	"context"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/uow"
	domainlistings "stayhub/internal/domain/listings"
)

const createListingKey = "listings.create"

type CreateListingCommand struct {
	CommandID    string
	OwnerID      string
	Title        string
	Description  string
	District     string
	Address      string
	Rooms        int
	GuestsLimit  int
	PropertyType string
	NightlyPrice int64
}

func (c CreateListingCommand) Key() string { return createListingKey }

type CreateListingResult struct {
	ListingID string `json:"listing_id"`
}

type CreateListingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*CreateListingResult, error) {
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

	listing, err := domainlistings.New(domainlistings.CreateParams{
		ID:           domainlistings.ListingID(cmd.CommandID),
		Owner:        domainlistings.OwnerID(cmd.OwnerID),
		Title:        cmd.Title,
		Description:  cmd.Description,
		District:     cmd.District,
		Address:      cmd.Address,
		Rooms:        cmd.Rooms,
		GuestsLimit:  cmd.GuestsLimit,
		PropertyType: cmd.PropertyType,
		NightlyPrice: cmd.NightlyPrice,
		Now:          time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}

	pending := listing.PendingEvents()
	listing.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.enc(), pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &CreateListingResult{ListingID: string(listing.ID)}, nil
}

func (h *CreateListingHandler) enc() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CreateListingCommand, *CreateListingResult] = (*CreateListingHandler)(nil)
