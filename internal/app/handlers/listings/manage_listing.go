package listings

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/uow"
	domainlistings "stayhub/internal/domain/listings"
)

const (
	updateListingKey = "listings.update"
	toggleActiveKey  = "listings.toggle_active"
	deleteListingKey = "listings.delete"
	verifyListingKey = "listings.verify"
)

var ErrOwnerRequired = errors.New("listings: owner id is required")

// loadOwned fetches a listing and enforces ownership for mutations.
func loadOwned(ctx context.Context, unit uow.UnitOfWork, listingID, ownerID string) (*domainlistings.Listing, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(listingID))
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(domainlistings.OwnerID(ownerID)) {
		return nil, domainlistings.ErrNotOwned
	}
	return listing, nil
}

// UpdateListingCommand applies a batch of explicit field edits.
type UpdateListingCommand struct {
	ListingID string
	OwnerID   string
	Edits     []domainlistings.FieldEdit
}

func (c UpdateListingCommand) Key() string { return updateListingKey }

type UpdateListingResult struct {
	Status string `json:"status"`
}

type UpdateListingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *UpdateListingHandler) Handle(ctx context.Context, cmd UpdateListingCommand) (*UpdateListingResult, error) {
	return mutate(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) (*UpdateListingResult, error) {
		listing, err := loadOwned(ctx, unit, cmd.ListingID, cmd.OwnerID)
		if err != nil {
			return nil, err
		}
		if err := listing.ApplyEdits(cmd.Edits, time.Now()); err != nil {
			return nil, err
		}
		if err := unit.Listings().Save(ctx, listing); err != nil {
			return nil, err
		}
		return &UpdateListingResult{Status: "ok"}, nil
	})
}

// ToggleActiveCommand flips search visibility and reports the new state.
type ToggleActiveCommand struct {
	ListingID string
	OwnerID   string
}

func (c ToggleActiveCommand) Key() string { return toggleActiveKey }

type ToggleActiveResult struct {
	Active bool `json:"is_active"`
}

type ToggleActiveHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ToggleActiveHandler) Handle(ctx context.Context, cmd ToggleActiveCommand) (*ToggleActiveResult, error) {
	return mutate(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) (*ToggleActiveResult, error) {
		listing, err := loadOwned(ctx, unit, cmd.ListingID, cmd.OwnerID)
		if err != nil {
			return nil, err
		}
		active := listing.ToggleActive(time.Now())
		if err := unit.Listings().Save(ctx, listing); err != nil {
			return nil, err
		}
		return &ToggleActiveResult{Active: active}, nil
	})
}

type DeleteListingCommand struct {
	ListingID string
	OwnerID   string
}

func (c DeleteListingCommand) Key() string { return deleteListingKey }

type DeleteListingResult struct {
	Status string `json:"status"`
}

type DeleteListingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *DeleteListingHandler) Handle(ctx context.Context, cmd DeleteListingCommand) (*DeleteListingResult, error) {
	return mutate(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) (*DeleteListingResult, error) {
		if _, err := loadOwned(ctx, unit, cmd.ListingID, cmd.OwnerID); err != nil {
			return nil, err
		}
		if err := unit.Listings().Delete(ctx, domainlistings.ListingID(cmd.ListingID)); err != nil {
			return nil, err
		}
		return &DeleteListingResult{Status: "ok"}, nil
	})
}

// VerifyListingCommand is an admin action; ownership is not checked.
type VerifyListingCommand struct {
	ListingID string
	Verified  bool
}

func (c VerifyListingCommand) Key() string { return verifyListingKey }

type VerifyListingResult struct {
	Status string `json:"status"`
}

type VerifyListingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *VerifyListingHandler) Handle(ctx context.Context, cmd VerifyListingCommand) (*VerifyListingResult, error) {
	return mutate(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) (*VerifyListingResult, error) {
		listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
		if err != nil {
			return nil, err
		}
		listing.SetVerified(cmd.Verified, time.Now())
		if err := unit.Listings().Save(ctx, listing); err != nil {
			return nil, err
		}
		return &VerifyListingResult{Status: "ok"}, nil
	})
}

// mutate runs fn inside a unit of work, reusing one from context when the
// transaction middleware already opened it.
func mutate[R any](ctx context.Context, factory uow.UoWFactory, fn func(context.Context, uow.UnitOfWork) (R, error)) (R, error) {
	var zero R
	unit, ok := uow.FromContext(ctx)
	if ok {
		return fn(ctx, unit)
	}
	if factory == nil {
		return zero, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return zero, err
	}
	ctx = uow.ContextWithUnitOfWork(ctx, unit)
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()
	res, err := fn(ctx, unit)
	if err != nil {
		return zero, err
	}
	if err := unit.Commit(ctx); err != nil {
		return zero, err
	}
	committed = true
	return res, nil
}

var (
	_ commands.Handler[UpdateListingCommand, *UpdateListingResult] = (*UpdateListingHandler)(nil)
	_ commands.Handler[ToggleActiveCommand, *ToggleActiveResult]   = (*ToggleActiveHandler)(nil)
	_ commands.Handler[DeleteListingCommand, *DeleteListingResult] = (*DeleteListingHandler)(nil)
	_ commands.Handler[VerifyListingCommand, *VerifyListingResult] = (*VerifyListingHandler)(nil)
)
