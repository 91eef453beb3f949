package memory

import (
	"context"
	"errors"

	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainpricing "stayhub/internal/domain/pricing"
	domainreviews "stayhub/internal/domain/reviews"
	domainuser "stayhub/internal/domain/user"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	ListingsRepo domainlistings.Repository
	BookingsRepo domainbooking.Repository
	BlocksRepo   domainavailability.BlockStore
	RulesRepo    domainpricing.RuleStore
	ReviewsRepo  domainreviews.Repository
	UsersRepo    domainuser.Repository
	SessionsRepo domainauth.SessionStore
}

// NewFactory builds a factory with fresh empty stores.
func NewFactory() Factory {
	return Factory{
		ListingsRepo: NewListingRepository(),
		BookingsRepo: NewBookingRepository(),
		BlocksRepo:   NewBlockStore(),
		RulesRepo:    NewRuleStore(),
		ReviewsRepo:  NewReviewRepository(),
		UsersRepo:    NewUserRepository(),
		SessionsRepo: NewSessionStore(),
	}
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided but
// the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.ListingsRepo == nil || f.BookingsRepo == nil || f.BlocksRepo == nil || f.RulesRepo == nil || f.ReviewsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		listings: f.ListingsRepo,
		bookings: f.BookingsRepo,
		blocks:   f.BlocksRepo,
		rules:    f.RulesRepo,
		reviews:  f.ReviewsRepo,
		users:    f.UsersRepo,
		sessions: f.SessionsRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	listings domainlistings.Repository
	bookings domainbooking.Repository
	blocks   domainavailability.BlockStore
	rules    domainpricing.RuleStore
	reviews  domainreviews.Repository
	users    domainuser.Repository
	sessions domainauth.SessionStore
}

func (u *Unit) Listings() domainlistings.Repository   { return u.listings }
func (u *Unit) Bookings() domainbooking.Repository    { return u.bookings }
func (u *Unit) Blocks() domainavailability.BlockStore { return u.blocks }
func (u *Unit) PriceRules() domainpricing.RuleStore   { return u.rules }
func (u *Unit) Reviews() domainreviews.Repository     { return u.reviews }
func (u *Unit) Users() domainuser.Repository          { return u.users }
func (u *Unit) Sessions() domainauth.SessionStore     { return u.sessions }

func (u *Unit) Commit(ctx context.Context) error   { return nil }
func (u *Unit) Rollback(ctx context.Context) error { return nil }
