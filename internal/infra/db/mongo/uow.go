package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayhub/internal/app/uow"
	domainauth "stayhub/internal/domain/auth"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainpricing "stayhub/internal/domain/pricing"
	domainreviews "stayhub/internal/domain/reviews"
	domainuser "stayhub/internal/domain/user"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	ListingsRepo domainlistings.Repository
	BookingsRepo domainbooking.Repository
	BlocksRepo   domainavailability.BlockStore
	RulesRepo    domainpricing.RuleStore
	ReviewsRepo  domainreviews.Repository
	UsersRepo    domainuser.Repository
	SessionsRepo domainauth.SessionStore
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:       f.DB,
		session:  session,
		listings: f.ListingsRepo,
		bookings: f.BookingsRepo,
		blocks:   f.BlocksRepo,
		rules:    f.RulesRepo,
		reviews:  f.ReviewsRepo,
		users:    f.UsersRepo,
		sessions: f.SessionsRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

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

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
