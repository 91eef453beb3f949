package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "stayhub/internal/domain/listings"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("agg_listing")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrListingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, l *domainlistings.Listing) error {
	doc := newListingDocument(l)
	filter := bson.M{"_id": doc.ID, "version": l.Version}
	doc.Version = l.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	l.Version = doc.Version
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlistings.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) ByOwner(ctx context.Context, owner domainlistings.OwnerID) ([]*domainlistings.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.list(ctx, bson.M{"owner_id": string(owner)}, opts)
}

func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) ([]*domainlistings.Listing, error) {
	params = params.Normalized()
	filter := bson.M{}
	if params.OnlyActive {
		filter["is_active"] = true
	}
	if len(params.Districts) > 0 {
		filter["district"] = bson.M{"$in": params.Districts}
	}
	if params.MaxPrice > 0 {
		filter["nightly_price"] = bson.M{"$lte": params.MaxPrice}
	}
	if params.MinGuests > 0 {
		filter["guests_limit"] = bson.M{"$gte": params.MinGuests}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(params.Limit)).
		SetSkip(int64(params.Offset))
	return r.list(ctx, filter, opts)
}

func (r *ListingRepository) OwnerSummary(ctx context.Context, owner domainlistings.OwnerID) (domainlistings.OwnerSummary, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{"owner_id": string(owner)})
	if err != nil {
		return domainlistings.OwnerSummary{}, err
	}
	active, err := r.col.CountDocuments(ctx, bson.M{"owner_id": string(owner), "is_active": true})
	if err != nil {
		return domainlistings.OwnerSummary{}, err
	}
	return domainlistings.OwnerSummary{Total: int(total), Active: int(active)}, nil
}

func (r *ListingRepository) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainlistings.Listing, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainlistings.Listing
	for cur.Next(ctx) {
		var doc listingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type listingDocument struct {
	ID           string   `bson:"_id"`
	OwnerID      string   `bson:"owner_id"`
	Title        string   `bson:"title"`
	Description  string   `bson:"description"`
	District     string   `bson:"district"`
	Address      string   `bson:"address"`
	Rooms        int      `bson:"rooms"`
	GuestsLimit  int      `bson:"guests_limit"`
	PropertyType string   `bson:"property_type"`
	NightlyPrice int64    `bson:"nightly_price"`
	Verified     bool     `bson:"is_verified"`
	Active       bool     `bson:"is_active"`
	Photos       []string `bson:"photos"`
	VideoNoteURL string   `bson:"video_note_url"`
	CreatedAt    int64    `bson:"created_at"`
	UpdatedAt    int64    `bson:"updated_at"`
	Version      int64    `bson:"version"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:           string(l.ID),
		OwnerID:      string(l.Owner),
		Title:        l.Title,
		Description:  l.Description,
		District:     l.District,
		Address:      l.Address,
		Rooms:        l.Rooms,
		GuestsLimit:  l.GuestsLimit,
		PropertyType: l.PropertyType,
		NightlyPrice: l.NightlyPrice,
		Verified:     l.Verified,
		Active:       l.Active,
		Photos:       l.Photos,
		VideoNoteURL: l.VideoNoteURL,
		CreatedAt:    l.CreatedAt.UnixMilli(),
		UpdatedAt:    l.UpdatedAt.UnixMilli(),
		Version:      l.Version,
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:           domainlistings.ListingID(d.ID),
		Owner:        domainlistings.OwnerID(d.OwnerID),
		Title:        d.Title,
		Description:  d.Description,
		District:     d.District,
		Address:      d.Address,
		Rooms:        d.Rooms,
		GuestsLimit:  d.GuestsLimit,
		PropertyType: d.PropertyType,
		NightlyPrice: d.NightlyPrice,
		Verified:     d.Verified,
		Active:       d.Active,
		Photos:       d.Photos,
		VideoNoteURL: d.VideoNoteURL,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
		Version:      d.Version,
	}
}
