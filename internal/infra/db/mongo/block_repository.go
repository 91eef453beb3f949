package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "stayhub/internal/domain/availability"
	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/dates"
)

// BlockRepository keys documents by listing+day so Upsert is naturally
// idempotent.
type BlockRepository struct {
	col *mongo.Collection
}

func NewBlockRepository(db *mongo.Database) *BlockRepository {
	col := db.Collection("manual_blocks")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &BlockRepository{col: col}
}

func (r *BlockRepository) ListByListing(ctx context.Context, listingID listings.ListingID) ([]domainavailability.ManualBlock, error) {
	cur, err := r.col.Find(ctx, bson.M{"listing_id": string(listingID)})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domainavailability.ManualBlock
	for cur.Next(ctx) {
		var doc blockDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toBlock())
	}
	return out, cur.Err()
}

func (r *BlockRepository) Upsert(ctx context.Context, block domainavailability.ManualBlock) error {
	doc := newBlockDocument(block)
	filter := bson.M{"listing_id": doc.ListingID, "date": doc.Date}
	update := bson.M{
		"$set":         bson.M{"comment": doc.Comment},
		"$setOnInsert": bson.M{"created_at": doc.CreatedAt},
	}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *BlockRepository) Remove(ctx context.Context, listingID listings.ListingID, date time.Time) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"listing_id": string(listingID), "date": dates.Day(date).UnixMilli()})
	return err
}

type blockDocument struct {
	ListingID string `bson:"listing_id"`
	Date      int64  `bson:"date"`
	Comment   string `bson:"comment"`
	CreatedAt int64  `bson:"created_at"`
}

func newBlockDocument(b domainavailability.ManualBlock) blockDocument {
	return blockDocument{
		ListingID: string(b.ListingID),
		Date:      dates.Day(b.Date).UnixMilli(),
		Comment:   b.Comment,
		CreatedAt: b.CreatedAt.UnixMilli(),
	}
}

func (d blockDocument) toBlock() domainavailability.ManualBlock {
	return domainavailability.ManualBlock{
		ListingID: listings.ListingID(d.ListingID),
		Date:      dayFromMillis(d.Date),
		Comment:   d.Comment,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}
