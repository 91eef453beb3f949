package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"stayhub/internal/domain/listings"
	domainpricing "stayhub/internal/domain/pricing"
)

type PriceRuleRepository struct {
	col *mongo.Collection
}

func NewPriceRuleRepository(db *mongo.Database) *PriceRuleRepository {
	col := db.Collection("price_rules")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "start_date", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &PriceRuleRepository{col: col}
}

func (r *PriceRuleRepository) ListByListing(ctx context.Context, listingID listings.ListingID) ([]domainpricing.Rule, error) {
	cur, err := r.col.Find(ctx, bson.M{"listing_id": string(listingID)})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domainpricing.Rule
	for cur.Next(ctx) {
		var doc priceRuleDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toRule())
	}
	return out, cur.Err()
}

func (r *PriceRuleRepository) ByID(ctx context.Context, id domainpricing.RuleID) (domainpricing.Rule, error) {
	var doc priceRuleDocument
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainpricing.Rule{}, domainpricing.ErrRuleNotFound
		}
		return domainpricing.Rule{}, err
	}
	return doc.toRule(), nil
}

func (r *PriceRuleRepository) Add(ctx context.Context, rule domainpricing.Rule) error {
	_, err := r.col.InsertOne(ctx, newPriceRuleDocument(rule))
	return err
}

func (r *PriceRuleRepository) Delete(ctx context.Context, id domainpricing.RuleID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainpricing.ErrRuleNotFound
		}
		return err
	}
	if res.DeletedCount == 0 {
		return domainpricing.ErrRuleNotFound
	}
	return nil
}

type priceRuleDocument struct {
	ID        string `bson:"_id"`
	ListingID string `bson:"listing_id"`
	StartDate int64  `bson:"start_date"`
	EndDate   int64  `bson:"end_date"`
	Price     int64  `bson:"price"`
	CreatedAt int64  `bson:"created_at"`
}

func newPriceRuleDocument(rule domainpricing.Rule) priceRuleDocument {
	return priceRuleDocument{
		ID:        string(rule.ID),
		ListingID: string(rule.ListingID),
		StartDate: rule.StartDate.UnixMilli(),
		EndDate:   rule.EndDate.UnixMilli(),
		Price:     rule.Price,
		CreatedAt: rule.CreatedAt.UnixMilli(),
	}
}

func (d priceRuleDocument) toRule() domainpricing.Rule {
	return domainpricing.Rule{
		ID:        domainpricing.RuleID(d.ID),
		ListingID: listings.ListingID(d.ListingID),
		StartDate: dayFromMillis(d.StartDate),
		EndDate:   dayFromMillis(d.EndDate),
		Price:     d.Price,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}
