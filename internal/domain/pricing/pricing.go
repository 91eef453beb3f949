package pricing

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/dates"
)

var (
	ErrRuleNotFound = errors.New("pricing: rule not found")
	ErrInvalidRange = errors.New("pricing: start date must not be after end date")
	ErrInvalidPrice = errors.New("pricing: price must be positive")
)

type RuleID string

// Rule overrides the listing's base nightly price for every day in
// [StartDate, EndDate], both ends inclusive. Rules may overlap freely;
// ResolvePrice breaks ties instead of validation forbidding them.
type Rule struct {
	ID        RuleID
	ListingID listings.ListingID
	StartDate time.Time
	EndDate   time.Time
	Price     int64
	CreatedAt time.Time
}

// Covers reports whether the rule applies to day d.
func (r Rule) Covers(d time.Time) bool {
	d = dates.Day(d)
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}

// RuleStore persists price rules. Rules are only added and deleted, never
// mutated in place.
type RuleStore interface {
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]Rule, error)
	ByID(ctx context.Context, id RuleID) (Rule, error)
	Add(ctx context.Context, rule Rule) error
	Delete(ctx context.Context, id RuleID) error
}

// NewRule validates and normalizes a rule. Reversed ranges are rejected
// rather than treated as empty.
func NewRule(id RuleID, listingID listings.ListingID, start, end time.Time, price int64, now time.Time) (Rule, error) {
	start = dates.Day(start)
	end = dates.Day(end)
	if start.After(end) {
		return Rule{}, ErrInvalidRange
	}
	if price <= 0 {
		return Rule{}, ErrInvalidPrice
	}
	return Rule{
		ID:        id,
		ListingID: listingID,
		StartDate: start,
		EndDate:   end,
		Price:     price,
		CreatedAt: now.UTC(),
	}, nil
}

// ResolvePrice returns the nightly price for day d: the covering rule with
// the latest start date wins, so a short surge rule layered over a longer
// seasonal one takes effect without deleting the underlying rule. With no
// covering rule the base price applies.
func ResolvePrice(d time.Time, basePrice int64, rules []Rule) int64 {
	price := basePrice
	var bestStart time.Time
	found := false
	for _, rule := range rules {
		if !rule.Covers(d) {
			continue
		}
		if !found || rule.StartDate.After(bestStart) {
			price = rule.Price
			bestStart = rule.StartDate
			found = true
		}
	}
	return price
}
