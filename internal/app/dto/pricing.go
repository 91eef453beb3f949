package dto

import (
	"stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/dates"
)

type PriceRule struct {
	ID        string `json:"id"`
	ListingID string `json:"listing_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Price     int64  `json:"price"`
}

func MapPriceRule(r pricing.Rule) PriceRule {
	return PriceRule{
		ID:        string(r.ID),
		ListingID: string(r.ListingID),
		StartDate: dates.Format(r.StartDate),
		EndDate:   dates.Format(r.EndDate),
		Price:     r.Price,
	}
}

func MapPriceRules(rules []pricing.Rule) []PriceRule {
	out := make([]PriceRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, MapPriceRule(r))
	}
	return out
}
