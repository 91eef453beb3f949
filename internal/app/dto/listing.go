package dto

import (
	"time"

	"stayhub/internal/domain/listings"
)

type Listing struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	District     string    `json:"district"`
	Address      string    `json:"address"`
	Rooms        int       `json:"rooms"`
	GuestsLimit  int       `json:"max_guests"`
	PropertyType string    `json:"property_type"`
	NightlyPrice int64     `json:"price_per_night"`
	Verified     bool      `json:"is_verified"`
	Active       bool      `json:"is_active"`
	Photos       []string  `json:"photos,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func MapListing(l *listings.Listing) Listing {
	if l == nil {
		return Listing{}
	}
	return Listing{
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
		Photos:       append([]string(nil), l.Photos...),
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func MapListings(items []*listings.Listing) []Listing {
	out := make([]Listing, 0, len(items))
	for _, l := range items {
		out = append(out, MapListing(l))
	}
	return out
}

type OwnerSummary struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}
