package listings

import "time"

type ListingCreated struct {
	ListingID ListingID `json:"listing_id"`
	Owner     OwnerID   `json:"owner_id"`
	District  string    `json:"district"`
	At        time.Time `json:"at"`
}

func (e ListingCreated) EventName() string     { return "listings.created" }
func (e ListingCreated) AggregateID() string   { return string(e.ListingID) }
func (e ListingCreated) OccurredAt() time.Time { return e.At }

type ListingUpdated struct {
	ListingID ListingID `json:"listing_id"`
	At        time.Time `json:"at"`
}

func (e ListingUpdated) EventName() string     { return "listings.updated" }
func (e ListingUpdated) AggregateID() string   { return string(e.ListingID) }
func (e ListingUpdated) OccurredAt() time.Time { return e.At }

type ListingVerified struct {
	ListingID ListingID `json:"listing_id"`
	At        time.Time `json:"at"`
}

func (e ListingVerified) EventName() string     { return "listings.verified" }
func (e ListingVerified) AggregateID() string   { return string(e.ListingID) }
func (e ListingVerified) OccurredAt() time.Time { return e.At }

type ListingActivityToggled struct {
	ListingID ListingID `json:"listing_id"`
	Active    bool      `json:"active"`
	At        time.Time `json:"at"`
}

func (e ListingActivityToggled) EventName() string     { return "listings.activity_toggled" }
func (e ListingActivityToggled) AggregateID() string   { return string(e.ListingID) }
func (e ListingActivityToggled) OccurredAt() time.Time { return e.At }
