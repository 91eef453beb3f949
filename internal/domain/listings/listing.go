package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/shared/events"
)

var (
	ErrListingNotFound  = errors.New("listings: not found")
	ErrTitleRequired    = errors.New("listings: title is required")
	ErrAddressRequired  = errors.New("listings: address is required")
	ErrDistrictRequired = errors.New("listings: district is required")
	ErrNightlyPrice     = errors.New("listings: nightly price must be positive")
	ErrGuestsLimit      = errors.New("listings: max guests must be at least 1")
	ErrRoomsNegative    = errors.New("listings: rooms must be >= 0")
	ErrNotOwned         = errors.New("listings: listing belongs to another owner")
)

type ListingID string

type OwnerID string

// Listing is a rentable property. NightlyPrice is the base rate in whole
// currency units; price rules layer date-ranged overrides on top of it.
type Listing struct {
	ID           ListingID
	Owner        OwnerID
	Title        string
	Description  string
	District     string
	Address      string
	Rooms        int // 0 means studio
	GuestsLimit  int
	PropertyType string
	NightlyPrice int64
	Verified     bool
	Active       bool
	Photos       []string
	VideoNoteURL string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
	events.Recorder
}

type OwnerSummary struct {
	Total  int
	Active int
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id ListingID) error
	ByOwner(ctx context.Context, owner OwnerID) ([]*Listing, error)
	Search(ctx context.Context, params SearchParams) ([]*Listing, error)
	OwnerSummary(ctx context.Context, owner OwnerID) (OwnerSummary, error)
}

type CreateParams struct {
	ID           ListingID
	Owner        OwnerID
	Title        string
	Description  string
	District     string
	Address      string
	Rooms        int
	GuestsLimit  int
	PropertyType string
	NightlyPrice int64
	Photos       []string
	Now          time.Time
}

func New(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("listings: id is required")
	}
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, errors.New("listings: owner is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.Address) == "" {
		return nil, ErrAddressRequired
	}
	if strings.TrimSpace(params.District) == "" {
		return nil, ErrDistrictRequired
	}
	if params.NightlyPrice <= 0 {
		return nil, ErrNightlyPrice
	}
	if params.GuestsLimit < 1 {
		return nil, ErrGuestsLimit
	}
	if params.Rooms < 0 {
		return nil, ErrRoomsNegative
	}
	now := params.Now.UTC()
	l := &Listing{
		ID:           params.ID,
		Owner:        params.Owner,
		Title:        strings.TrimSpace(params.Title),
		Description:  strings.TrimSpace(params.Description),
		District:     strings.TrimSpace(params.District),
		Address:      strings.TrimSpace(params.Address),
		Rooms:        params.Rooms,
		GuestsLimit:  params.GuestsLimit,
		PropertyType: strings.TrimSpace(params.PropertyType),
		NightlyPrice: params.NightlyPrice,
		Active:       true,
		Photos:       append([]string(nil), params.Photos...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	l.Record(ListingCreated{ListingID: l.ID, Owner: l.Owner, District: l.District, At: now})
	return l, nil
}

// OwnedBy guards owner-only mutations.
func (l *Listing) OwnedBy(owner OwnerID) bool {
	return l.Owner == owner
}

func (l *Listing) SetVerified(verified bool, now time.Time) {
	l.Verified = verified
	l.touch(now)
	if verified {
		l.Record(ListingVerified{ListingID: l.ID, At: l.UpdatedAt})
	}
}

// ToggleActive flips visibility in search and returns the new state.
func (l *Listing) ToggleActive(now time.Time) bool {
	l.Active = !l.Active
	l.touch(now)
	l.Record(ListingActivityToggled{ListingID: l.ID, Active: l.Active, At: l.UpdatedAt})
	return l.Active
}

func (l *Listing) AddPhoto(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	l.Photos = append(l.Photos, url)
	l.touch(now)
}

func (l *Listing) touch(now time.Time) {
	l.UpdatedAt = now.UTC()
}
