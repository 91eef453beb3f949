package listings

import (
	"errors"
	"strings"
	"time"
)

// FieldEdit is one explicit, validated change to a listing. Each editable
// field has its own variant instead of a string-keyed dispatch, so invalid
// values are rejected before anything touches storage.
type FieldEdit interface {
	Apply(l *Listing) error
}

type EditTitle struct{ Value string }

func (e EditTitle) Apply(l *Listing) error {
	v := strings.TrimSpace(e.Value)
	if v == "" {
		return ErrTitleRequired
	}
	l.Title = v
	return nil
}

type EditDescription struct{ Value string }

func (e EditDescription) Apply(l *Listing) error {
	l.Description = strings.TrimSpace(e.Value)
	return nil
}

type EditAddress struct{ Value string }

func (e EditAddress) Apply(l *Listing) error {
	v := strings.TrimSpace(e.Value)
	if v == "" {
		return ErrAddressRequired
	}
	l.Address = v
	return nil
}

type EditDistrict struct{ Value string }

func (e EditDistrict) Apply(l *Listing) error {
	v := strings.TrimSpace(e.Value)
	if v == "" {
		return ErrDistrictRequired
	}
	l.District = v
	return nil
}

type EditNightlyPrice struct{ Value int64 }

func (e EditNightlyPrice) Apply(l *Listing) error {
	if e.Value <= 0 {
		return ErrNightlyPrice
	}
	l.NightlyPrice = e.Value
	return nil
}

type EditRooms struct{ Value int }

func (e EditRooms) Apply(l *Listing) error {
	if e.Value < 0 {
		return ErrRoomsNegative
	}
	l.Rooms = e.Value
	return nil
}

type EditGuestsLimit struct{ Value int }

func (e EditGuestsLimit) Apply(l *Listing) error {
	if e.Value < 1 {
		return ErrGuestsLimit
	}
	l.GuestsLimit = e.Value
	return nil
}

var ErrNoEdits = errors.New("listings: at least one edit is required")

// ApplyEdits applies the edits in order; the first failing edit aborts the
// whole update and leaves the listing untouched.
func (l *Listing) ApplyEdits(edits []FieldEdit, now time.Time) error {
	if len(edits) == 0 {
		return ErrNoEdits
	}
	draft := *l
	for _, edit := range edits {
		if err := edit.Apply(&draft); err != nil {
			return err
		}
	}
	draft.touch(now)
	draft.Record(ListingUpdated{ListingID: l.ID, At: draft.UpdatedAt})
	*l = draft
	return nil
}
