package listings

import "strings"

const (
	defaultSearchLimit = 24
	maxSearchLimit     = 60
)

// SearchParams describe renter-facing catalog filters. Zero values mean the
// filter is not applied; OnlyActive is forced for the public catalog.
type SearchParams struct {
	Districts  []string
	MaxPrice   int64
	MinGuests  int
	OnlyActive bool
	Limit      int
	Offset     int
}

// Normalized trims district tokens and clamps paging.
func (p SearchParams) Normalized() SearchParams {
	out := p
	out.Districts = out.Districts[:0:0]
	for _, d := range p.Districts {
		d = strings.TrimSpace(d)
		if d != "" {
			out.Districts = append(out.Districts, d)
		}
	}
	if out.Limit <= 0 {
		out.Limit = defaultSearchLimit
	}
	if out.Limit > maxSearchLimit {
		out.Limit = maxSearchLimit
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	return out
}

// Matches applies the filters to a single listing.
func (p SearchParams) Matches(l *Listing) bool {
	if l == nil {
		return false
	}
	if p.OnlyActive && !l.Active {
		return false
	}
	if len(p.Districts) > 0 && !districtIncluded(l.District, p.Districts) {
		return false
	}
	if p.MaxPrice > 0 && l.NightlyPrice > p.MaxPrice {
		return false
	}
	if p.MinGuests > 0 && l.GuestsLimit < p.MinGuests {
		return false
	}
	return true
}

func districtIncluded(district string, allowed []string) bool {
	for _, d := range allowed {
		if strings.EqualFold(district, d) {
			return true
		}
	}
	return false
}
